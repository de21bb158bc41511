package middleware

import (
	"context"
	"net/http"
	"quizarena/internal/service"
	"strings"

	"github.com/gorilla/mux"
)

type contextKey string

const (
	SessionIDKey  contextKey = "sessionId"
	PlayerNameKey contextKey = "playerName"
)

// SessionMiddleware guards the routes of a single session with its token
type SessionMiddleware struct {
	tokens *service.TokenService
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(tokens *service.TokenService) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens}
}

// RequireSession validates the session JWT from the Authorization header or
// the token query param, and checks it was issued for the {id} in the path.
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			http.Error(w, `{"error":"missing authorization"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.ValidateSessionToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}
		if id := mux.Vars(r)["id"]; id != "" && id != claims.SessionID {
			http.Error(w, `{"error":"token not valid for this session"}`, http.StatusForbidden)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, SessionIDKey, claims.SessionID)
		ctx = context.WithValue(ctx, PlayerNameKey, claims.PlayerName)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID extracts the session ID from context
func GetSessionID(ctx context.Context) string {
	if v := ctx.Value(SessionIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetPlayerName extracts the player name from context
func GetPlayerName(ctx context.Context) string {
	if v := ctx.Value(PlayerNameKey); v != nil {
		return v.(string)
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
