package service

import (
	"errors"
	"quizarena/internal/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const sessionTokenTTL = 12 * time.Hour

// TokenService issues and validates session-scoped tokens
type TokenService struct {
	jwtSecret []byte
}

// NewTokenService creates a new token service
func NewTokenService(secret string) *TokenService {
	return &TokenService{jwtSecret: []byte(secret)}
}

// GenerateSessionToken creates a token that grants control of one session
func (s *TokenService) GenerateSessionToken(sessionID, playerName string) (string, error) {
	claims := &model.SessionClaims{
		SessionID:  sessionID,
		PlayerName: playerName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateSessionToken validates a session JWT and returns claims
func (s *TokenService) ValidateSessionToken(tokenString string) (*model.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
