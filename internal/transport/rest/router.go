package rest

import (
	"net/http"
	"os"
	"quizarena/internal/service"
	"quizarena/internal/transport/rest/handler"
	"quizarena/internal/transport/rest/middleware"
	"quizarena/internal/transport/ws"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
)

const requestTimeout = 10 * time.Second

// Container holds all dependencies for the router
type Container struct {
	ArenaService     *service.ArenaService
	HighScoreService *service.HighScoreService
	TokenService     *service.TokenService
	RewardService    *service.RewardService
	WSHub            *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(c.ArenaService)
	highScoreHandler := handler.NewHighScoreHandler(c.HighScoreService)
	resultHandler := handler.NewResultHandler(c.RewardService)
	wsHandler := ws.NewHandler(c.WSHub, c.ArenaService, c.TokenService)

	// Initialize middleware
	sessionMW := middleware.NewSessionMiddleware(c.TokenService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware, chimw.RequestID, chimw.RealIP, chimw.Recoverer)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// WebSocket route (token in query param, checked by the handler)
	v1.HandleFunc("/ws/sessions/{id}", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Public routes
	public := v1.NewRoute().Subrouter()
	public.Use(chimw.Timeout(requestTimeout))
	public.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	public.HandleFunc("/highscores", highScoreHandler.List).Methods("GET", "OPTIONS")
	public.HandleFunc("/results", resultHandler.ListByPlayer).Methods("GET", "OPTIONS")

	// Session routes (require the session's token)
	sessionRoutes := v1.PathPrefix("/sessions/{id}").Subrouter()
	sessionRoutes.Use(chimw.Timeout(requestTimeout), sessionMW.RequireSession)

	sessionRoutes.HandleFunc("", sessionHandler.Get).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("", sessionHandler.Delete).Methods("DELETE", "OPTIONS")
	sessionRoutes.HandleFunc("/intents", sessionHandler.Intent).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/start", sessionHandler.Start).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/result", sessionHandler.Result).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
