package handler

import (
	"encoding/json"
	"net/http"
	"quizarena/internal/service"
)

// HighScoreHandler serves the high-score list
type HighScoreHandler struct {
	scores *service.HighScoreService
}

func NewHighScoreHandler(scores *service.HighScoreService) *HighScoreHandler {
	return &HighScoreHandler{scores: scores}
}

// List handles GET /v1/highscores
func (h *HighScoreHandler) List(w http.ResponseWriter, r *http.Request) {
	scores, _ := h.scores.TopScores(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{"highScores": scores})
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
