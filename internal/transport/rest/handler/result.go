package handler

import (
	"net/http"
	"quizarena/internal/service"
	"strconv"
)

// ResultHandler serves stored session results
type ResultHandler struct {
	rewardSvc *service.RewardService
}

// NewResultHandler creates a new result handler
func NewResultHandler(rewardSvc *service.RewardService) *ResultHandler {
	return &ResultHandler{rewardSvc: rewardSvc}
}

// ListByPlayer handles GET /v1/results?player={name}&limit={n}
func (h *ResultHandler) ListByPlayer(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	if player == "" {
		writeError(w, http.StatusBadRequest, "player is required")
		return
	}
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	results, err := h.rewardSvc.RecentResults(r.Context(), player, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}
