package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"quizarena/internal/game"
	"quizarena/internal/model"
	"quizarena/internal/service"
	"quizarena/internal/transport/rest/middleware"
)

// SessionHandler handles game session endpoints
type SessionHandler struct {
	arena *service.ArenaService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(arena *service.ArenaService) *SessionHandler {
	return &SessionHandler{arena: arena}
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.arena.Create(r.Context(), req)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.arena.Snapshot(middleware.GetSessionID(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// Intent handles POST /v1/sessions/{id}/intents
func (h *SessionHandler) Intent(w http.ResponseWriter, r *http.Request) {
	var msg model.IntentMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.arena.SendIntent(middleware.GetSessionID(r.Context()), game.IntentFromMessage(msg)); err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// Start handles POST /v1/sessions/{id}/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := h.arena.Start(middleware.GetSessionID(r.Context())); err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

// Delete handles DELETE /v1/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.arena.Stop(middleware.GetSessionID(r.Context())); err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// Result handles GET /v1/sessions/{id}/result
func (h *SessionHandler) Result(w http.ResponseWriter, r *http.Request) {
	result, err := h.arena.Result(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "result not available")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTier), errors.Is(err, service.ErrInvalidRounds):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionRunning):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrIntentDropped):
		writeError(w, http.StatusTooManyRequests, err.Error())
	default:
		log.Printf("[Session] Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
