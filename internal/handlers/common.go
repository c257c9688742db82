package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"cardscan/internal/images"
	"cardscan/internal/models"
	"cardscan/internal/scan"
	"cardscan/internal/storage"
)

// Handler serves the single-screen scan interface: upload a card photo,
// view the identified card, optionally translate its rules text.
type Handler struct {
	sessionStore *storage.SessionStore
	pipeline     *scan.Pipeline
	fetcher      *images.Fetcher
}

func New(pipeline *scan.Pipeline) *Handler {
	return &Handler{
		sessionStore: storage.New(),
		pipeline:     pipeline,
		fetcher:      images.NewFetcher(),
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*models.ScanSession, bool) {
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}
