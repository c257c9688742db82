package handlers

import (
	"errors"
	"net/http"

	"cardscan/internal/scan"
)

// handleTranslate runs the on-demand translation action for a session's
// resolved card. Invoked only by explicit user action, never automatically.
func (h *Handler) handleTranslate(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := h.getSessionOrError(w, sessionID)
	if !ok {
		return
	}

	if session.Card == nil {
		h.writeError(w, "Session has no resolved card", http.StatusConflict)
		return
	}

	if !h.sessionStore.Acquire(sessionID) {
		h.writeError(w, scan.ErrBusy.Error(), http.StatusConflict)
		return
	}
	defer h.sessionStore.Release(sessionID)

	if err := h.pipeline.Translate(r.Context(), session.Card); err != nil {
		if errors.Is(err, scan.ErrNoRulesText) {
			h.writeError(w, "Card has no rules text to translate", http.StatusUnprocessableEntity)
			return
		}
		// Translation failure is recoverable and leaves the card unchanged.
		session.LastError = "Translation failed. Try again."
		h.sessionStore.Set(sessionID, session)
		h.writeJSON(w, session)
		return
	}

	session.LastError = ""
	h.sessionStore.Set(sessionID, session)
	h.writeJSON(w, session)
}
