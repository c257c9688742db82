package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"cardscan/internal/models"
	"cardscan/internal/scan"

	"github.com/google/uuid"
)

// HandleScan accepts a card photo (multipart file upload or JSON image URL),
// runs the identification pipeline, and returns the new scan session.
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var imageData []byte
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var request struct {
			ImageURL string `json:"image_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		if request.ImageURL == "" {
			h.writeError(w, "image_url is required", http.StatusBadRequest)
			return
		}
		data, err := h.fetcher.Fetch(r.Context(), request.ImageURL)
		if err != nil {
			h.writeError(w, "Failed to fetch image: "+err.Error(), http.StatusBadRequest)
			return
		}
		imageData = data
	} else {
		file, _, err := r.FormFile("file")
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		// Limit file size to 10MB
		imageData, err = io.ReadAll(io.LimitReader(file, 10*1024*1024))
		if err != nil {
			h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}

	session := &models.ScanSession{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}

	card, err := h.pipeline.Scan(r.Context(), imageData)
	if err != nil {
		session.LastError = scanErrorMessage(err)
	} else {
		session.Card = card
	}

	// Only completed sessions are published; an in-flight scan is never
	// visible to concurrent session reads.
	h.sessionStore.Set(session.ID, session)
	h.writeJSON(w, session)
}

// scanErrorMessage maps pipeline errors to the short, user-facing messages
// the screen shows. Nothing here is logged durably.
func scanErrorMessage(err error) string {
	switch {
	case errors.Is(err, scan.ErrBadImage):
		return "The image could not be read. Try capturing again."
	case errors.Is(err, scan.ErrScannerUnavailable):
		return "Scanner unavailable. Check your connection and restart."
	case errors.Is(err, scan.ErrNoUsableText):
		return "No readable text found. Improve lighting and focus, then retry."
	case errors.Is(err, scan.ErrCardNotFound):
		return "Card not recognized. Improve lighting, focus, or framing and retry."
	default:
		return err.Error()
	}
}
