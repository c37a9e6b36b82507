package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tripora/tripora/internal/domain"
	"github.com/tripora/tripora/internal/service"
)

// MediaHandler serves stored media bytes.
type MediaHandler struct {
	media *service.MediaService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(media *service.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// HandleGet streams a stored image.
// GET /media/{ref}
func (h *MediaHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")

	data, contentType, err := h.media.Fetch(r.Context(), ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Media not found.")
			return
		}
		slog.Error("fetch media", "ref", ref, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("write media response", "ref", ref, "error", err)
	}
}
