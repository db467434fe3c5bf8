package api

import (
	"errors"
	"net/http"

	"github.com/vhoudet/videos-ms-go/internal/api_context"
	"github.com/vhoudet/videos-ms-go/internal/logger"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/usecase/video"
)

// DeleteVideoHandler deletes a video and all of its stored artifacts by ID.
func DeleteVideoHandler(svc port.VideoDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		if err := svc.DeleteVideo(r.Context(), id); err != nil {
			if errors.Is(err, video.ErrNotFound) {
				WriteError(w, http.StatusNotFound, "Video not found", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Failed to delete video", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
		logger.Infof(r.Context(), "✅  Successfully deleted video #%s", id)
	}
}
