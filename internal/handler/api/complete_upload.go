package api

import (
	"errors"
	"net/http"

	"github.com/vhoudet/videos-ms-go/internal/api_context"
	"github.com/vhoudet/videos-ms-go/internal/logger"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/usecase/video"
)

func CompleteUploadHandler(svc port.UploadCompleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}
		userID, ok := api_context.AuthUserIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusUnauthorized, "authentication is required", nil)
			return
		}

		in := port.CompleteUploadInput{ID: id, UserID: userID}
		if err := svc.CompleteUpload(r.Context(), in); err != nil {
			switch {
			case errors.Is(err, video.ErrNotFound):
				WriteError(w, http.StatusNotFound, "Video not found", nil)
			case errors.Is(err, video.ErrInvalidStatus):
				WriteError(w, http.StatusConflict, "Video is not awaiting an upload", err)
			default:
				WriteError(w, http.StatusInternalServerError, "Could not complete upload", err)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
		logger.Infof(r.Context(), "✅  Successfully completed upload of video #%s", id)
	}
}
