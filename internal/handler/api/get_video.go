package api

import (
	"errors"
	"net/http"

	"github.com/vhoudet/videos-ms-go/internal/api_context"
	"github.com/vhoudet/videos-ms-go/internal/logger"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/usecase/video"
)

func GetVideoHandler(svc port.VideoGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		out, err := svc.GetVideo(r.Context(), id)
		if err != nil {
			if errors.Is(err, video.ErrNotFound) {
				WriteError(w, http.StatusNotFound, "Video not found", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Could not get video details", err)
			return
		}

		if out.Status.Terminal() {
			w.Header().Set("Cache-Control", "public, max-age=300")
		} else {
			w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
		}
		RespondJSON(w, http.StatusOK, out)
		logger.Infof(r.Context(), "✅  Successfully returned details for video #%s", id)
	}
}
