package api

import (
	"errors"
	"net/http"

	"github.com/vhoudet/videos-ms-go/internal/api_context"
	"github.com/vhoudet/videos-ms-go/internal/logger"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/usecase/video"
)

func GetVideoStatusHandler(svc port.StatusGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		out, err := svc.GetVideoStatus(r.Context(), id)
		if err != nil {
			if errors.Is(err, video.ErrNotFound) {
				WriteError(w, http.StatusNotFound, "Video not found", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Could not get video status", err)
			return
		}

		// Status polls must never be served stale.
		w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
		RespondJSON(w, http.StatusOK, out)
		logger.Debugf(r.Context(), "returned status %q for video #%s", out.Status, id)
	}
}
