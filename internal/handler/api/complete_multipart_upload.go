package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vhoudet/videos-ms-go/internal/api_context"
	"github.com/vhoudet/videos-ms-go/internal/logger"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/usecase/video"
	"github.com/vhoudet/videos-ms-go/internal/validation"
)

type CompleteMultipartUploadRequest struct {
	UploadID string `json:"upload_id" validate:"required"`
	Parts    []struct {
		PartNumber int    `json:"part_number" validate:"required,gt=0"`
		ETag       string `json:"etag" validate:"required"`
	} `json:"parts" validate:"required,min=1,dive"`
}

func CompleteMultipartUploadHandler(svc port.MultipartUploadCompleter) http.HandlerFunc {
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

		var req CompleteMultipartUploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request", fmt.Errorf("invalid JSON: %w", err))
			return
		}

		if errs := validation.ValidateStruct(req); errs != nil {
			errsJSON, err := validation.ErrorsToJson(errs)
			if err != nil {
				WriteError(w, http.StatusInternalServerError, "Validation error (could not encode details)", err)
				return
			}
			RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
			logger.Warnf(r.Context(), "❌  Validation failed: %s", errsJSON)
			return
		}

		parts := make([]port.CompletedPart, 0, len(req.Parts))
		for _, p := range req.Parts {
			parts = append(parts, port.CompletedPart{PartNumber: p.PartNumber, ETag: p.ETag})
		}

		in := port.CompleteMultipartUploadInput{
			ID:       id,
			UserID:   userID,
			UploadID: req.UploadID,
			Parts:    parts,
		}
		if err := svc.CompleteMultipartUpload(r.Context(), in); err != nil {
			switch {
			case errors.Is(err, video.ErrNotFound):
				WriteError(w, http.StatusNotFound, "Video not found", nil)
			case errors.Is(err, video.ErrInvalidStatus):
				WriteError(w, http.StatusConflict, "Video is not awaiting an upload", err)
			case errors.Is(err, video.ErrObjectNotFound):
				WriteError(w, http.StatusConflict, "Upload session not found", err)
			default:
				WriteError(w, http.StatusInternalServerError, "Could not complete multipart upload", err)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
		logger.Infof(r.Context(), "✅  Successfully completed multipart upload of video #%s", id)
	}
}
