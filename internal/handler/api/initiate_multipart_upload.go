package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vhoudet/videos-ms-go/internal/api_context"
	"github.com/vhoudet/videos-ms-go/internal/logger"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/validation"
)

type InitiateMultipartUploadRequest struct {
	Filename    string  `json:"filename" validate:"required,max=255"`
	SizeBytes   int64   `json:"size_bytes" validate:"required,gt=0"`
	PartSize    int64   `json:"part_size" validate:"required,gt=0"`
	ContentType string  `json:"content_type" validate:"required"`
	AnswerID    *string `json:"answer_id,omitempty" validate:"omitempty,uuid"`
}

func InitiateMultipartUploadHandler(svc port.MultipartUploadInitiator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := api_context.AuthUserIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusUnauthorized, "authentication is required", nil)
			return
		}

		var req InitiateMultipartUploadRequest
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

		answerID, err := parseOptionalUUID(req.AnswerID)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request", err)
			return
		}

		in := port.InitiateMultipartUploadInput{
			UserID:      userID,
			Filename:    req.Filename,
			SizeBytes:   req.SizeBytes,
			PartSize:    req.PartSize,
			ContentType: req.ContentType,
			AnswerID:    answerID,
		}
		out, err := svc.InitiateMultipartUpload(r.Context(), in)
		if err != nil {
			writeUploadError(w, err)
			return
		}

		RespondJSON(w, http.StatusCreated, out)
		logger.Infof(r.Context(), "✅  Successfully initiated multipart upload for video #%s (%d parts)", out.VideoID, out.TotalParts)
	}
}
