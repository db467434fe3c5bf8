package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	guuid "github.com/google/uuid"
	"github.com/vhoudet/videos-ms-go/internal/api_context"
	"github.com/vhoudet/videos-ms-go/internal/logger"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/usecase/video"
	msuuid "github.com/vhoudet/videos-ms-go/internal/uuid"
	"github.com/vhoudet/videos-ms-go/internal/validation"
)

type InitiateUploadRequest struct {
	Filename  string  `json:"filename" validate:"required,max=255"`
	SizeBytes int64   `json:"size_bytes" validate:"required,gt=0"`
	MimeType  string  `json:"mime_type" validate:"required"`
	AnswerID  *string `json:"answer_id,omitempty" validate:"omitempty,uuid"`
}

func InitiateUploadHandler(svc port.UploadInitiator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := api_context.AuthUserIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusUnauthorized, "authentication is required", nil)
			return
		}

		var req InitiateUploadRequest
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

		in := port.InitiateUploadInput{
			UserID:    userID,
			Filename:  req.Filename,
			SizeBytes: req.SizeBytes,
			MimeType:  req.MimeType,
			AnswerID:  answerID,
		}
		out, err := svc.InitiateUpload(r.Context(), in)
		if err != nil {
			writeUploadError(w, err)
			return
		}

		RespondJSON(w, http.StatusCreated, out)
		logger.Infof(r.Context(), "✅  Successfully initiated upload for video #%s", out.VideoID)
	}
}

func parseOptionalUUID(s *string) (*msuuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	parsed, err := guuid.Parse(*s)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID %q: %w", *s, err)
	}
	id := msuuid.UUID(parsed)
	return &id, nil
}

// writeUploadError maps upload initiation failures to their HTTP status.
func writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, video.ErrTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, "File is too large", err)
	case errors.Is(err, video.ErrUnsupportedMimeType):
		WriteError(w, http.StatusUnsupportedMediaType, "Unsupported file type", err)
	case errors.Is(err, video.ErrInvalidPartSize):
		WriteError(w, http.StatusBadRequest, "Invalid part size", err)
	case errors.Is(err, video.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Answer not found", err)
	default:
		WriteError(w, http.StatusInternalServerError, "Could not initiate upload", err)
	}
}
