package video

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/vhoudet/videos-ms-go/internal/model"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

type uploadInitiatorSrv struct {
	repo    port.VideoRepository
	answers port.AnswerRepository
	strg    port.Storage
	genUUID port.UUIDGen
	bucket  string
}

func NewUploadInitiator(repo port.VideoRepository, answers port.AnswerRepository, strg port.Storage, genUUID port.UUIDGen, bucket string) port.UploadInitiator {
	return &uploadInitiatorSrv{repo: repo, answers: answers, strg: strg, genUUID: genUUID, bucket: bucket}
}

func (s *uploadInitiatorSrv) InitiateUpload(ctx context.Context, in port.InitiateUploadInput) (port.InitiateUploadOutput, error) {
	if in.SizeBytes <= 0 || in.SizeBytes > MaxSingleUploadSize {
		return port.InitiateUploadOutput{}, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, in.SizeBytes, MaxSingleUploadSize)
	}
	if !IsMimeTypeAllowed(in.MimeType) {
		return port.InitiateUploadOutput{}, fmt.Errorf("%w: %q", ErrUnsupportedMimeType, in.MimeType)
	}
	if err := checkAnswerOwnership(ctx, s.answers, in.AnswerID, in.UserID); err != nil {
		return port.InitiateUploadOutput{}, err
	}

	now := time.Now().UTC()
	objectKey := BuildObjectKey("originals", in.UserID, in.Filename, now, MimeTypeToExtension(in.MimeType))

	video := &model.Video{
		ID:               s.genUUID(),
		UserID:           in.UserID,
		AnswerID:         in.AnswerID,
		OriginalFilename: in.Filename,
		MimeType:         in.MimeType,
		SizeBytes:        in.SizeBytes,
		Bucket:           s.bucket,
		ObjectKey:        objectKey,
		Status:           model.VideoStatusUploading,
		Renditions:       model.Renditions{},
	}
	if err := s.repo.Create(ctx, video); err != nil {
		return port.InitiateUploadOutput{}, err
	}

	// The size ceiling carries a safety margin to tolerate client estimation
	// error.
	post, err := s.strg.GeneratePresignedPost(ctx, s.bucket, objectKey, in.MimeType, 1, in.SizeBytes*UploadSizeMargin, UploadLinkTTL)
	if err != nil {
		// no object will ever land behind the record, drop it
		discardUploadRecord(ctx, s.repo, video.ID)
		return port.InitiateUploadOutput{}, err
	}

	return port.InitiateUploadOutput{
		VideoID:      video.ID,
		UploadURL:    post.URL,
		UploadFields: post.FormFields,
		Key:          objectKey,
		ExpiresIn:    int(UploadLinkTTL.Seconds()),
	}, nil
}

// discardUploadRecord soft-deletes a record created for an upload that could
// not be presigned, so it never lingers in 'uploading'.
func discardUploadRecord(ctx context.Context, repo port.VideoRepository, id uuid.UUID) {
	if err := repo.SoftDelete(ctx, id); err != nil {
		log.Printf("failed discarding video #%s after a presign error: %v", id, err)
	}
}

// checkAnswerOwnership verifies an optional answer link resolves to a record
// owned by the caller. A foreign or missing answer is indistinguishable from
// a nonexistent one.
func checkAnswerOwnership(ctx context.Context, answers port.AnswerRepository, answerID *uuid.UUID, userID uuid.UUID) error {
	if answerID == nil {
		return nil
	}
	owned, err := answers.OwnedByUser(ctx, *answerID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return fmt.Errorf("%w: answer %s", ErrNotFound, answerID)
	}
	return nil
}
