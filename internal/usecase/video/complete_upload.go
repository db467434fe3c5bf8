package video

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vhoudet/videos-ms-go/internal/model"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

type uploadCompleterSrv struct {
	repo       port.VideoRepository
	strg       port.Storage
	dispatcher port.TaskDispatcher
}

func NewUploadCompleter(repo port.VideoRepository, strg port.Storage, dispatcher port.TaskDispatcher) port.UploadCompleter {
	return &uploadCompleterSrv{repo: repo, strg: strg, dispatcher: dispatcher}
}

func (s *uploadCompleterSrv) CompleteUpload(ctx context.Context, in port.CompleteUploadInput) error {
	video, err := loadOwnedVideo(ctx, s.repo, in.ID, in.UserID)
	if err != nil {
		return err
	}
	if video.Status == model.VideoStatusUploaded {
		return nil
	}
	if video.Status != model.VideoStatusUploading {
		return fmt.Errorf("%w: expected %q, got %q", ErrInvalidStatus, model.VideoStatusUploading, video.Status)
	}

	return finishUpload(ctx, s.repo, s.strg, s.dispatcher, video)
}

type multipartUploadCompleterSrv struct {
	repo       port.VideoRepository
	strg       port.Storage
	dispatcher port.TaskDispatcher
}

func NewMultipartUploadCompleter(repo port.VideoRepository, strg port.Storage, dispatcher port.TaskDispatcher) port.MultipartUploadCompleter {
	return &multipartUploadCompleterSrv{repo: repo, strg: strg, dispatcher: dispatcher}
}

func (s *multipartUploadCompleterSrv) CompleteMultipartUpload(ctx context.Context, in port.CompleteMultipartUploadInput) error {
	video, err := loadOwnedVideo(ctx, s.repo, in.ID, in.UserID)
	if err != nil {
		return err
	}
	if video.Status == model.VideoStatusUploaded {
		return nil
	}
	if video.Status != model.VideoStatusUploading {
		return fmt.Errorf("%w: expected %q, got %q", ErrInvalidStatus, model.VideoStatusUploading, video.Status)
	}

	// Assemble the parts server-side before the object becomes addressable.
	if err := s.strg.CompleteMultipartUpload(ctx, video.Bucket, video.ObjectKey, in.UploadID, in.Parts); err != nil {
		return fmt.Errorf("complete multipart upload for video #%s: %w", video.ID, err)
	}

	return finishUpload(ctx, s.repo, s.strg, s.dispatcher, video)
}

// loadOwnedVideo fetches a video and enforces ownership. A video belonging to
// another user is reported as not found, never as forbidden.
func loadOwnedVideo(ctx context.Context, repo port.VideoRepository, id, userID uuid.UUID) (*model.Video, error) {
	video, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: video %s", ErrNotFound, id)
		}
		return nil, err
	}
	if video.UserID != userID {
		return nil, fmt.Errorf("%w: video %s", ErrNotFound, id)
	}
	return video, nil
}

func finishUpload(ctx context.Context, repo port.VideoRepository, strg port.Storage, dispatcher port.TaskDispatcher, video *model.Video) error {
	originalURL := strg.PublicURL(video.Bucket, video.ObjectKey)
	if err := repo.MarkUploaded(ctx, video.ID, originalURL); err != nil {
		return fmt.Errorf("failed updating video: %w", err)
	}

	if err := dispatcher.EnqueueProcessVideo(ctx, video.ID); err != nil {
		return fmt.Errorf("failed enqueueing processing job for video #%s: %w", video.ID, err)
	}
	return nil
}
