package video

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/vhoudet/videos-ms-go/internal/model"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

type videoDeleterSrv struct {
	repo  port.VideoRepository
	strg  port.Storage
	cache port.Cache
}

// NewVideoDeleter initialises a VideoDeleter service.
func NewVideoDeleter(repo port.VideoRepository, strg port.Storage, cache port.Cache) port.VideoDeleter {
	return &videoDeleterSrv{repo: repo, strg: strg, cache: cache}
}

// DeleteVideo removes every storage object recorded for the video, then
// soft-deletes the database row. Deleting an already-deleted video succeeds
// without touching anything.
func (s *videoDeleterSrv) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: video %s", ErrNotFound, id)
		}
		return err
	}
	if video.Status == model.VideoStatusDeleted {
		return nil
	}

	keys := video.ArtifactKeys()
	log.Printf("removing %d storage objects for video #%s...", len(keys), id)
	if err := s.strg.RemoveFiles(ctx, video.Bucket, keys); err != nil {
		return fmt.Errorf("failed removing storage objects for video #%s: %w", id, err)
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed soft-deleting video #%s: %w", id, err)
	}

	if err := s.cache.DeleteVideoDetails(ctx, id); err != nil {
		log.Printf("failed invalidating cached details for video #%s: %v", id, err)
	}
	return nil
}
