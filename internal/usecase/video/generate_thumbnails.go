package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vhoudet/videos-ms-go/internal/ffmpeg"
	"github.com/vhoudet/videos-ms-go/internal/model"
	"github.com/vhoudet/videos-ms-go/internal/port"
)

type thumbnailGeneratorSrv struct {
	repo       port.VideoRepository
	strg       port.Storage
	thumb      port.Thumbnailer
	scratchDir string
}

// NewThumbnailGenerator initialises the thumbnail branch of the pipeline.
func NewThumbnailGenerator(repo port.VideoRepository, strg port.Storage, thumb port.Thumbnailer, scratchDir string) port.ThumbnailGenerator {
	return &thumbnailGeneratorSrv{repo: repo, strg: strg, thumb: thumb, scratchDir: scratchDir}
}

// GenerateThumbnails extracts the poster frame and the scrub sprite sheet,
// uploads both and records their keys in one write.
func (s *thumbnailGeneratorSrv) GenerateThumbnails(ctx context.Context, video model.Video) error {
	if video.Duration == nil {
		return fmt.Errorf("video #%s has no probed duration", video.ID)
	}
	duration := *video.Duration

	workDir, err := os.MkdirTemp(s.scratchDir, "thumbnails-*")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	srcPath := filepath.Join(workDir, "source"+filepath.Ext(video.ObjectKey))
	if err := s.strg.DownloadToFile(ctx, video.Bucket, video.ObjectKey, srcPath); err != nil {
		return fmt.Errorf("download source: %w", err)
	}

	posterPath := filepath.Join(workDir, "poster.jpg")
	if err := s.thumb.ExtractFrame(ctx, srcPath, posterPath, ffmpeg.PosterTimestamp(duration), PosterWidth); err != nil {
		return err
	}
	posterKey := ThumbnailKey(video.ID)
	if err := s.strg.UploadFile(ctx, video.Bucket, posterKey, posterPath, "image/jpeg"); err != nil {
		return fmt.Errorf("upload poster: %w", err)
	}

	spritePath := filepath.Join(workDir, "sprite.jpg")
	grid, err := s.thumb.GenerateSprite(ctx, srcPath, spritePath, duration, port.SpriteOptions{
		IntervalSeconds: SpriteIntervalSeconds,
		TileWidth:       SpriteTileWidth,
		TileHeight:      SpriteTileHeight,
		Columns:         SpriteColumns,
	})
	if err != nil {
		return err
	}
	spriteKey := SpriteKey(video.ID)
	if err := s.strg.UploadFile(ctx, video.Bucket, spriteKey, spritePath, "image/jpeg"); err != nil {
		return fmt.Errorf("upload sprite: %w", err)
	}

	sprite := model.Sprite{
		ObjectKey:       spriteKey,
		URL:             s.strg.PublicURL(video.Bucket, spriteKey),
		TileWidth:       SpriteTileWidth,
		TileHeight:      SpriteTileHeight,
		Columns:         grid.Columns,
		IntervalSeconds: SpriteIntervalSeconds,
		FrameCount:      grid.FrameCount,
	}
	posterURL := s.strg.PublicURL(video.Bucket, posterKey)
	return s.repo.UpdateThumbnail(ctx, video.ID, posterKey, posterURL, sprite)
}
