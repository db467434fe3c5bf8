package video

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/vhoudet/videos-ms-go/internal/model"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

type videoGetterSrv struct {
	repo  port.VideoRepository
	cache port.Cache
}

// NewVideoGetter initialises a VideoGetter service.
func NewVideoGetter(repo port.VideoRepository, cache port.Cache) port.VideoGetter {
	return &videoGetterSrv{repo: repo, cache: cache}
}

func (s *videoGetterSrv) GetVideo(ctx context.Context, id uuid.UUID) (*port.GetVideoOutput, error) {
	if cached, err := s.cache.GetVideoDetails(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: video %s", ErrNotFound, id)
		}
		return nil, err
	}
	if video.Status == model.VideoStatusDeleted {
		return nil, fmt.Errorf("%w: video %s", ErrNotFound, id)
	}

	out := buildVideoOutput(video)

	// Only terminal payloads are immutable enough to cache.
	if video.Status.Terminal() {
		if err := s.cache.SetVideoDetails(ctx, id, out); err != nil {
			log.Printf("failed caching details for video #%s: %v", id, err)
		}
	}

	return out, nil
}

func buildVideoOutput(video *model.Video) *port.GetVideoOutput {
	qualities := make([]string, 0, len(video.Renditions))
	for label := range video.Renditions {
		qualities = append(qualities, label)
	}
	sort.Strings(qualities)

	return &port.GetVideoOutput{
		VideoID:   video.ID,
		Status:    video.Status,
		Progress:  video.Progress,
		CreatedAt: video.CreatedAt,
		Metadata: port.VideoMetadataOutput{
			SizeBytes:   video.SizeBytes,
			MimeType:    video.MimeType,
			Duration:    video.Duration,
			Width:       video.Width,
			Height:      video.Height,
			FrameRate:   video.FrameRate,
			CodecName:   video.CodecName,
			BitrateKbps: video.BitrateKbps,
		},
		OriginalURL:  video.OriginalURL,
		ThumbnailURL: video.ThumbnailURL,
		Sprite:       video.Sprite,
		Streaming: port.StreamingOutput{
			HasHLS:    video.HLSMasterURL != nil,
			MasterURL: video.HLSMasterURL,
			Qualities: qualities,
		},
		Transcription: port.TranscriptionOutput{
			Text:        video.Transcript,
			Language:    video.TranscriptLanguage,
			Confidence:  video.TranscriptConfidence,
			CaptionsURL: video.CaptionsURL,
		},
	}
}
