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

type statusGetterSrv struct {
	repo port.VideoRepository
}

// NewStatusGetter initialises a StatusGetter service.
func NewStatusGetter(repo port.VideoRepository) port.StatusGetter {
	return &statusGetterSrv{repo: repo}
}

func (s *statusGetterSrv) GetVideoStatus(ctx context.Context, id uuid.UUID) (port.GetVideoStatusOutput, error) {
	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return port.GetVideoStatusOutput{}, fmt.Errorf("%w: video %s", ErrNotFound, id)
		}
		return port.GetVideoStatusOutput{}, err
	}
	if video.Status == model.VideoStatusDeleted {
		return port.GetVideoStatusOutput{}, fmt.Errorf("%w: video %s", ErrNotFound, id)
	}

	return port.GetVideoStatusOutput{
		VideoID:  video.ID,
		Status:   video.Status,
		Progress: video.Progress,
		Error:    video.FailureMessage,
	}, nil
}
