package port

import (
	"context"

	"github.com/vhoudet/videos-ms-go/internal/model"
	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

// TranscriptionUpdate carries the columns owned by the transcription branch.
type TranscriptionUpdate struct {
	CaptionsKey string
	CaptionsURL string
	Text        string
	Language    string
	Confidence  float64
}

// VideoRepository defines persistence operations for videos. Updates are
// scoped to the field group each pipeline actor owns, so concurrent branch
// writes never touch the same columns.
type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	GetByID(ctx context.Context, ID uuid.UUID) (*model.Video, error)
	MarkUploaded(ctx context.Context, ID uuid.UUID, originalURL string) error
	UpdateStatusProgress(ctx context.Context, ID uuid.UUID, status model.VideoStatus, progress int) error
	UpdateProbeMetadata(ctx context.Context, ID uuid.UUID, info VideoInfo) error
	UpdateRenditions(ctx context.Context, ID uuid.UUID, renditions model.Renditions, masterKey, masterURL string) error
	UpdateThumbnail(ctx context.Context, ID uuid.UUID, thumbnailKey, thumbnailURL string, sprite model.Sprite) error
	UpdateTranscription(ctx context.Context, ID uuid.UUID, t TranscriptionUpdate) error
	MarkFailed(ctx context.Context, ID uuid.UUID, message string) error
	SoftDelete(ctx context.Context, ID uuid.UUID) error
}

// AnswerRepository is the boundary to the externally-owned answers table,
// needed only to verify that a linked answer belongs to the caller.
type AnswerRepository interface {
	OwnedByUser(ctx context.Context, answerID, userID uuid.UUID) (bool, error)
}
