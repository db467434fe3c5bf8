package port

import (
	"context"

	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

// Cache stores video detail payloads once they reach a terminal state, so
// polling clients stop hitting the database.
type Cache interface {
	GetVideoDetails(ctx context.Context, id uuid.UUID) (*GetVideoOutput, error)
	SetVideoDetails(ctx context.Context, id uuid.UUID, out *GetVideoOutput) error
	DeleteVideoDetails(ctx context.Context, id uuid.UUID) error
}
