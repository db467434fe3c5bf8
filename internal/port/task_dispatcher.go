package port

import (
	"context"

	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

// TaskDispatcher enqueues asynchronous processing jobs for uploaded videos.
type TaskDispatcher interface {
	EnqueueProcessVideo(ctx context.Context, id uuid.UUID) error
}
