package task

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/usecase/video"
	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

type Dispatcher struct {
	client *asynq.Client
}

// compile-time check
var _ port.TaskDispatcher = (*Dispatcher)(nil)

func NewDispatcher(addr, password string) *Dispatcher {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	return &Dispatcher{client: c}
}

func (d *Dispatcher) EnqueueProcessVideo(ctx context.Context, id uuid.UUID) error {
	t, err := NewProcessVideoTask(id.String())
	if err != nil {
		return err
	}
	// A failed job is never retried automatically; re-enqueueing is an
	// external decision. The timeout is the job's hard wall-clock ceiling.
	opts := []asynq.Option{
		asynq.MaxRetry(0),
		asynq.Timeout(video.HardTimeLimit),
	}
	if _, err := d.client.EnqueueContext(ctx, t, opts...); err != nil {
		return err
	}
	return nil
}
