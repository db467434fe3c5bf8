package worker

import (
	"context"
	"log"

	guuid "github.com/google/uuid"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/task"
	msuuid "github.com/vhoudet/videos-ms-go/internal/uuid"
)

// ProcessVideoHandler handles a process-video task. It converts the incoming
// task payload to the ID expected by the pipeline orchestrator and delegates
// the call.
func ProcessVideoHandler(ctx context.Context, p task.ProcessVideoPayload, svc port.PipelineProcessor) error {
	id, err := guuid.Parse(p.VideoID)
	if err != nil {
		log.Printf("❌  Invalid video ID %q: %v", p.VideoID, err)
		return err
	}

	if err := svc.ProcessVideo(ctx, msuuid.UUID(id)); err != nil {
		log.Printf("❌  Failed to process video #%s: %v", id, err)
		return err
	}

	log.Printf("✅  Successfully processed video #%s", id)
	return nil
}
