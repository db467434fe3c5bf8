package video

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vhoudet/videos-ms-go/internal/model"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

type pipelineProcessorSrv struct {
	repo        port.VideoRepository
	strg        port.Storage
	prober      port.Prober
	transcoder  port.RenditionTranscoder
	thumbnailer port.ThumbnailGenerator
	transcriber port.AudioTranscriber
	scratchDir  string
	maxDuration float64 // seconds, 0 disables the check
}

// NewPipelineProcessor initialises the orchestrator run by the worker for
// every processing job.
func NewPipelineProcessor(
	repo port.VideoRepository,
	strg port.Storage,
	prober port.Prober,
	transcoder port.RenditionTranscoder,
	thumbnailer port.ThumbnailGenerator,
	transcriber port.AudioTranscriber,
	scratchDir string,
	maxDuration float64,
) port.PipelineProcessor {
	return &pipelineProcessorSrv{
		repo:        repo,
		strg:        strg,
		prober:      prober,
		transcoder:  transcoder,
		thumbnailer: thumbnailer,
		transcriber: transcriber,
		scratchDir:  scratchDir,
		maxDuration: maxDuration,
	}
}

// ProcessVideo drives one video through the full pipeline: download, probe,
// validate, then fan out the three branches and join on all of them. The job
// either produces every artifact or marks the video failed; there is no
// partial success.
func (s *pipelineProcessorSrv) ProcessVideo(ctx context.Context, id uuid.UUID) error {
	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Printf("video #%s no longer exists, dropping job", id)
			return nil
		}
		return err
	}
	if !video.Status.CanTransitionTo(model.VideoStatusProcessing) {
		log.Printf("video #%s is at status %q, dropping job", id, video.Status)
		return nil
	}

	if err := s.repo.UpdateStatusProgress(ctx, id, model.VideoStatusProcessing, ProgressDequeued); err != nil {
		return err
	}

	// The hard limit is enforced by the queue; this is a cooperative
	// checkpoint so slow jobs show up in the logs before they get killed.
	softLimit := time.AfterFunc(SoftTimeLimit, func() {
		log.Printf("video #%s exceeded the soft processing limit of %s", id, SoftTimeLimit)
	})
	defer softLimit.Stop()

	workDir, err := os.MkdirTemp(s.scratchDir, "pipeline-*")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	srcPath := filepath.Join(workDir, "source"+filepath.Ext(video.ObjectKey))
	if err := s.strg.DownloadToFile(ctx, video.Bucket, video.ObjectKey, srcPath); err != nil {
		return s.fail(ctx, id, fmt.Errorf("download source: %w", err))
	}

	info, err := s.prober.Probe(ctx, srcPath)
	if err != nil {
		return s.fail(ctx, id, fmt.Errorf("probe source: %w", err))
	}
	if msg := validateSource(info, s.maxDuration); msg != "" {
		log.Printf("video #%s rejected: %s", id, msg)
		return s.repo.MarkFailed(ctx, id, msg)
	}

	if err := s.repo.UpdateProbeMetadata(ctx, id, info); err != nil {
		return err
	}
	if err := s.repo.UpdateStatusProgress(ctx, id, model.VideoStatusProcessing, ProgressValidated); err != nil {
		return err
	}

	// Branches work off their own copy of the source and write disjoint
	// column groups, so they can run concurrently and join all-or-nothing.
	branchVideo := *video
	branchVideo.Duration = &info.Duration
	branchVideo.Width = &info.Width
	branchVideo.Height = &info.Height

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.transcoder.TranscodeVideo(gctx, branchVideo) })
	g.Go(func() error { return s.thumbnailer.GenerateThumbnails(gctx, branchVideo) })
	if info.HasAudio {
		g.Go(func() error { return s.transcriber.TranscribeVideo(gctx, branchVideo) })
	} else {
		log.Printf("video #%s has no audio track, skipping transcription", id)
	}
	if err := g.Wait(); err != nil {
		return s.fail(ctx, id, err)
	}

	if err := s.repo.UpdateStatusProgress(ctx, id, model.VideoStatusProcessing, ProgressJoined); err != nil {
		return err
	}
	return s.repo.UpdateStatusProgress(ctx, id, model.VideoStatusReady, ProgressDone)
}

// fail records the terminal failure, then surfaces the original error so the
// job itself is archived as failed too.
func (s *pipelineProcessorSrv) fail(ctx context.Context, id uuid.UUID, cause error) error {
	if err := s.repo.MarkFailed(ctx, id, cause.Error()); err != nil {
		log.Printf("failed marking video #%s as failed: %v", id, err)
	}
	return cause
}

// validateSource returns a rejection message, or "" when the source is
// processable.
func validateSource(info port.VideoInfo, maxDuration float64) string {
	if !info.HasVideo {
		return "source has no video stream"
	}
	if info.Width < MinSourceWidth || info.Height < MinSourceHeight {
		return fmt.Sprintf("source resolution %dx%d is below the %dx%d minimum",
			info.Width, info.Height, MinSourceWidth, MinSourceHeight)
	}
	if maxDuration > 0 && info.Duration > maxDuration {
		return fmt.Sprintf("source duration %.1fs exceeds the %.0fs maximum", info.Duration, maxDuration)
	}
	return ""
}
