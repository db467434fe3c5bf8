package video

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/vhoudet/videos-ms-go/internal/mock"
	"github.com/vhoudet/videos-ms-go/internal/model"
	"github.com/vhoudet/videos-ms-go/internal/port"
	msuuid "github.com/vhoudet/videos-ms-go/internal/uuid"
)

func uploadedVideo() *model.Video {
	return &model.Video{
		ID:        msuuid.UUID(uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")),
		UserID:    msuuid.UUID(uuid.MustParse("11111111-2222-3333-4444-555555555555")),
		Bucket:    "videos",
		ObjectKey: "originals/u/1_abcd1234.mp4",
		Status:    model.VideoStatusUploaded,
	}
}

func goodProbe() port.VideoInfo {
	return port.VideoInfo{
		Duration:    120,
		Width:       1920,
		Height:      1080,
		FrameRate:   30,
		CodecName:   "h264",
		BitrateKbps: 4500,
		HasVideo:    true,
		HasAudio:    true,
	}
}

func newProcessor(t *testing.T, repo *mock.MockVideoRepo, strg *mock.Storage, prober *mock.Prober,
	transcoder, thumbnailer, transcriber *mock.PipelineBranch) port.PipelineProcessor {
	t.Helper()
	return NewPipelineProcessor(repo, strg, prober, transcoder, thumbnailer, transcriber, t.TempDir(), 0)
}

func TestProcessVideo_Success(t *testing.T) {
	v := uploadedVideo()
	repo := &mock.MockVideoRepo{VideoRecord: v}
	strg := &mock.Storage{}
	prober := &mock.Prober{InfoOut: goodProbe()}
	transcoder := &mock.PipelineBranch{}
	thumbnailer := &mock.PipelineBranch{}
	transcriber := &mock.PipelineBranch{}
	svc := newProcessor(t, repo, strg, prober, transcoder, thumbnailer, transcriber)

	if err := svc.ProcessVideo(context.Background(), v.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []mock.StatusProgressUpdate{
		{Status: model.VideoStatusProcessing, Progress: ProgressDequeued},
		{Status: model.VideoStatusProcessing, Progress: ProgressValidated},
		{Status: model.VideoStatusProcessing, Progress: ProgressJoined},
		{Status: model.VideoStatusReady, Progress: ProgressDone},
	}
	if len(repo.StatusProgressUpdates) != len(want) {
		t.Fatalf("expected %d status updates, got %d: %+v", len(want), len(repo.StatusProgressUpdates), repo.StatusProgressUpdates)
	}
	for i, u := range want {
		if repo.StatusProgressUpdates[i] != u {
			t.Errorf("update %d: got %+v, want %+v", i, repo.StatusProgressUpdates[i], u)
		}
	}

	if repo.ProbeMetadata == nil || repo.ProbeMetadata.Height != 1080 {
		t.Error("expected probed metadata to be persisted")
	}
	if !transcoder.Called || !thumbnailer.Called || !transcriber.Called {
		t.Error("expected all three branches to run")
	}
	if transcoder.Video.Height == nil || *transcoder.Video.Height != 1080 {
		t.Error("expected branches to receive the probed height")
	}
	if repo.MarkFailedCalled {
		t.Error("did not expect the video to be marked failed")
	}
}

func TestProcessVideo_MissingRecordIsDropped(t *testing.T) {
	repo := &mock.MockVideoRepo{GetErr: sql.ErrNoRows}
	svc := newProcessor(t, repo, &mock.Storage{}, &mock.Prober{}, &mock.PipelineBranch{}, &mock.PipelineBranch{}, &mock.PipelineBranch{})

	if err := svc.ProcessVideo(context.Background(), msuuid.NewUUID()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.StatusProgressUpdates) != 0 {
		t.Error("did not expect any status update")
	}
}

func TestProcessVideo_TerminalStateIsDropped(t *testing.T) {
	v := uploadedVideo()
	v.Status = model.VideoStatusReady
	repo := &mock.MockVideoRepo{VideoRecord: v}
	transcoder := &mock.PipelineBranch{}
	svc := newProcessor(t, repo, &mock.Storage{}, &mock.Prober{}, transcoder, &mock.PipelineBranch{}, &mock.PipelineBranch{})

	if err := svc.ProcessVideo(context.Background(), v.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if transcoder.Called {
		t.Error("did not expect branches to run")
	}
	if len(repo.StatusProgressUpdates) != 0 {
		t.Error("did not expect any status update")
	}
}

func TestProcessVideo_RejectsSourceWithoutVideoStream(t *testing.T) {
	v := uploadedVideo()
	repo := &mock.MockVideoRepo{VideoRecord: v}
	info := goodProbe()
	info.HasVideo = false
	prober := &mock.Prober{InfoOut: info}
	transcoder := &mock.PipelineBranch{}
	svc := newProcessor(t, repo, &mock.Storage{}, prober, transcoder, &mock.PipelineBranch{}, &mock.PipelineBranch{})

	if err := svc.ProcessVideo(context.Background(), v.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !repo.MarkFailedCalled {
		t.Fatal("expected the video to be marked failed")
	}
	if repo.MarkFailedMessage == "" {
		t.Error("expected a failure message")
	}
	if transcoder.Called {
		t.Error("did not expect branches to run")
	}
}

func TestProcessVideo_RejectsTinySource(t *testing.T) {
	v := uploadedVideo()
	repo := &mock.MockVideoRepo{VideoRecord: v}
	info := goodProbe()
	info.Width = 100
	info.Height = 80
	svc := newProcessor(t, repo, &mock.Storage{}, &mock.Prober{InfoOut: info}, &mock.PipelineBranch{}, &mock.PipelineBranch{}, &mock.PipelineBranch{})

	if err := svc.ProcessVideo(context.Background(), v.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !repo.MarkFailedCalled {
		t.Fatal("expected the video to be marked failed")
	}
}

func TestProcessVideo_RejectsOverlongSource(t *testing.T) {
	v := uploadedVideo()
	repo := &mock.MockVideoRepo{VideoRecord: v}
	info := goodProbe()
	info.Duration = 100
	svc := NewPipelineProcessor(repo, &mock.Storage{}, &mock.Prober{InfoOut: info},
		&mock.PipelineBranch{}, &mock.PipelineBranch{}, &mock.PipelineBranch{}, t.TempDir(), 60)

	if err := svc.ProcessVideo(context.Background(), v.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !repo.MarkFailedCalled {
		t.Fatal("expected the video to be marked failed")
	}
}

// repoWritingThumbnailer records its artifact on the repo before returning,
// the way the real thumbnail branch does.
type repoWritingThumbnailer struct {
	repo *mock.MockVideoRepo
}

func (b *repoWritingThumbnailer) GenerateThumbnails(ctx context.Context, video model.Video) error {
	return b.repo.UpdateThumbnail(ctx, video.ID, "thumbs/poster.jpg", "https://cdn.example.com/thumbs/poster.jpg", model.Sprite{})
}

func TestProcessVideo_BranchFailureFailsTheJob(t *testing.T) {
	v := uploadedVideo()
	repo := &mock.MockVideoRepo{VideoRecord: v}
	transcoder := &mock.PipelineBranch{Err: errors.New("encode failure")}
	thumbnailer := &repoWritingThumbnailer{repo: repo}
	svc := NewPipelineProcessor(repo, &mock.Storage{}, &mock.Prober{InfoOut: goodProbe()},
		transcoder, thumbnailer, &mock.PipelineBranch{}, t.TempDir(), 0)

	if err := svc.ProcessVideo(context.Background(), v.ID); err == nil {
		t.Fatal("expected error, got nil")
	}
	if !repo.MarkFailedCalled {
		t.Fatal("expected the video to be marked failed")
	}

	// partial progress must never reach 'ready'
	for _, u := range repo.StatusProgressUpdates {
		if u.Status == model.VideoStatusReady {
			t.Errorf("video must not reach ready after a branch failure, got %+v", repo.StatusProgressUpdates)
		}
	}

	// the successful sibling's artifact stays referenced on the record
	if repo.ThumbnailKeyOut != "thumbs/poster.jpg" {
		t.Errorf("expected the sibling thumbnail to remain recorded, got %q", repo.ThumbnailKeyOut)
	}
}

func TestProcessVideo_SkipsTranscriptionWithoutAudio(t *testing.T) {
	v := uploadedVideo()
	repo := &mock.MockVideoRepo{VideoRecord: v}
	info := goodProbe()
	info.HasAudio = false
	transcriber := &mock.PipelineBranch{}
	svc := newProcessor(t, repo, &mock.Storage{}, &mock.Prober{InfoOut: info}, &mock.PipelineBranch{}, &mock.PipelineBranch{}, transcriber)

	if err := svc.ProcessVideo(context.Background(), v.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if transcriber.Called {
		t.Error("did not expect the transcription branch to run")
	}

	last := repo.StatusProgressUpdates[len(repo.StatusProgressUpdates)-1]
	if last.Status != model.VideoStatusReady || last.Progress != ProgressDone {
		t.Errorf("expected final update ready/100, got %+v", last)
	}
}
