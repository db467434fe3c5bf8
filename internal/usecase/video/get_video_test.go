package video

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/vhoudet/videos-ms-go/internal/mock"
	"github.com/vhoudet/videos-ms-go/internal/model"
	"github.com/vhoudet/videos-ms-go/internal/port"
	msuuid "github.com/vhoudet/videos-ms-go/internal/uuid"
)

func readyVideo() *model.Video {
	duration := 120.0
	width, height := 1920, 1080
	masterKey := "hls/aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee/master.m3u8"
	masterURL := "https://cdn.example.com/" + masterKey
	return &model.Video{
		ID:           msuuid.UUID(uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")),
		UserID:       msuuid.NewUUID(),
		Bucket:       "videos",
		ObjectKey:    "originals/u/1_abcd1234.mp4",
		MimeType:     "video/mp4",
		SizeBytes:    1024,
		Status:       model.VideoStatusReady,
		Progress:     100,
		Duration:     &duration,
		Width:        &width,
		Height:       &height,
		Renditions:   model.Renditions{"720p": "renditions/x/720p.mp4", "1080p": "renditions/x/1080p.mp4"},
		HLSMasterKey: &masterKey,
		HLSMasterURL: &masterURL,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestGetVideo_CacheHit(t *testing.T) {
	cached := &port.GetVideoOutput{VideoID: msuuid.NewUUID(), Status: model.VideoStatusReady}
	repo := &mock.MockVideoRepo{}
	ca := &mock.Cache{DetailsOut: cached}
	svc := NewVideoGetter(repo, ca)

	out, err := svc.GetVideo(context.Background(), cached.VideoID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != cached {
		t.Error("expected the cached payload to be returned")
	}
	if repo.GetCalled {
		t.Error("did not expect the repository to be hit")
	}
}

func TestGetVideo_TerminalStateIsCached(t *testing.T) {
	v := readyVideo()
	repo := &mock.MockVideoRepo{VideoRecord: v}
	ca := &mock.Cache{}
	svc := NewVideoGetter(repo, ca)

	out, err := svc.GetVideo(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ca.SetCalled {
		t.Error("expected the terminal payload to be cached")
	}
	if !out.Streaming.HasHLS {
		t.Error("expected HLS to be reported")
	}
	// qualities are sorted for stable output
	if len(out.Streaming.Qualities) != 2 || out.Streaming.Qualities[0] != "1080p" {
		t.Errorf("unexpected qualities %v", out.Streaming.Qualities)
	}
}

func TestGetVideo_InFlightStateIsNotCached(t *testing.T) {
	v := readyVideo()
	v.Status = model.VideoStatusProcessing
	v.Progress = 10
	repo := &mock.MockVideoRepo{VideoRecord: v}
	ca := &mock.Cache{}
	svc := NewVideoGetter(repo, ca)

	if _, err := svc.GetVideo(context.Background(), v.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ca.SetCalled {
		t.Error("did not expect an in-flight payload to be cached")
	}
}

func TestGetVideo_NotFound(t *testing.T) {
	repo := &mock.MockVideoRepo{GetErr: sql.ErrNoRows}
	svc := NewVideoGetter(repo, &mock.Cache{})

	if _, err := svc.GetVideo(context.Background(), msuuid.NewUUID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetVideo_DeletedLooksMissing(t *testing.T) {
	v := readyVideo()
	v.Status = model.VideoStatusDeleted
	repo := &mock.MockVideoRepo{VideoRecord: v}
	svc := NewVideoGetter(repo, &mock.Cache{})

	if _, err := svc.GetVideo(context.Background(), v.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetVideoStatus_Success(t *testing.T) {
	v := readyVideo()
	v.Status = model.VideoStatusProcessing
	v.Progress = 10
	repo := &mock.MockVideoRepo{VideoRecord: v}
	svc := NewStatusGetter(repo)

	out, err := svc.GetVideoStatus(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Status != model.VideoStatusProcessing || out.Progress != 10 {
		t.Errorf("unexpected status output %+v", out)
	}
	if out.Error != nil {
		t.Errorf("expected no error message, got %q", *out.Error)
	}
}

func TestGetVideoStatus_FailedCarriesMessage(t *testing.T) {
	v := readyVideo()
	msg := "source has no video stream"
	v.Status = model.VideoStatusFailed
	v.FailureMessage = &msg
	repo := &mock.MockVideoRepo{VideoRecord: v}
	svc := NewStatusGetter(repo)

	out, err := svc.GetVideoStatus(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Error == nil || *out.Error != msg {
		t.Errorf("expected failure message %q, got %v", msg, out.Error)
	}
}
