package video

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/vhoudet/videos-ms-go/internal/mock"
	"github.com/vhoudet/videos-ms-go/internal/model"
	"github.com/vhoudet/videos-ms-go/internal/port"
	msuuid "github.com/vhoudet/videos-ms-go/internal/uuid"
)

func TestInitiateUpload_Success(t *testing.T) {
	mockID := msuuid.UUID(uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"))
	userID := msuuid.UUID(uuid.MustParse("11111111-2222-3333-4444-555555555555"))

	repo := &mock.MockVideoRepo{}
	answers := &mock.MockAnswerRepo{}
	strg := &mock.Storage{}
	svc := NewUploadInitiator(repo, answers, strg, func() msuuid.UUID { return mockID }, "videos")

	in := port.InitiateUploadInput{
		UserID:    userID,
		Filename:  "holiday.mp4",
		SizeBytes: 1024,
		MimeType:  "video/mp4",
	}
	out, err := svc.InitiateUpload(context.Background(), in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.VideoID != mockID {
		t.Errorf("expected ID %q, got %q", mockID, out.VideoID)
	}
	if out.UploadURL != "https://example.com/upload" {
		t.Errorf("expected url %q, got %q", "https://example.com/upload", out.UploadURL)
	}
	if out.ExpiresIn != int(UploadLinkTTL.Seconds()) {
		t.Errorf("expected expiry %d, got %d", int(UploadLinkTTL.Seconds()), out.ExpiresIn)
	}

	keyPattern := regexp.MustCompile(fmt.Sprintf(`^originals/%s/\d+_[0-9a-f]{8}\.mp4$`, userID))
	if !keyPattern.MatchString(out.Key) {
		t.Errorf("key %q does not match the expected pattern", out.Key)
	}

	// verify repo.Create was called with a valid Video
	v := repo.Created
	if v == nil {
		t.Fatal("expected repo.Create to be called")
	}
	if v.ID != mockID {
		t.Errorf("expected create to be called with ID %q, got %q", mockID, v.ID)
	}
	if v.Status != model.VideoStatusUploading {
		t.Errorf("expected Status uploading, got %v", v.Status)
	}
	if v.Bucket != "videos" {
		t.Errorf("bucket should be 'videos', got %q", v.Bucket)
	}
	if v.ObjectKey != out.Key {
		t.Errorf("ObjectKey %q does not match returned key %q", v.ObjectKey, out.Key)
	}

	// verify strg call carries the size margin
	if !strg.GeneratePostCalled {
		t.Fatal("expected strg.GeneratePresignedPost to be called")
	}
	if strg.MinSize != 1 {
		t.Errorf("expected min size 1, got %d", strg.MinSize)
	}
	if strg.MaxSize != in.SizeBytes*UploadSizeMargin {
		t.Errorf("expected max size %d, got %d", in.SizeBytes*UploadSizeMargin, strg.MaxSize)
	}
	if strg.TTL != UploadLinkTTL {
		t.Errorf("strg called with TTL %v, want %v", strg.TTL, UploadLinkTTL)
	}
}

func TestInitiateUpload_TooLarge(t *testing.T) {
	repo := &mock.MockVideoRepo{}
	strg := &mock.Storage{}
	svc := NewUploadInitiator(repo, &mock.MockAnswerRepo{}, strg, msuuid.NewUUID, "videos")

	in := port.InitiateUploadInput{
		UserID:    msuuid.NewUUID(),
		Filename:  "huge.mp4",
		SizeBytes: MaxSingleUploadSize + 1,
		MimeType:  "video/mp4",
	}
	_, err := svc.InitiateUpload(context.Background(), in)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	// an oversize request must leave no trace
	if repo.Created != nil {
		t.Error("did not expect repo.Create to be called")
	}
	if strg.GeneratePostCalled {
		t.Error("did not expect strg.GeneratePresignedPost to be called")
	}
}

func TestInitiateUpload_UnsupportedMimeType(t *testing.T) {
	repo := &mock.MockVideoRepo{}
	svc := NewUploadInitiator(repo, &mock.MockAnswerRepo{}, &mock.Storage{}, msuuid.NewUUID, "videos")

	in := port.InitiateUploadInput{
		UserID:    msuuid.NewUUID(),
		Filename:  "notes.txt",
		SizeBytes: 1024,
		MimeType:  "text/plain",
	}
	_, err := svc.InitiateUpload(context.Background(), in)
	if !errors.Is(err, ErrUnsupportedMimeType) {
		t.Fatalf("expected ErrUnsupportedMimeType, got %v", err)
	}
	if repo.Created != nil {
		t.Error("did not expect repo.Create to be called")
	}
}

func TestInitiateUpload_AnswerNotOwned(t *testing.T) {
	answerID := msuuid.NewUUID()
	repo := &mock.MockVideoRepo{}
	answers := &mock.MockAnswerRepo{OwnedOut: false}
	svc := NewUploadInitiator(repo, answers, &mock.Storage{}, msuuid.NewUUID, "videos")

	in := port.InitiateUploadInput{
		UserID:    msuuid.NewUUID(),
		Filename:  "reply.mp4",
		SizeBytes: 1024,
		MimeType:  "video/mp4",
		AnswerID:  &answerID,
	}
	_, err := svc.InitiateUpload(context.Background(), in)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !answers.OwnedCalled {
		t.Error("expected answer ownership to be checked")
	}
	if repo.Created != nil {
		t.Error("did not expect repo.Create to be called")
	}
}

func TestInitiateUpload_PresignErrorDiscardsRecord(t *testing.T) {
	repo := &mock.MockVideoRepo{}
	strg := &mock.Storage{GeneratePostErr: errors.New("presign failure")}
	svc := NewUploadInitiator(repo, &mock.MockAnswerRepo{}, strg, msuuid.NewUUID, "videos")

	in := port.InitiateUploadInput{
		UserID:    msuuid.NewUUID(),
		Filename:  "clip.mp4",
		SizeBytes: 1024,
		MimeType:  "video/mp4",
	}
	if _, err := svc.InitiateUpload(context.Background(), in); err == nil {
		t.Fatal("expected error, got nil")
	}

	// the created record must not survive in 'uploading'
	if repo.Created == nil {
		t.Fatal("expected repo.Create to be called")
	}
	if !repo.SoftDeleteCalled {
		t.Fatal("expected the orphaned record to be soft-deleted")
	}
	if repo.SoftDeletedID != repo.Created.ID {
		t.Errorf("soft-deleted %s; want %s", repo.SoftDeletedID, repo.Created.ID)
	}
}

func TestInitiateUpload_RepoError(t *testing.T) {
	repo := &mock.MockVideoRepo{CreateErr: errors.New("repo failure")}
	strg := &mock.Storage{}
	svc := NewUploadInitiator(repo, &mock.MockAnswerRepo{}, strg, msuuid.NewUUID, "videos")

	in := port.InitiateUploadInput{
		UserID:    msuuid.NewUUID(),
		Filename:  "clip.mp4",
		SizeBytes: 1024,
		MimeType:  "video/mp4",
	}
	if _, err := svc.InitiateUpload(context.Background(), in); err == nil {
		t.Fatal("expected error, got nil")
	}
	if strg.GeneratePostCalled {
		t.Error("did not expect strg.GeneratePresignedPost to be called")
	}
}
