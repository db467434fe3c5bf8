package mock

import (
	"context"

	"github.com/vhoudet/videos-ms-go/internal/model"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

// MockVideoRepo implements repository operations for tests.
type MockVideoRepo struct {
	VideoRecord *model.Video

	GetErr                  error
	CreateErr               error
	MarkUploadedErr         error
	UpdateStatusProgressErr error
	UpdateProbeMetadataErr  error
	UpdateRenditionsErr     error
	UpdateThumbnailErr      error
	UpdateTranscriptionErr  error
	MarkFailedErr           error
	SoftDeleteErr           error

	GetCalled bool
	Created   *model.Video

	MarkUploadedCalled bool
	MarkUploadedURL    string

	// every (status, progress) pair recorded in call order
	StatusProgressUpdates []StatusProgressUpdate

	ProbeMetadata *port.VideoInfo

	RenditionsOut model.Renditions
	MasterKey     string
	MasterURL     string

	ThumbnailKeyOut string
	ThumbnailURLOut string
	SpriteOut       model.Sprite

	TranscriptionOut *port.TranscriptionUpdate

	MarkFailedCalled  bool
	MarkFailedMessage string

	SoftDeleteCalled bool
	SoftDeletedID    uuid.UUID
}

type StatusProgressUpdate struct {
	Status   model.VideoStatus
	Progress int
}

func (m *MockVideoRepo) Create(ctx context.Context, video *model.Video) error {
	m.Created = video
	return m.CreateErr
}

func (m *MockVideoRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.VideoRecord, nil
}

func (m *MockVideoRepo) MarkUploaded(ctx context.Context, id uuid.UUID, originalURL string) error {
	m.MarkUploadedCalled = true
	m.MarkUploadedURL = originalURL
	return m.MarkUploadedErr
}

func (m *MockVideoRepo) UpdateStatusProgress(ctx context.Context, id uuid.UUID, status model.VideoStatus, progress int) error {
	m.StatusProgressUpdates = append(m.StatusProgressUpdates, StatusProgressUpdate{Status: status, Progress: progress})
	return m.UpdateStatusProgressErr
}

func (m *MockVideoRepo) UpdateProbeMetadata(ctx context.Context, id uuid.UUID, info port.VideoInfo) error {
	m.ProbeMetadata = &info
	return m.UpdateProbeMetadataErr
}

func (m *MockVideoRepo) UpdateRenditions(ctx context.Context, id uuid.UUID, renditions model.Renditions, masterKey, masterURL string) error {
	m.RenditionsOut = renditions
	m.MasterKey = masterKey
	m.MasterURL = masterURL
	return m.UpdateRenditionsErr
}

func (m *MockVideoRepo) UpdateThumbnail(ctx context.Context, id uuid.UUID, thumbnailKey, thumbnailURL string, sprite model.Sprite) error {
	m.ThumbnailKeyOut = thumbnailKey
	m.ThumbnailURLOut = thumbnailURL
	m.SpriteOut = sprite
	return m.UpdateThumbnailErr
}

func (m *MockVideoRepo) UpdateTranscription(ctx context.Context, id uuid.UUID, t port.TranscriptionUpdate) error {
	m.TranscriptionOut = &t
	return m.UpdateTranscriptionErr
}

func (m *MockVideoRepo) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	m.MarkFailedCalled = true
	m.MarkFailedMessage = message
	return m.MarkFailedErr
}

func (m *MockVideoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	m.SoftDeleteCalled = true
	m.SoftDeletedID = id
	return m.SoftDeleteErr
}

// MockAnswerRepo implements answer ownership lookups for tests.
type MockAnswerRepo struct {
	OwnedOut bool
	OwnedErr error

	OwnedCalled bool
	AnswerID    uuid.UUID
	UserID      uuid.UUID
}

func (m *MockAnswerRepo) OwnedByUser(ctx context.Context, answerID, userID uuid.UUID) (bool, error) {
	m.OwnedCalled = true
	m.AnswerID = answerID
	m.UserID = userID
	if m.OwnedErr != nil {
		return false, m.OwnedErr
	}
	return m.OwnedOut, nil
}
