package mock

import (
	"context"

	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

// Cache implements the cache interface for tests.
type Cache struct {
	DetailsOut *port.GetVideoOutput

	GetErr    error
	SetErr    error
	DeleteErr error

	GetCalled    bool
	SetCalled    bool
	SetIn        *port.GetVideoOutput
	DeleteCalled bool
	DeletedID    uuid.UUID
}

func (m *Cache) GetVideoDetails(ctx context.Context, id uuid.UUID) (*port.GetVideoOutput, error) {
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.DetailsOut, nil
}

func (m *Cache) SetVideoDetails(ctx context.Context, id uuid.UUID, out *port.GetVideoOutput) error {
	m.SetCalled = true
	m.SetIn = out
	return m.SetErr
}

func (m *Cache) DeleteVideoDetails(ctx context.Context, id uuid.UUID) error {
	m.DeleteCalled = true
	m.DeletedID = id
	return m.DeleteErr
}
