package mock

import (
	"context"

	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

// MockDispatcher implements task dispatching for tests.
type MockDispatcher struct {
	ProcessCalled bool
	ProcessIDs    []uuid.UUID
	ProcessErr    error
}

func (m *MockDispatcher) EnqueueProcessVideo(ctx context.Context, id uuid.UUID) error {
	m.ProcessCalled = true
	m.ProcessIDs = append(m.ProcessIDs, id)
	return m.ProcessErr
}
