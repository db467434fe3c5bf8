package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vhoudet/videos-ms-go/internal/api_context"
	"github.com/vhoudet/videos-ms-go/internal/port"
	videoSvc "github.com/vhoudet/videos-ms-go/internal/usecase/video"
	msuuid "github.com/vhoudet/videos-ms-go/internal/uuid"
)

type mockUploadCompleter struct {
	err error
	in  port.CompleteUploadInput
}

func (m *mockUploadCompleter) CompleteUpload(ctx context.Context, in port.CompleteUploadInput) error {
	m.in = in
	return m.err
}

func completeUploadRequest(t *testing.T, id msuuid.UUID, authed bool) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/videos/upload/"+id.String()+"/complete", nil)
	ctx := context.WithValue(req.Context(), api_context.IDKey, id)
	if authed {
		ctx = context.WithValue(ctx, api_context.AuthUserIDKey, msuuid.NewUUID())
	}
	return req.WithContext(ctx)
}

func TestCompleteUploadHandler(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{"happy path", nil, http.StatusNoContent},
		{"video not found", videoSvc.ErrNotFound, http.StatusNotFound},
		{"wrong status", videoSvc.ErrInvalidStatus, http.StatusConflict},
		{"service error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id := msuuid.NewUUID()
			mockSvc := &mockUploadCompleter{err: tc.svcErr}
			handlerFn := CompleteUploadHandler(mockSvc)

			rec := httptest.NewRecorder()
			handlerFn(rec, completeUploadRequest(t, id, true))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if mockSvc.in.ID != id {
				t.Errorf("service got id %s; want %s", mockSvc.in.ID, id)
			}
		})
	}
}

func TestCompleteUploadHandler_MissingAuth(t *testing.T) {
	mockSvc := &mockUploadCompleter{}
	handlerFn := CompleteUploadHandler(mockSvc)

	rec := httptest.NewRecorder()
	handlerFn(rec, completeUploadRequest(t, msuuid.NewUUID(), false))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestCompleteUploadHandler_MissingID(t *testing.T) {
	mockSvc := &mockUploadCompleter{}
	handlerFn := CompleteUploadHandler(mockSvc)

	rec := httptest.NewRecorder()
	handlerFn(rec, httptest.NewRequest(http.MethodPost, "/videos/upload/x/complete", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusBadRequest)
	}
}
