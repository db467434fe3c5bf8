package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vhoudet/videos-ms-go/internal/api_context"
	"github.com/vhoudet/videos-ms-go/internal/port"
	videoSvc "github.com/vhoudet/videos-ms-go/internal/usecase/video"
	msuuid "github.com/vhoudet/videos-ms-go/internal/uuid"
)

type mockMultipartUploadCompleter struct {
	err error
	in  port.CompleteMultipartUploadInput
}

func (m *mockMultipartUploadCompleter) CompleteMultipartUpload(ctx context.Context, in port.CompleteMultipartUploadInput) error {
	m.in = in
	return m.err
}

func completeMultipartRequest(t *testing.T, id msuuid.UUID, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/videos/upload/multipart/"+id.String()+"/complete", strings.NewReader(body))
	ctx := context.WithValue(req.Context(), api_context.IDKey, id)
	ctx = context.WithValue(ctx, api_context.AuthUserIDKey, msuuid.NewUUID())
	return req.WithContext(ctx)
}

const validMultipartBody = `{"upload_id":"upload-id","parts":[{"part_number":1,"etag":"abc"},{"part_number":2,"etag":"def"}]}`

func TestCompleteMultipartUploadHandler_Success(t *testing.T) {
	id := msuuid.NewUUID()
	mockSvc := &mockMultipartUploadCompleter{}
	handlerFn := CompleteMultipartUploadHandler(mockSvc)

	rec := httptest.NewRecorder()
	handlerFn(rec, completeMultipartRequest(t, id, validMultipartBody))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d; want %d (body=%q)", rec.Code, http.StatusNoContent, rec.Body.String())
	}
	if mockSvc.in.ID != id || mockSvc.in.UploadID != "upload-id" {
		t.Errorf("unexpected service input %+v", mockSvc.in)
	}
	if len(mockSvc.in.Parts) != 2 || mockSvc.in.Parts[1].ETag != "def" {
		t.Errorf("unexpected parts %+v", mockSvc.in.Parts)
	}
}

func TestCompleteMultipartUploadHandler_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantKey string
	}{
		{"missing upload id", `{"parts":[{"part_number":1,"etag":"abc"}]}`, "upload_id"},
		{"empty parts", `{"upload_id":"upload-id","parts":[]}`, "parts"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockSvc := &mockMultipartUploadCompleter{}
			handlerFn := CompleteMultipartUploadHandler(mockSvc)

			rec := httptest.NewRecorder()
			handlerFn(rec, completeMultipartRequest(t, msuuid.NewUUID(), tc.body))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d; want %d", rec.Code, http.StatusBadRequest)
			}
			var errs map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &errs); err != nil {
				t.Fatalf("error JSON: %v; body=%q", err, rec.Body.String())
			}
			if _, ok := errs[tc.wantKey]; !ok {
				t.Errorf("missing key %q in error response: %v", tc.wantKey, errs)
			}
		})
	}
}

func TestCompleteMultipartUploadHandler_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{"video not found", videoSvc.ErrNotFound, http.StatusNotFound},
		{"wrong status", videoSvc.ErrInvalidStatus, http.StatusConflict},
		{"upload session gone", videoSvc.ErrObjectNotFound, http.StatusConflict},
		{"service error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockSvc := &mockMultipartUploadCompleter{err: tc.svcErr}
			handlerFn := CompleteMultipartUploadHandler(mockSvc)

			rec := httptest.NewRecorder()
			handlerFn(rec, completeMultipartRequest(t, msuuid.NewUUID(), validMultipartBody))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestCompleteMultipartUploadHandler_InvalidJSON(t *testing.T) {
	mockSvc := &mockMultipartUploadCompleter{}
	handlerFn := CompleteMultipartUploadHandler(mockSvc)

	rec := httptest.NewRecorder()
	handlerFn(rec, completeMultipartRequest(t, msuuid.NewUUID(), `{"upload_id":`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), "Invalid request") {
		t.Errorf("body = %q; want to contain %q", rec.Body.String(), "Invalid request")
	}
}
