package mock

import (
	"context"
	"os"
	"time"

	"github.com/vhoudet/videos-ms-go/internal/port"
)

// Storage implements the storage interface for tests.
type Storage struct {
	// stored values
	PresignedPostOut port.PresignedPost
	DownloadURLOut   string
	UploadIDOut      string
	PartURLOut       string
	PublicURLBase    string
	StatInfoOut      port.FileInfo
	DownloadContent  []byte

	// captured inputs
	ObjectKey      string
	ContentType    string
	MinSize        int64
	MaxSize        int64
	TTL            time.Duration
	CompletedParts []port.CompletedPart
	UploadedKeys   []string
	UploadedTypes  map[string]string
	RemovedKeys    []string

	// errors
	InitBucketErr        error
	GeneratePostErr      error
	GenerateDownloadErr  error
	InitiateMultipartErr error
	GeneratePartURLErr   error
	CompleteErr          error
	AbortErr             error
	StatErr              error
	DownloadErr          error
	UploadErr            error
	RemoveErr            error

	// call flags
	InitBucketCalled        bool
	GeneratePostCalled      bool
	GenerateDownloadCalled  bool
	InitiateMultipartCalled bool
	GeneratePartURLCalled   int
	CompleteCalled          bool
	AbortCalled             bool
	StatCalled              bool
	DownloadCalled          bool
	RemoveCalled            bool
}

var _ port.Storage = (*Storage)(nil)

func (m *Storage) InitBucket(bucket string) error {
	m.InitBucketCalled = true
	return m.InitBucketErr
}

func (m *Storage) GeneratePresignedPost(ctx context.Context, bucket, fileKey, contentType string, minSize, maxSize int64, expiry time.Duration) (port.PresignedPost, error) {
	m.GeneratePostCalled = true
	m.ObjectKey = fileKey
	m.ContentType = contentType
	m.MinSize = minSize
	m.MaxSize = maxSize
	m.TTL = expiry
	if m.GeneratePostErr != nil {
		return port.PresignedPost{}, m.GeneratePostErr
	}
	if m.PresignedPostOut.URL != "" {
		return m.PresignedPostOut, nil
	}
	return port.PresignedPost{URL: "https://example.com/upload", FormFields: map[string]string{"key": fileKey}}, nil
}

func (m *Storage) GeneratePresignedDownloadURL(ctx context.Context, bucket, fileKey string, expiry time.Duration) (string, error) {
	m.GenerateDownloadCalled = true
	m.ObjectKey = fileKey
	m.TTL = expiry
	if m.GenerateDownloadErr != nil {
		return "", m.GenerateDownloadErr
	}
	if m.DownloadURLOut != "" {
		return m.DownloadURLOut, nil
	}
	return "https://example.com/download", nil
}

func (m *Storage) InitiateMultipartUpload(ctx context.Context, bucket, fileKey, contentType string) (string, error) {
	m.InitiateMultipartCalled = true
	m.ObjectKey = fileKey
	m.ContentType = contentType
	if m.InitiateMultipartErr != nil {
		return "", m.InitiateMultipartErr
	}
	if m.UploadIDOut != "" {
		return m.UploadIDOut, nil
	}
	return "upload-id", nil
}

func (m *Storage) GeneratePresignedPartURL(ctx context.Context, bucket, fileKey, uploadID string, partNumber int, expiry time.Duration) (string, error) {
	m.GeneratePartURLCalled++
	if m.GeneratePartURLErr != nil {
		return "", m.GeneratePartURLErr
	}
	if m.PartURLOut != "" {
		return m.PartURLOut, nil
	}
	return "https://example.com/part", nil
}

func (m *Storage) CompleteMultipartUpload(ctx context.Context, bucket, fileKey, uploadID string, parts []port.CompletedPart) error {
	m.CompleteCalled = true
	m.CompletedParts = parts
	return m.CompleteErr
}

func (m *Storage) AbortMultipartUpload(ctx context.Context, bucket, fileKey, uploadID string) error {
	m.AbortCalled = true
	return m.AbortErr
}

func (m *Storage) PublicURL(bucket, fileKey string) string {
	base := m.PublicURLBase
	if base == "" {
		base = "https://cdn.example.com"
	}
	return base + "/" + fileKey
}

func (m *Storage) StatFile(ctx context.Context, bucket, fileKey string) (port.FileInfo, error) {
	m.StatCalled = true
	if m.StatErr != nil {
		return port.FileInfo{}, m.StatErr
	}
	return m.StatInfoOut, nil
}

func (m *Storage) DownloadToFile(ctx context.Context, bucket, fileKey, destPath string) error {
	m.DownloadCalled = true
	if m.DownloadErr != nil {
		return m.DownloadErr
	}
	content := m.DownloadContent
	if content == nil {
		content = []byte("dummy")
	}
	return os.WriteFile(destPath, content, 0o644)
}

func (m *Storage) UploadFile(ctx context.Context, bucket, fileKey, srcPath, contentType string) error {
	m.UploadedKeys = append(m.UploadedKeys, fileKey)
	if m.UploadedTypes == nil {
		m.UploadedTypes = map[string]string{}
	}
	m.UploadedTypes[fileKey] = contentType
	return m.UploadErr
}

func (m *Storage) RemoveFiles(ctx context.Context, bucket string, fileKeys []string) error {
	m.RemoveCalled = true
	m.RemovedKeys = append(m.RemovedKeys, fileKeys...)
	return m.RemoveErr
}
