package port

import (
	"context"
	"time"
)

// FileInfo represents metadata about a stored object.
type FileInfo struct {
	SizeBytes    int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// PresignedPost is a single-shot browser upload target: the POST URL plus the
// form fields the client must send alongside the file.
type PresignedPost struct {
	URL        string
	FormFields map[string]string
}

// CompletedPart is one (part number, integrity tag) pair submitted by the
// client after uploading a multipart part.
type CompletedPart struct {
	PartNumber int    `json:"part_number"`
	ETag       string `json:"etag"`
}

// Storage defines the object storage operations the pipeline needs,
// independent of the concrete provider.
type Storage interface {
	InitBucket(bucket string) error
	GeneratePresignedPost(ctx context.Context, bucket, fileKey, contentType string, minSize, maxSize int64, expiry time.Duration) (PresignedPost, error)
	GeneratePresignedDownloadURL(ctx context.Context, bucket, fileKey string, expiry time.Duration) (string, error)
	InitiateMultipartUpload(ctx context.Context, bucket, fileKey, contentType string) (string, error)
	GeneratePresignedPartURL(ctx context.Context, bucket, fileKey, uploadID string, partNumber int, expiry time.Duration) (string, error)
	CompleteMultipartUpload(ctx context.Context, bucket, fileKey, uploadID string, parts []CompletedPart) error
	AbortMultipartUpload(ctx context.Context, bucket, fileKey, uploadID string) error
	PublicURL(bucket, fileKey string) string
	StatFile(ctx context.Context, bucket, fileKey string) (FileInfo, error)
	DownloadToFile(ctx context.Context, bucket, fileKey, destPath string) error
	UploadFile(ctx context.Context, bucket, fileKey, srcPath, contentType string) error
	RemoveFiles(ctx context.Context, bucket string, fileKeys []string) error
}
