package storage

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/vhoudet/videos-ms-go/internal/port"
)

type MinioStorage struct {
	client     minioClient
	multipart  minioMultipartClient
	cdnBaseURL string
	useSSL     bool
}

// compile-time check: *MinioStorage must satisfy port.Storage
var _ port.Storage = (*MinioStorage)(nil)

func NewStorage(endpoint, accessKey, secretKey string, useSSL bool, cdnBaseURL string) (*MinioStorage, error) {
	log.Println("initialising minio client...")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return &MinioStorage{
		client:     client,
		multipart:  &minio.Core{Client: client},
		cdnBaseURL: strings.TrimSuffix(cdnBaseURL, "/"),
		useSSL:     useSSL,
	}, nil
}

func (s *MinioStorage) InitBucket(bucket string) error {
	ok, err := s.client.BucketExists(context.Background(), bucket)
	if err != nil {
		return mapMinioErr(err)
	}
	if !ok {
		log.Printf("bucket %q does not exist, creating it...", bucket)
		if err := s.client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return mapMinioErr(err)
		}
	}
	return nil
}

func (s *MinioStorage) GeneratePresignedPost(ctx context.Context, bucket, fileKey, contentType string, minSize, maxSize int64, expiry time.Duration) (port.PresignedPost, error) {
	log.Printf("generating a presigned POST policy for file %q in bucket %q...", fileKey, bucket)

	policy := minio.NewPostPolicy()
	if err := policy.SetBucket(bucket); err != nil {
		return port.PresignedPost{}, mapMinioErr(err)
	}
	if err := policy.SetKey(fileKey); err != nil {
		return port.PresignedPost{}, mapMinioErr(err)
	}
	if err := policy.SetExpires(time.Now().UTC().Add(expiry)); err != nil {
		return port.PresignedPost{}, mapMinioErr(err)
	}
	if contentType != "" {
		if err := policy.SetContentType(contentType); err != nil {
			return port.PresignedPost{}, mapMinioErr(err)
		}
	}
	if err := policy.SetContentLengthRange(minSize, maxSize); err != nil {
		return port.PresignedPost{}, mapMinioErr(err)
	}

	postURL, formData, err := s.client.PresignedPostPolicy(ctx, policy)
	if err != nil {
		return port.PresignedPost{}, mapMinioErr(err)
	}
	return port.PresignedPost{URL: postURL.String(), FormFields: formData}, nil
}

func (s *MinioStorage) GeneratePresignedDownloadURL(ctx context.Context, bucket, fileKey string, expiry time.Duration) (string, error) {
	log.Printf("generating a presigned download link for file %q in bucket %q...", fileKey, bucket)

	presignedURL, err := s.client.PresignedGetObject(ctx, bucket, fileKey, expiry, url.Values{})
	if err != nil {
		return "", mapMinioErr(err)
	}
	return presignedURL.String(), nil
}

func (s *MinioStorage) InitiateMultipartUpload(ctx context.Context, bucket, fileKey, contentType string) (string, error) {
	log.Printf("initiating multipart upload for file %q in bucket %q...", fileKey, bucket)

	uploadID, err := s.multipart.NewMultipartUpload(ctx, bucket, fileKey, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", mapMinioErr(err)
	}
	return uploadID, nil
}

func (s *MinioStorage) GeneratePresignedPartURL(ctx context.Context, bucket, fileKey, uploadID string, partNumber int, expiry time.Duration) (string, error) {
	params := url.Values{}
	params.Set("uploadId", uploadID)
	params.Set("partNumber", strconv.Itoa(partNumber))

	presignedURL, err := s.client.Presign(ctx, http.MethodPut, bucket, fileKey, expiry, params)
	if err != nil {
		return "", mapMinioErr(err)
	}
	return presignedURL.String(), nil
}

func (s *MinioStorage) CompleteMultipartUpload(ctx context.Context, bucket, fileKey, uploadID string, parts []port.CompletedPart) error {
	log.Printf("completing multipart upload %q for file %q in bucket %q (%d parts)...", uploadID, fileKey, bucket, len(parts))

	completeParts := make([]minio.CompletePart, 0, len(parts))
	for _, p := range parts {
		completeParts = append(completeParts, minio.CompletePart{
			PartNumber: p.PartNumber,
			ETag:       p.ETag,
		})
	}
	_, err := s.multipart.CompleteMultipartUpload(ctx, bucket, fileKey, uploadID, completeParts, minio.PutObjectOptions{})
	return mapMinioErr(err)
}

func (s *MinioStorage) AbortMultipartUpload(ctx context.Context, bucket, fileKey, uploadID string) error {
	log.Printf("aborting multipart upload %q for file %q in bucket %q...", uploadID, fileKey, bucket)

	return mapMinioErr(s.multipart.AbortMultipartUpload(ctx, bucket, fileKey, uploadID))
}

// PublicURL resolves the CDN URL for a key if a CDN base is configured, and
// falls back to the provider's native URL scheme otherwise.
func (s *MinioStorage) PublicURL(bucket, fileKey string) string {
	if s.cdnBaseURL != "" {
		return fmt.Sprintf("%s/%s", s.cdnBaseURL, fileKey)
	}
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), bucket, fileKey)
}

func (s *MinioStorage) StatFile(ctx context.Context, bucket, fileKey string) (port.FileInfo, error) {
	log.Printf("getting stats on file %q in bucket %q...", fileKey, bucket)

	info, err := s.client.StatObject(ctx, bucket, fileKey, minio.StatObjectOptions{})
	if err != nil {
		return port.FileInfo{}, mapMinioErr(err)
	}
	return port.FileInfo{
		SizeBytes:    info.Size,
		ContentType:  info.ContentType,
		ETag:         info.ETag,
		LastModified: info.LastModified,
	}, nil
}

func (s *MinioStorage) DownloadToFile(ctx context.Context, bucket, fileKey, destPath string) error {
	log.Printf("downloading file %q from bucket %q to %q...", fileKey, bucket, destPath)

	return mapMinioErr(s.client.FGetObject(ctx, bucket, fileKey, destPath, minio.GetObjectOptions{}))
}

func (s *MinioStorage) UploadFile(ctx context.Context, bucket, fileKey, srcPath, contentType string) error {
	log.Printf("uploading %q into bucket %q as %q...", srcPath, bucket, fileKey)

	_, err := s.client.FPutObject(ctx, bucket, fileKey, srcPath, minio.PutObjectOptions{ContentType: contentType})
	return mapMinioErr(err)
}

func (s *MinioStorage) RemoveFiles(ctx context.Context, bucket string, fileKeys []string) error {
	log.Printf("batch-removing %d files from bucket %q...", len(fileKeys), bucket)

	objectsCh := make(chan minio.ObjectInfo)
	go func() {
		defer close(objectsCh)
		for _, key := range fileKeys {
			objectsCh <- minio.ObjectInfo{Key: key}
		}
	}()

	var firstErr error
	for rErr := range s.client.RemoveObjects(ctx, bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rErr.Err != nil && firstErr == nil {
			firstErr = fmt.Errorf("remove %q: %w", rErr.ObjectName, rErr.Err)
		}
	}
	return firstErr
}
