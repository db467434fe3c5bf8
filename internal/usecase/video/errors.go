package video

import "errors"

var (
	// Request validation errors, surfaced synchronously before any job runs.
	ErrNotFound            = errors.New("video: not found")
	ErrTooLarge            = errors.New("video: declared size exceeds the limit")
	ErrUnsupportedMimeType = errors.New("video: unsupported mime type")
	ErrInvalidPartSize     = errors.New("video: invalid part size")
	ErrInvalidStatus       = errors.New("video: invalid status for this operation")

	// Storage sentinels, mapped from provider errors by the gateway.
	ErrObjectNotFound = errors.New("storage: object not found")
	ErrBucketNotFound = errors.New("storage: bucket not found")
	ErrUnauthorized   = errors.New("storage: unauthorized")
	ErrInternal       = errors.New("storage: internal error")
)
