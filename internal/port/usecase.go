package port

import (
	"context"
	"time"

	"github.com/vhoudet/videos-ms-go/internal/model"
	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

type UUIDGen func() uuid.UUID

// UploadInitiator issues a single-shot presigned upload target and creates
// the video record in 'uploading'.
type UploadInitiator interface {
	InitiateUpload(ctx context.Context, in InitiateUploadInput) (InitiateUploadOutput, error)
}
type InitiateUploadInput struct {
	UserID    uuid.UUID
	Filename  string
	SizeBytes int64
	MimeType  string
	AnswerID  *uuid.UUID
}
type InitiateUploadOutput struct {
	VideoID      uuid.UUID         `json:"video_id"`
	UploadURL    string            `json:"upload_url"`
	UploadFields map[string]string `json:"upload_fields"`
	Key          string            `json:"key"`
	ExpiresIn    int               `json:"expires_in"`
}

// MultipartUploadInitiator opens a multipart upload session and returns one
// presigned URL per part.
type MultipartUploadInitiator interface {
	InitiateMultipartUpload(ctx context.Context, in InitiateMultipartUploadInput) (InitiateMultipartUploadOutput, error)
}
type InitiateMultipartUploadInput struct {
	UserID      uuid.UUID
	Filename    string
	SizeBytes   int64
	PartSize    int64
	ContentType string
	AnswerID    *uuid.UUID
}
type InitiateMultipartUploadOutput struct {
	VideoID    uuid.UUID `json:"video_id"`
	UploadID   string    `json:"upload_id"`
	Key        string    `json:"key"`
	TotalParts int       `json:"total_parts"`
	PartURLs   []string  `json:"part_urls"`
}

// UploadCompleter confirms that the client finished a single-shot upload and
// enqueues the processing job.
type UploadCompleter interface {
	CompleteUpload(ctx context.Context, in CompleteUploadInput) error
}
type CompleteUploadInput struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

// MultipartUploadCompleter assembles the uploaded parts server-side, then
// behaves like UploadCompleter.
type MultipartUploadCompleter interface {
	CompleteMultipartUpload(ctx context.Context, in CompleteMultipartUploadInput) error
}
type CompleteMultipartUploadInput struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	UploadID string
	Parts    []CompletedPart
}

// StatusGetter answers status polls.
type StatusGetter interface {
	GetVideoStatus(ctx context.Context, id uuid.UUID) (GetVideoStatusOutput, error)
}
type GetVideoStatusOutput struct {
	VideoID  uuid.UUID         `json:"video_id"`
	Status   model.VideoStatus `json:"status"`
	Progress int               `json:"progress"`
	Error    *string           `json:"error,omitempty"`
}

// VideoGetter returns the full artifact bundle for a video.
type VideoGetter interface {
	GetVideo(ctx context.Context, id uuid.UUID) (*GetVideoOutput, error)
}
type VideoMetadataOutput struct {
	SizeBytes   int64    `json:"size_bytes"`
	MimeType    string   `json:"mime_type"`
	Duration    *float64 `json:"duration,omitempty"`
	Width       *int     `json:"width,omitempty"`
	Height      *int     `json:"height,omitempty"`
	FrameRate   *float64 `json:"frame_rate,omitempty"`
	CodecName   *string  `json:"codec_name,omitempty"`
	BitrateKbps *int     `json:"bitrate_kbps,omitempty"`
}
type StreamingOutput struct {
	HasHLS    bool     `json:"has_hls"`
	MasterURL *string  `json:"master_url,omitempty"`
	Qualities []string `json:"qualities"`
}
type TranscriptionOutput struct {
	Text        *string  `json:"text,omitempty"`
	Language    *string  `json:"language,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
	CaptionsURL *string  `json:"captions_url,omitempty"`
}
type GetVideoOutput struct {
	VideoID       uuid.UUID           `json:"video_id"`
	Status        model.VideoStatus   `json:"status"`
	Progress      int                 `json:"progress"`
	CreatedAt     time.Time           `json:"created_at"`
	Metadata      VideoMetadataOutput `json:"metadata"`
	OriginalURL   *string             `json:"original_url,omitempty"`
	ThumbnailURL  *string             `json:"thumbnail_url,omitempty"`
	Sprite        model.Sprite        `json:"sprite"`
	Streaming     StreamingOutput     `json:"streaming"`
	Transcription TranscriptionOutput `json:"transcription"`
}

// VideoDeleter removes every known storage object, then soft-deletes the
// record.
type VideoDeleter interface {
	DeleteVideo(ctx context.Context, id uuid.UUID) error
}

// PipelineProcessor is the orchestrator entrypoint run by the worker.
type PipelineProcessor interface {
	ProcessVideo(ctx context.Context, id uuid.UUID) error
}

// The three pipeline branches. Each re-downloads the source independently
// and writes only the columns it owns.
type RenditionTranscoder interface {
	TranscodeVideo(ctx context.Context, video model.Video) error
}
type ThumbnailGenerator interface {
	GenerateThumbnails(ctx context.Context, video model.Video) error
}
type AudioTranscriber interface {
	TranscribeVideo(ctx context.Context, video model.Video) error
}
