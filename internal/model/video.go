package model

import (
	"time"

	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

type VideoStatus string

const (
	VideoStatusUploading  VideoStatus = "uploading"
	VideoStatusUploaded   VideoStatus = "uploaded"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusReady      VideoStatus = "ready"
	VideoStatusFailed     VideoStatus = "failed"
	VideoStatusDeleted    VideoStatus = "deleted"
)

// statusRank orders the forward-only part of the lifecycle.
var statusRank = map[VideoStatus]int{
	VideoStatusUploading:  0,
	VideoStatusUploaded:   1,
	VideoStatusProcessing: 2,
	VideoStatusReady:      3,
}

// CanTransitionTo reports whether moving from s to next respects the
// lifecycle: forward only, except 'failed' (reachable from any non-terminal
// state) and 'deleted' (reachable from anywhere).
func (s VideoStatus) CanTransitionTo(next VideoStatus) bool {
	if next == VideoStatusDeleted {
		return true
	}
	if s.Terminal() {
		return false
	}
	if next == VideoStatusFailed {
		return true
	}
	from, okFrom := statusRank[s]
	to, okTo := statusRank[next]
	if !okFrom || !okTo {
		return false
	}
	return to > from
}

// Terminal reports whether no further pipeline transition is possible.
func (s VideoStatus) Terminal() bool {
	return s == VideoStatusReady || s == VideoStatusFailed || s == VideoStatusDeleted
}

type Video struct {
	ID       uuid.UUID  `json:"id"`
	UserID   uuid.UUID  `json:"user_id"`
	AnswerID *uuid.UUID `json:"answer_id,omitempty"`

	OriginalFilename string  `json:"original_filename"`
	MimeType         string  `json:"mime_type"`
	SizeBytes        int64   `json:"size_bytes"`
	Bucket           string  `json:"bucket"`
	ObjectKey        string  `json:"object_key"`
	OriginalURL      *string `json:"original_url,omitempty"`

	// Probed after the source is downloaded by the orchestrator.
	Duration    *float64 `json:"duration,omitempty"`
	Width       *int     `json:"width,omitempty"`
	Height      *int     `json:"height,omitempty"`
	FrameRate   *float64 `json:"frame_rate,omitempty"`
	CodecName   *string  `json:"codec_name,omitempty"`
	BitrateKbps *int     `json:"bitrate_kbps,omitempty"`

	Status   VideoStatus `json:"status"`
	Progress int         `json:"progress"`

	Renditions   Renditions `json:"renditions"`
	HLSMasterKey *string    `json:"hls_master_key,omitempty"`
	HLSMasterURL *string    `json:"hls_master_url,omitempty"`
	ThumbnailKey *string    `json:"thumbnail_key,omitempty"`
	ThumbnailURL *string    `json:"thumbnail_url,omitempty"`
	Sprite       Sprite     `json:"sprite"`

	CaptionsKey          *string  `json:"captions_key,omitempty"`
	CaptionsURL          *string  `json:"captions_url,omitempty"`
	Transcript           *string  `json:"transcript,omitempty"`
	TranscriptLanguage   *string  `json:"transcript_language,omitempty"`
	TranscriptConfidence *float64 `json:"transcript_confidence,omitempty"`

	FailureMessage *string    `json:"failure_message,omitempty"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ArtifactKeys returns every storage key known to be owned by the video:
// the original plus all derived artifacts. HLS segment keys are not listed
// individually; only the recorded master manifest key is included.
func (v *Video) ArtifactKeys() []string {
	keys := make([]string, 0, len(v.Renditions)+5)
	if v.ObjectKey != "" {
		keys = append(keys, v.ObjectKey)
	}
	for _, k := range v.Renditions {
		keys = append(keys, k)
	}
	if v.HLSMasterKey != nil {
		keys = append(keys, *v.HLSMasterKey)
	}
	if v.ThumbnailKey != nil {
		keys = append(keys, *v.ThumbnailKey)
	}
	if v.Sprite.ObjectKey != "" {
		keys = append(keys, v.Sprite.ObjectKey)
	}
	if v.CaptionsKey != nil {
		keys = append(keys, *v.CaptionsKey)
	}
	return keys
}
