package mariadb

import (
	"context"
	"database/sql"
	"log"

	"github.com/vhoudet/videos-ms-go/internal/model"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

type VideoRepository struct {
	db *sql.DB
}

// compile-time check: *VideoRepository must satisfy port.VideoRepository
var _ port.VideoRepository = (*VideoRepository)(nil)

func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	log.Printf("creating database record for video #%s, at status %q...", video.ID, video.Status)

	const query = `
      INSERT INTO videos
        (id, user_id, answer_id, original_filename, mime_type, size_bytes, bucket, object_key, status, progress, renditions, sprite)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		video.ID, video.UserID, video.AnswerID,
		video.OriginalFilename, video.MimeType, video.SizeBytes,
		video.Bucket, video.ObjectKey,
		video.Status, video.Progress,
		video.Renditions, video.Sprite,
	)
	return err
}

func (r *VideoRepository) GetByID(ctx context.Context, ID uuid.UUID) (*model.Video, error) {
	log.Printf("fetching video #%s from the database...", ID)

	const query = `
      SELECT id, user_id, answer_id, original_filename, mime_type, size_bytes, bucket, object_key, original_url,
             duration, width, height, frame_rate, codec_name, bitrate_kbps,
             status, progress, renditions, hls_master_key, hls_master_url,
             thumbnail_key, thumbnail_url, sprite,
             captions_key, captions_url, transcript, transcript_language, transcript_confidence,
             failure_message, deleted_at, created_at, updated_at
      FROM videos
      WHERE id = ?
    `
	row := r.db.QueryRowContext(ctx, query, ID)
	var video model.Video
	if err := row.Scan(
		&video.ID, &video.UserID, &video.AnswerID,
		&video.OriginalFilename, &video.MimeType, &video.SizeBytes,
		&video.Bucket, &video.ObjectKey, &video.OriginalURL,
		&video.Duration, &video.Width, &video.Height,
		&video.FrameRate, &video.CodecName, &video.BitrateKbps,
		&video.Status, &video.Progress, &video.Renditions,
		&video.HLSMasterKey, &video.HLSMasterURL,
		&video.ThumbnailKey, &video.ThumbnailURL, &video.Sprite,
		&video.CaptionsKey, &video.CaptionsURL,
		&video.Transcript, &video.TranscriptLanguage, &video.TranscriptConfidence,
		&video.FailureMessage, &video.DeletedAt,
		&video.CreatedAt, &video.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &video, nil
}

func (r *VideoRepository) MarkUploaded(ctx context.Context, ID uuid.UUID, originalURL string) error {
	log.Printf("marking video #%s as uploaded...", ID)

	const query = `
      UPDATE videos
      SET status = ?, original_url = ?
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query, model.VideoStatusUploaded, originalURL, ID)
	return err
}

func (r *VideoRepository) UpdateStatusProgress(ctx context.Context, ID uuid.UUID, status model.VideoStatus, progress int) error {
	log.Printf("updating video #%s to status %q, progress %d...", ID, status, progress)

	const query = `
      UPDATE videos
      SET status = ?, progress = ?
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query, status, progress, ID)
	return err
}

func (r *VideoRepository) UpdateProbeMetadata(ctx context.Context, ID uuid.UUID, info port.VideoInfo) error {
	log.Printf("persisting probed metadata for video #%s...", ID)

	const query = `
      UPDATE videos
      SET duration = ?, width = ?, height = ?, frame_rate = ?, codec_name = ?, bitrate_kbps = ?
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query,
		info.Duration, info.Width, info.Height,
		info.FrameRate, info.CodecName, info.BitrateKbps,
		ID,
	)
	return err
}

func (r *VideoRepository) UpdateRenditions(ctx context.Context, ID uuid.UUID, renditions model.Renditions, masterKey, masterURL string) error {
	log.Printf("storing %d renditions for video #%s...", len(renditions), ID)

	const query = `
      UPDATE videos
      SET renditions = ?, hls_master_key = ?, hls_master_url = ?
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query, renditions, masterKey, masterURL, ID)
	return err
}

func (r *VideoRepository) UpdateThumbnail(ctx context.Context, ID uuid.UUID, thumbnailKey, thumbnailURL string, sprite model.Sprite) error {
	log.Printf("storing thumbnail and sprite for video #%s...", ID)

	const query = `
      UPDATE videos
      SET thumbnail_key = ?, thumbnail_url = ?, sprite = ?
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query, thumbnailKey, thumbnailURL, sprite, ID)
	return err
}

func (r *VideoRepository) UpdateTranscription(ctx context.Context, ID uuid.UUID, t port.TranscriptionUpdate) error {
	log.Printf("storing transcription for video #%s...", ID)

	const query = `
      UPDATE videos
      SET captions_key = ?, captions_url = ?, transcript = ?, transcript_language = ?, transcript_confidence = ?
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query,
		t.CaptionsKey, t.CaptionsURL, t.Text, t.Language, t.Confidence,
		ID,
	)
	return err
}

func (r *VideoRepository) MarkFailed(ctx context.Context, ID uuid.UUID, message string) error {
	log.Printf("marking video #%s as failed: %s", ID, message)

	const query = `
      UPDATE videos
      SET status = ?, failure_message = ?
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query, model.VideoStatusFailed, message, ID)
	return err
}

func (r *VideoRepository) SoftDelete(ctx context.Context, ID uuid.UUID) error {
	log.Printf("soft-deleting video #%s...", ID)

	const query = `
      UPDATE videos
      SET status = ?, deleted_at = NOW()
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query, model.VideoStatusDeleted, ID)
	return err
}
