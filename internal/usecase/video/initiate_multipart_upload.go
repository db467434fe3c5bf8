package video

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/vhoudet/videos-ms-go/internal/model"
	"github.com/vhoudet/videos-ms-go/internal/port"
)

type multipartUploadInitiatorSrv struct {
	repo    port.VideoRepository
	answers port.AnswerRepository
	strg    port.Storage
	genUUID port.UUIDGen
	bucket  string
}

func NewMultipartUploadInitiator(repo port.VideoRepository, answers port.AnswerRepository, strg port.Storage, genUUID port.UUIDGen, bucket string) port.MultipartUploadInitiator {
	return &multipartUploadInitiatorSrv{repo: repo, answers: answers, strg: strg, genUUID: genUUID, bucket: bucket}
}

func (s *multipartUploadInitiatorSrv) InitiateMultipartUpload(ctx context.Context, in port.InitiateMultipartUploadInput) (port.InitiateMultipartUploadOutput, error) {
	if in.SizeBytes <= 0 || in.SizeBytes > MaxMultipartUploadSize {
		return port.InitiateMultipartUploadOutput{}, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, in.SizeBytes, MaxMultipartUploadSize)
	}
	if in.PartSize < MinPartSize {
		return port.InitiateMultipartUploadOutput{}, fmt.Errorf("%w: %d bytes (min %d)", ErrInvalidPartSize, in.PartSize, MinPartSize)
	}
	if !IsMimeTypeAllowed(in.ContentType) {
		return port.InitiateMultipartUploadOutput{}, fmt.Errorf("%w: %q", ErrUnsupportedMimeType, in.ContentType)
	}
	if err := checkAnswerOwnership(ctx, s.answers, in.AnswerID, in.UserID); err != nil {
		return port.InitiateMultipartUploadOutput{}, err
	}

	now := time.Now().UTC()
	objectKey := BuildObjectKey("originals", in.UserID, in.Filename, now, MimeTypeToExtension(in.ContentType))

	video := &model.Video{
		ID:               s.genUUID(),
		UserID:           in.UserID,
		AnswerID:         in.AnswerID,
		OriginalFilename: in.Filename,
		MimeType:         in.ContentType,
		SizeBytes:        in.SizeBytes,
		Bucket:           s.bucket,
		ObjectKey:        objectKey,
		Status:           model.VideoStatusUploading,
		Renditions:       model.Renditions{},
	}
	if err := s.repo.Create(ctx, video); err != nil {
		return port.InitiateMultipartUploadOutput{}, err
	}

	uploadID, err := s.strg.InitiateMultipartUpload(ctx, s.bucket, objectKey, in.ContentType)
	if err != nil {
		discardUploadRecord(ctx, s.repo, video.ID)
		return port.InitiateMultipartUploadOutput{}, err
	}

	totalParts := int((in.SizeBytes + in.PartSize - 1) / in.PartSize)
	partURLs := make([]string, 0, totalParts)
	for partNumber := 1; partNumber <= totalParts; partNumber++ {
		partURL, err := s.strg.GeneratePresignedPartURL(ctx, s.bucket, objectKey, uploadID, partNumber, UploadLinkTTL)
		if err != nil {
			if abortErr := s.strg.AbortMultipartUpload(ctx, s.bucket, objectKey, uploadID); abortErr != nil {
				log.Printf("failed to abort multipart upload %q for file %q: %v", uploadID, objectKey, abortErr)
			}
			discardUploadRecord(ctx, s.repo, video.ID)
			return port.InitiateMultipartUploadOutput{}, err
		}
		partURLs = append(partURLs, partURL)
	}

	return port.InitiateMultipartUploadOutput{
		VideoID:    video.ID,
		UploadID:   uploadID,
		Key:        objectKey,
		TotalParts: totalParts,
		PartURLs:   partURLs,
	}, nil
}
