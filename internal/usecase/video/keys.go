package video

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

// BuildObjectKey derives a deterministic, collision-resistant key for a
// freshly uploaded object: {category}/{ownerId}/{timestamp}_{shortHash}.{ext}.
// The short hash covers owner, filename and timestamp so no coordination
// service is needed to avoid collisions.
func BuildObjectKey(category string, ownerID uuid.UUID, filename string, now time.Time, ext string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s/%s/%d", ownerID, filename, now.UnixNano())))
	shortHash := hex.EncodeToString(sum[:])[:8]
	return fmt.Sprintf("%s/%s/%d_%s%s", category, ownerID, now.Unix(), shortHash, ext)
}

// Derived artifact keys are deterministic per video so branches never need to
// agree on names at runtime.

func RenditionKey(videoID uuid.UUID, label string) string {
	return fmt.Sprintf("renditions/%s/%s.mp4", videoID, label)
}

func HLSPrefix(videoID uuid.UUID) string {
	return fmt.Sprintf("hls/%s", videoID)
}

func HLSMasterKey(videoID uuid.UUID) string {
	return fmt.Sprintf("hls/%s/master.m3u8", videoID)
}

func ThumbnailKey(videoID uuid.UUID) string {
	return fmt.Sprintf("thumbnails/%s/poster.jpg", videoID)
}

func SpriteKey(videoID uuid.UUID) string {
	return fmt.Sprintf("thumbnails/%s/sprite.jpg", videoID)
}

func CaptionsKey(videoID uuid.UUID) string {
	return fmt.Sprintf("captions/%s/captions.vtt", videoID)
}
