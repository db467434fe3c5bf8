package video

import "time"

const (
	// Upload limits.
	MaxSingleUploadSize    = 500 * 1024 * 1024      // 500 MiB
	MaxMultipartUploadSize = 5 * 1024 * 1024 * 1024 // 5 GiB
	MinPartSize            = 5 * 1024 * 1024        // provider minimum for non-final parts

	// Presigned targets stay valid long enough for slow uplinks.
	UploadLinkTTL = time.Hour

	// The upload target is sized with a safety margin so a client that
	// underestimated its file size does not get rejected mid-upload.
	UploadSizeMargin = 2

	// Source validation floor.
	MinSourceWidth  = 320
	MinSourceHeight = 240

	// Whole-job limits. The soft limit is a cooperative checkpoint only.
	HardTimeLimit = time.Hour
	SoftTimeLimit = 55 * time.Minute

	// Coarse phase indicators reported to polling clients.
	ProgressDequeued  = 0
	ProgressValidated = 10
	ProgressJoined    = 90
	ProgressDone      = 100

	// Poster frame and scrub sprite geometry.
	PosterWidth           = 640
	SpriteIntervalSeconds = 10
	SpriteTileWidth       = 160
	SpriteTileHeight      = 90
	SpriteColumns         = 5
)

var AllowedMimeTypes = map[string]bool{
	"video/mp4":       true,
	"video/quicktime": true,
	"video/x-msvideo": true,
	"video/webm":      true,
}

func IsMimeTypeAllowed(mimeType string) bool {
	return AllowedMimeTypes[mimeType]
}

// MimeTypeToExtension maps an allowed upload mime type to the object key
// extension.
func MimeTypeToExtension(mimeType string) string {
	switch mimeType {
	case "video/mp4":
		return ".mp4"
	case "video/quicktime":
		return ".mov"
	case "video/x-msvideo":
		return ".avi"
	case "video/webm":
		return ".webm"
	default:
		return ".bin"
	}
}
