package ffmpeg

import (
	"context"
	"fmt"
	"math"

	"github.com/vhoudet/videos-ms-go/internal/port"
)

type Thumbnailer struct {
	ffmpegPath string
	runner     Runner
}

// compile-time check: *Thumbnailer must satisfy port.Thumbnailer
var _ port.Thumbnailer = (*Thumbnailer)(nil)

func NewThumbnailer(ffmpegPath string, runner Runner) *Thumbnailer {
	return &Thumbnailer{ffmpegPath: ffmpegPath, runner: runner}
}

// PosterTimestamp picks the poster frame position: 10% into the video,
// clamped so it never lands on the very last second.
func PosterTimestamp(duration float64) float64 {
	ts := duration * 0.1
	if max := duration - 1; ts > max {
		ts = max
	}
	if ts < 0 {
		ts = 0
	}
	return ts
}

// ExtractFrame grabs a single frame at the given timestamp, scaled to the
// given width with aspect ratio preserved.
func (t *Thumbnailer) ExtractFrame(ctx context.Context, inputPath, outputPath string, atSeconds float64, width int) error {
	args := []string{
		"-y",
		"-ss", fmt.Sprintf("%.3f", atSeconds),
		"-i", inputPath,
		"-vframes", "1",
		"-vf", fmt.Sprintf("scale=%d:-2", width),
		outputPath,
	}
	if _, err := t.runner.Run(ctx, t.ffmpegPath, args...); err != nil {
		return fmt.Errorf("extract frame: %w", err)
	}
	return nil
}

// SpriteGrid computes the tiling for a sprite sheet: one frame per interval,
// rows = ceil(frames / columns).
func SpriteGrid(duration float64, opts port.SpriteOptions) port.SpriteInfo {
	frames := int(math.Ceil(duration / float64(opts.IntervalSeconds)))
	if frames < 1 {
		frames = 1
	}
	rows := (frames + opts.Columns - 1) / opts.Columns
	return port.SpriteInfo{FrameCount: frames, Columns: opts.Columns, Rows: rows}
}

// GenerateSprite samples one frame every interval, scales each to the tile
// size and tiles them into a single sheet.
func (t *Thumbnailer) GenerateSprite(ctx context.Context, inputPath, outputPath string, duration float64, opts port.SpriteOptions) (port.SpriteInfo, error) {
	grid := SpriteGrid(duration, opts)

	args := []string{
		"-y",
		"-i", inputPath,
		"-vf", fmt.Sprintf(
			"fps=1/%d,scale=%d:%d,tile=%dx%d",
			opts.IntervalSeconds, opts.TileWidth, opts.TileHeight, grid.Columns, grid.Rows,
		),
		"-frames:v", "1",
		outputPath,
	}
	if _, err := t.runner.Run(ctx, t.ffmpegPath, args...); err != nil {
		return port.SpriteInfo{}, fmt.Errorf("generate sprite: %w", err)
	}
	return grid, nil
}
