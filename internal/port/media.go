package port

import "context"

// VideoInfo is the probed source metadata the orchestrator persists before
// fanning out the processing branches.
type VideoInfo struct {
	Duration    float64
	Width       int
	Height      int
	FrameRate   float64
	CodecName   string
	BitrateKbps int
	HasVideo    bool
	HasAudio    bool
}

// Prober extracts stream metadata from a local media file.
type Prober interface {
	Probe(ctx context.Context, path string) (VideoInfo, error)
}

// Rendition is one rung of the quality ladder.
type Rendition struct {
	Label        string
	Height       int
	VideoBitrate string
	AudioBitrate string
	Preset       string
}

// Encoder produces renditions and the adaptive-streaming bundle from a local
// source file. Each call is a blocking subprocess invocation.
type Encoder interface {
	TranscodeRendition(ctx context.Context, inputPath, outputPath string, r Rendition) error
	PackageHLS(ctx context.Context, inputPath, outputDir string, renditions []Rendition) error
	WebOptimise(ctx context.Context, inputPath, outputPath string) error
}

// SpriteOptions configures scrub-sprite generation.
type SpriteOptions struct {
	IntervalSeconds int
	TileWidth       int
	TileHeight      int
	Columns         int
}

// SpriteInfo describes the grid that was produced.
type SpriteInfo struct {
	FrameCount int
	Columns    int
	Rows       int
}

// Thumbnailer extracts the poster frame and the scrub sprite sheet.
type Thumbnailer interface {
	ExtractFrame(ctx context.Context, inputPath, outputPath string, atSeconds float64, width int) error
	GenerateSprite(ctx context.Context, inputPath, outputPath string, duration float64, opts SpriteOptions) (SpriteInfo, error)
}

// AudioExtractor pulls the audio track out of a video file, normalised for
// speech recognition.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, inputPath, outputPath string) error
}
