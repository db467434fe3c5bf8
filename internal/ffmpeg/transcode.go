package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vhoudet/videos-ms-go/internal/port"
)

const hlsSegmentSeconds = 4

type Encoder struct {
	ffmpegPath string
	runner     Runner
}

// compile-time checks
var (
	_ port.Encoder        = (*Encoder)(nil)
	_ port.AudioExtractor = (*Encoder)(nil)
)

func NewEncoder(ffmpegPath string, runner Runner) *Encoder {
	return &Encoder{ffmpegPath: ffmpegPath, runner: runner}
}

// TranscodeRendition re-encodes the source into a single progressive-download
// MP4 at the rendition's target height and bitrates. Scaling preserves aspect
// ratio and keeps dimensions even, as required by the encoder.
func (e *Encoder) TranscodeRendition(ctx context.Context, inputPath, outputPath string, r port.Rendition) error {
	args := []string{
		"-y",
		"-i", inputPath,
		"-vf", fmt.Sprintf("scale=-2:%d", r.Height),
		"-c:v", "libx264",
		"-preset", r.Preset,
		"-b:v", r.VideoBitrate,
		"-c:a", "aac",
		"-b:a", r.AudioBitrate,
		"-movflags", "+faststart",
		outputPath,
	}
	if _, err := e.runner.Run(ctx, e.ffmpegPath, args...); err != nil {
		return fmt.Errorf("transcode %s: %w", r.Label, err)
	}
	return nil
}

// PackageHLS emits one segment sequence and variant playlist per rendition
// under outputDir/{label}/, plus a master manifest referencing all variants.
func (e *Encoder) PackageHLS(ctx context.Context, inputPath, outputDir string, renditions []port.Rendition) error {
	for _, r := range renditions {
		variantDir := filepath.Join(outputDir, r.Label)
		if err := os.MkdirAll(variantDir, 0o755); err != nil {
			return fmt.Errorf("create variant dir: %w", err)
		}

		args := []string{
			"-y",
			"-i", inputPath,
			"-vf", fmt.Sprintf("scale=-2:%d", r.Height),
			"-c:v", "libx264",
			"-preset", r.Preset,
			"-b:v", r.VideoBitrate,
			"-c:a", "aac",
			"-b:a", r.AudioBitrate,
			"-f", "hls",
			"-hls_time", fmt.Sprintf("%d", hlsSegmentSeconds),
			"-hls_playlist_type", "vod",
			"-hls_segment_filename", filepath.Join(variantDir, "%05d.ts"),
			filepath.Join(variantDir, "index.m3u8"),
		}
		if _, err := e.runner.Run(ctx, e.ffmpegPath, args...); err != nil {
			return fmt.Errorf("package hls %s: %w", r.Label, err)
		}
	}

	masterPath := filepath.Join(outputDir, "master.m3u8")
	if err := os.WriteFile(masterPath, []byte(masterPlaylist(renditions)), 0o644); err != nil {
		return fmt.Errorf("write master playlist: %w", err)
	}
	return nil
}

// WebOptimise is the lighter-weight single-output path: one fixed-quality
// MP4 with even dimensions and progressive-download layout.
func (e *Encoder) WebOptimise(ctx context.Context, inputPath, outputPath string) error {
	args := []string{
		"-y",
		"-i", inputPath,
		"-vf", "scale=trunc(iw/2)*2:trunc(ih/2)*2",
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "23",
		"-c:a", "aac",
		"-movflags", "+faststart",
		outputPath,
	}
	if _, err := e.runner.Run(ctx, e.ffmpegPath, args...); err != nil {
		return fmt.Errorf("web optimise: %w", err)
	}
	return nil
}

// ExtractAudio pulls the audio track into a 16 kHz mono WAV, the format the
// transcription providers expect.
func (e *Encoder) ExtractAudio(ctx context.Context, inputPath, outputPath string) error {
	args := []string{
		"-y",
		"-i", inputPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		outputPath,
	}
	if _, err := e.runner.Run(ctx, e.ffmpegPath, args...); err != nil {
		return fmt.Errorf("extract audio: %w", err)
	}
	return nil
}

// masterPlaylist synthesises the HLS master manifest for the selected
// variants.
func masterPlaylist(renditions []port.Rendition) string {
	master := "#EXTM3U\n#EXT-X-VERSION:3\n\n"
	for _, r := range renditions {
		bandwidth := (bitrateKbps(r.VideoBitrate) + bitrateKbps(r.AudioBitrate)) * 1000
		width := evenWidth(r.Height)
		master += fmt.Sprintf("#EXT-X-STREAM-INF:BANDWIDTH=%d,RESOLUTION=%dx%d\n", bandwidth, width, r.Height)
		master += fmt.Sprintf("%s/index.m3u8\n", r.Label)
	}
	return master
}

func bitrateKbps(s string) int {
	var value int
	fmt.Sscanf(s, "%dk", &value)
	return value
}

// evenWidth assumes 16:9 sources for manifest metadata; players only use it
// as a hint.
func evenWidth(height int) int {
	w := height * 16 / 9
	return w - w%2
}
