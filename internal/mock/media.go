package mock

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vhoudet/videos-ms-go/internal/model"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

// Prober implements media probing for tests.
type Prober struct {
	InfoOut  port.VideoInfo
	ProbeErr error

	ProbeCalled bool
	ProbedPath  string
}

func (m *Prober) Probe(ctx context.Context, path string) (port.VideoInfo, error) {
	m.ProbeCalled = true
	m.ProbedPath = path
	if m.ProbeErr != nil {
		return port.VideoInfo{}, m.ProbeErr
	}
	return m.InfoOut, nil
}

// Encoder implements the encoder and audio extractor interfaces for tests.
type Encoder struct {
	TranscodeErr    error
	PackageErr      error
	WebOptimiseErr  error
	ExtractAudioErr error

	TranscodedLabels   []string
	PackagedRenditions []port.Rendition
	PackageDir         string
	ExtractAudioCalled bool
}

func (m *Encoder) TranscodeRendition(ctx context.Context, inputPath, outputPath string, r port.Rendition) error {
	m.TranscodedLabels = append(m.TranscodedLabels, r.Label)
	return m.TranscodeErr
}

// PackageHLS mimics the real encoder's on-disk layout so callers that walk
// the output directory have something to find.
func (m *Encoder) PackageHLS(ctx context.Context, inputPath, outputDir string, renditions []port.Rendition) error {
	m.PackagedRenditions = renditions
	m.PackageDir = outputDir
	if m.PackageErr != nil {
		return m.PackageErr
	}
	for _, r := range renditions {
		variantDir := filepath.Join(outputDir, r.Label)
		if err := os.MkdirAll(variantDir, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(variantDir, "index.m3u8"), []byte("#EXTM3U\n"), 0o644); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(variantDir, "00000.ts"), []byte("segment"), 0o644); err != nil {
			return err
		}
	}
	return os.WriteFile(filepath.Join(outputDir, "master.m3u8"), []byte("#EXTM3U\n"), 0o644)
}

func (m *Encoder) WebOptimise(ctx context.Context, inputPath, outputPath string) error {
	return m.WebOptimiseErr
}

func (m *Encoder) ExtractAudio(ctx context.Context, inputPath, outputPath string) error {
	m.ExtractAudioCalled = true
	return m.ExtractAudioErr
}

// Thumbnailer implements thumbnail generation for tests.
type Thumbnailer struct {
	SpriteInfoOut port.SpriteInfo

	ExtractErr error
	SpriteErr  error

	ExtractCalled bool
	ExtractedAt   float64
	ExtractWidth  int
	SpriteCalled  bool
	SpriteOpts    port.SpriteOptions
}

func (m *Thumbnailer) ExtractFrame(ctx context.Context, inputPath, outputPath string, atSeconds float64, width int) error {
	m.ExtractCalled = true
	m.ExtractedAt = atSeconds
	m.ExtractWidth = width
	return m.ExtractErr
}

func (m *Thumbnailer) GenerateSprite(ctx context.Context, inputPath, outputPath string, duration float64, opts port.SpriteOptions) (port.SpriteInfo, error) {
	m.SpriteCalled = true
	m.SpriteOpts = opts
	if m.SpriteErr != nil {
		return port.SpriteInfo{}, m.SpriteErr
	}
	return m.SpriteInfoOut, nil
}

// Transcriber implements speech recognition for tests.
type Transcriber struct {
	ResultOut     *port.TranscriptionResult
	TranscribeErr error

	TranscribeCalled bool
	AudioPath        string
	Language         string
}

func (m *Transcriber) Transcribe(ctx context.Context, audioPath, language string) (*port.TranscriptionResult, error) {
	m.TranscribeCalled = true
	m.AudioPath = audioPath
	m.Language = language
	if m.TranscribeErr != nil {
		return nil, m.TranscribeErr
	}
	if m.ResultOut != nil {
		return m.ResultOut, nil
	}
	return &port.TranscriptionResult{}, nil
}

// PipelineBranch implements any of the three processing branches for tests.
type PipelineBranch struct {
	Err error

	Called bool
	Video  model.Video
}

func (m *PipelineBranch) TranscodeVideo(ctx context.Context, video model.Video) error {
	m.Called = true
	m.Video = video
	return m.Err
}

func (m *PipelineBranch) GenerateThumbnails(ctx context.Context, video model.Video) error {
	m.Called = true
	m.Video = video
	return m.Err
}

func (m *PipelineBranch) TranscribeVideo(ctx context.Context, video model.Video) error {
	m.Called = true
	m.Video = video
	return m.Err
}

// VideoProcessor implements the pipeline orchestrator entrypoint for tests.
type VideoProcessor struct {
	Err error

	Called bool
	ID     uuid.UUID
}

func (m *VideoProcessor) ProcessVideo(ctx context.Context, id uuid.UUID) error {
	m.Called = true
	m.ID = id
	return m.Err
}
