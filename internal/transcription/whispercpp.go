package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vhoudet/videos-ms-go/internal/port"
)

// WhisperCpp runs the whisper.cpp binary locally and parses its JSON output.
type WhisperCpp struct {
	binPath   string
	modelPath string
	runner    Runner
}

var _ port.Transcriber = (*WhisperCpp)(nil)

func NewWhisperCpp(binPath, modelPath string, runner Runner) *WhisperCpp {
	return &WhisperCpp{binPath: binPath, modelPath: modelPath, runner: runner}
}

type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"` // milliseconds
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func (w *WhisperCpp) Transcribe(ctx context.Context, audioPath, language string) (*port.TranscriptionResult, error) {
	// Output lives next to the audio file, inside the job's own scratch dir,
	// so concurrent jobs in one process never share it.
	outPrefix := filepath.Join(filepath.Dir(audioPath), "whisper")
	defer os.Remove(outPrefix + ".json")

	args := []string{
		"-m", w.modelPath,
		"-f", audioPath,
		"-oj",
		"-of", outPrefix,
	}
	if language != "" {
		args = append(args, "-l", language)
	}

	if _, err := w.runner.Run(ctx, w.binPath, args...); err != nil {
		return nil, fmt.Errorf("whisper.cpp failed: %w", err)
	}

	data, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	result := &port.TranscriptionResult{
		Language: out.Result.Language,
		// The local model reports no confidence score.
		Confidence: 1,
	}
	text := ""
	for _, seg := range out.Transcription {
		start := float64(seg.Offsets.From) / 1000
		end := float64(seg.Offsets.To) / 1000
		result.Words = append(result.Words, SplitWords(seg.Text, start, end)...)
		if text != "" {
			text += " "
		}
		text += strings.TrimSpace(seg.Text)
	}
	result.Text = text
	return result, nil
}
