package port

import "context"

// TranscriptWord is a single recognised word with its time span in seconds.
type TranscriptWord struct {
	Text  string
	Start float64
	End   float64
}

// TranscriptionResult is the provider-independent speech-to-text outcome.
// Providers that only return segment timestamps expand them into per-word
// spans so the caption grouping heuristic can work on a uniform stream.
type TranscriptionResult struct {
	Text       string
	Language   string
	Confidence float64
	Words      []TranscriptWord
}

// Transcriber converts an audio file into text. The implementation is picked
// once at process start from configuration.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (*TranscriptionResult, error)
}
