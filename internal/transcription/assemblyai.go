package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/vhoudet/videos-ms-go/internal/port"
)

const assemblyAIBaseURL = "https://api.assemblyai.com/v2"

// AssemblyAI uses the upload-then-poll API: the audio is uploaded first, a
// transcript job is created, and its status is polled until terminal.
type AssemblyAI struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
}

var _ port.Transcriber = (*AssemblyAI)(nil)

func NewAssemblyAI(apiKey string, httpClient *http.Client) *AssemblyAI {
	return &AssemblyAI{
		apiKey:       apiKey,
		baseURL:      assemblyAIBaseURL,
		httpClient:   httpClient,
		pollInterval: 3 * time.Second,
	}
}

type assemblyAITranscript struct {
	ID           string  `json:"id"`
	Status       string  `json:"status"`
	Text         string  `json:"text"`
	Confidence   float64 `json:"confidence"`
	LanguageCode string  `json:"language_code"`
	Error        string  `json:"error"`
	Words        []struct {
		Text  string `json:"text"`
		Start int64  `json:"start"` // milliseconds
		End   int64  `json:"end"`
	} `json:"words"`
}

func (a *AssemblyAI) Transcribe(ctx context.Context, audioPath, language string) (*port.TranscriptionResult, error) {
	audioURL, err := a.upload(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	id, err := a.createTranscript(ctx, audioURL, language)
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()
	for {
		tr, err := a.getTranscript(ctx, id)
		if err != nil {
			return nil, err
		}
		switch tr.Status {
		case "completed":
			result := &port.TranscriptionResult{
				Text:       tr.Text,
				Language:   tr.LanguageCode,
				Confidence: tr.Confidence,
			}
			for _, w := range tr.Words {
				result.Words = append(result.Words, port.TranscriptWord{
					Text:  w.Text,
					Start: float64(w.Start) / 1000,
					End:   float64(w.End) / 1000,
				})
			}
			return result, nil
		case "error":
			return nil, fmt.Errorf("assemblyai transcription failed: %s", tr.Error)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (a *AssemblyAI) upload(ctx context.Context, audioPath string) (string, error) {
	audio, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer func() { _ = audio.Close() }()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/upload", audio)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", a.apiKey)

	var out struct {
		UploadURL string `json:"upload_url"`
	}
	if err := a.do(req, &out); err != nil {
		return "", fmt.Errorf("assemblyai upload: %w", err)
	}
	return out.UploadURL, nil
}

func (a *AssemblyAI) createTranscript(ctx context.Context, audioURL, language string) (string, error) {
	payload := map[string]any{"audio_url": audioURL}
	if language != "" {
		payload["language_code"] = language
	} else {
		payload["language_detection"] = true
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/transcript", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var out assemblyAITranscript
	if err := a.do(req, &out); err != nil {
		return "", fmt.Errorf("assemblyai create transcript: %w", err)
	}
	return out.ID, nil
}

func (a *AssemblyAI) getTranscript(ctx context.Context, id string) (*assemblyAITranscript, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/transcript/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", a.apiKey)

	var out assemblyAITranscript
	if err := a.do(req, &out); err != nil {
		return nil, fmt.Errorf("assemblyai poll transcript: %w", err)
	}
	return &out, nil
}

func (a *AssemblyAI) do(req *http.Request, out any) error {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, data)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
