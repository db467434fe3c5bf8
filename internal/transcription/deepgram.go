package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/vhoudet/videos-ms-go/internal/port"
)

const deepgramBaseURL = "https://api.deepgram.com/v1"

// Deepgram streams the audio file to the pre-recorded transcription endpoint.
// It returns word-level timestamps directly.
type Deepgram struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ port.Transcriber = (*Deepgram)(nil)

func NewDeepgram(apiKey string, httpClient *http.Client) *Deepgram {
	return &Deepgram{apiKey: apiKey, baseURL: deepgramBaseURL, httpClient: httpClient}
}

type deepgramResponse struct {
	Results struct {
		Channels []struct {
			DetectedLanguage string `json:"detected_language"`
			Alternatives     []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
				Words      []struct {
					Word  string  `json:"word"`
					Start float64 `json:"start"`
					End   float64 `json:"end"`
				} `json:"words"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

func (d *Deepgram) Transcribe(ctx context.Context, audioPath, language string) (*port.TranscriptionResult, error) {
	audio, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer func() { _ = audio.Close() }()

	params := url.Values{}
	params.Set("punctuate", "true")
	if language != "" {
		params.Set("language", language)
	} else {
		params.Set("detect_language", "true")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/listen?"+params.Encode(), audio)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+d.apiKey)
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepgram request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("deepgram returned %d: %s", resp.StatusCode, data)
	}

	var out deepgramResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("parse deepgram response: %w", err)
	}
	if len(out.Results.Channels) == 0 || len(out.Results.Channels[0].Alternatives) == 0 {
		return nil, fmt.Errorf("deepgram returned no transcription")
	}

	channel := out.Results.Channels[0]
	alt := channel.Alternatives[0]

	result := &port.TranscriptionResult{
		Text:       alt.Transcript,
		Language:   channel.DetectedLanguage,
		Confidence: alt.Confidence,
	}
	if result.Language == "" {
		result.Language = language
	}
	for _, w := range alt.Words {
		result.Words = append(result.Words, port.TranscriptWord{Text: w.Word, Start: w.Start, End: w.End})
	}
	return result, nil
}
