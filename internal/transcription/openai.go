package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/vhoudet/videos-ms-go/internal/port"
)

const openAIBaseURL = "https://api.openai.com/v1"

// OpenAI calls the hosted Whisper transcription endpoint.
type OpenAI struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ port.Transcriber = (*OpenAI)(nil)

func NewOpenAI(apiKey string, httpClient *http.Client) *OpenAI {
	return &OpenAI{apiKey: apiKey, baseURL: openAIBaseURL, httpClient: httpClient}
}

type openAIResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Start      float64 `json:"start"`
		End        float64 `json:"end"`
		Text       string  `json:"text"`
		AvgLogprob float64 `json:"avg_logprob"`
	} `json:"segments"`
}

func (o *OpenAI) Transcribe(ctx context.Context, audioPath, language string) (*port.TranscriptionResult, error) {
	audio, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer func() { _ = audio.Close() }()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, audio); err != nil {
		return nil, fmt.Errorf("copy audio into request: %w", err)
	}
	_ = mw.WriteField("model", "whisper-1")
	_ = mw.WriteField("response_format", "verbose_json")
	if language != "" {
		_ = mw.WriteField("language", language)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("openai returned %d: %s", resp.StatusCode, data)
	}

	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("parse openai response: %w", err)
	}

	result := &port.TranscriptionResult{
		Text:     out.Text,
		Language: out.Language,
	}
	var logprobSum float64
	for _, seg := range out.Segments {
		result.Words = append(result.Words, SplitWords(seg.Text, seg.Start, seg.End)...)
		logprobSum += seg.AvgLogprob
	}
	if len(out.Segments) > 0 {
		result.Confidence = math.Exp(logprobSum / float64(len(out.Segments)))
	} else {
		result.Confidence = 1
	}
	return result, nil
}
