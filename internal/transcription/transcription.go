package transcription

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vhoudet/videos-ms-go/internal/port"
)

// Provider identifies a speech-to-text backend. The implementation is chosen
// once at process start, never per call.
type Provider string

const (
	ProviderWhisperCpp Provider = "whispercpp"
	ProviderOpenAI     Provider = "openai"
	ProviderDeepgram   Provider = "deepgram"
	ProviderAssemblyAI Provider = "assemblyai"
)

func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderWhisperCpp, ProviderOpenAI, ProviderDeepgram, ProviderAssemblyAI:
		return Provider(s), nil
	default:
		return "", fmt.Errorf("unknown transcription provider %q", s)
	}
}

// Runner executes the local speech model binary.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type Config struct {
	Provider         string
	WhisperPath      string
	WhisperModelPath string
	OpenAIAPIKey     string
	DeepgramAPIKey   string
	AssemblyAIAPIKey string
}

// New builds the configured transcriber.
func New(cfg Config, runner Runner) (port.Transcriber, error) {
	provider, err := ParseProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: 10 * time.Minute}

	switch provider {
	case ProviderWhisperCpp:
		if cfg.WhisperPath == "" || cfg.WhisperModelPath == "" {
			return nil, fmt.Errorf("whispercpp provider requires binary and model paths")
		}
		return NewWhisperCpp(cfg.WhisperPath, cfg.WhisperModelPath, runner), nil
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return NewOpenAI(cfg.OpenAIAPIKey, httpClient), nil
	case ProviderDeepgram:
		if cfg.DeepgramAPIKey == "" {
			return nil, fmt.Errorf("deepgram provider requires an API key")
		}
		return NewDeepgram(cfg.DeepgramAPIKey, httpClient), nil
	case ProviderAssemblyAI:
		if cfg.AssemblyAIAPIKey == "" {
			return nil, fmt.Errorf("assemblyai provider requires an API key")
		}
		return NewAssemblyAI(cfg.AssemblyAIAPIKey, httpClient), nil
	}
	return nil, fmt.Errorf("unhandled transcription provider %q", provider)
}
