package transcription

import "testing"

func TestParseProvider(t *testing.T) {
	for _, s := range []string{"whispercpp", "openai", "deepgram", "assemblyai"} {
		if _, err := ParseProvider(s); err != nil {
			t.Errorf("expected %q to be a valid provider, got %v", s, err)
		}
	}
	if _, err := ParseProvider("google"); err == nil {
		t.Error("expected an error for an unknown provider")
	}
}

func TestNew_RequiresCredentials(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"WhisperWithoutModel", Config{Provider: "whispercpp", WhisperPath: "/usr/bin/whisper"}},
		{"OpenAIWithoutKey", Config{Provider: "openai"}},
		{"DeepgramWithoutKey", Config{Provider: "deepgram"}},
		{"AssemblyAIWithoutKey", Config{Provider: "assemblyai"}},
		{"UnknownProvider", Config{Provider: "google"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.cfg, nil); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}
}

func TestNew_BuildsConfiguredProvider(t *testing.T) {
	svc, err := New(Config{
		Provider:         "whispercpp",
		WhisperPath:      "/usr/bin/whisper",
		WhisperModelPath: "/models/ggml-base.bin",
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc == nil {
		t.Fatal("expected a transcriber")
	}
}
