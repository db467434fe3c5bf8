package ffmpeg

import (
	"context"
	"errors"
	"testing"
)

// fakeRunner intercepts subprocess calls and returns canned output.
type fakeRunner struct {
	out  []byte
	err  error
	name string
	args []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.name = name
	f.args = args
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

const sampleProbeJSON = `{
  "streams": [
    {"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "r_frame_rate": "30000/1001"},
    {"codec_type": "audio", "codec_name": "aac"}
  ],
  "format": {"duration": "120.500000", "bit_rate": "4500000"}
}`

func TestProbe_ParsesStreams(t *testing.T) {
	runner := &fakeRunner{out: []byte(sampleProbeJSON)}
	prober := NewProber("ffprobe", runner)

	info, err := prober.Probe(context.Background(), "/tmp/source.mp4")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !info.HasVideo || !info.HasAudio {
		t.Errorf("expected video and audio streams, got %+v", info)
	}
	if info.Width != 1920 || info.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", info.Width, info.Height)
	}
	if info.Duration != 120.5 {
		t.Errorf("expected duration 120.5, got %v", info.Duration)
	}
	if info.BitrateKbps != 4500 {
		t.Errorf("expected 4500 kbps, got %d", info.BitrateKbps)
	}
	if info.CodecName != "h264" {
		t.Errorf("expected codec h264, got %q", info.CodecName)
	}
	// NTSC rational rounds to ~29.97
	if info.FrameRate < 29.9 || info.FrameRate > 30 {
		t.Errorf("expected ~29.97 fps, got %v", info.FrameRate)
	}

	if runner.name != "ffprobe" {
		t.Errorf("expected ffprobe to be invoked, got %q", runner.name)
	}
}

func TestProbe_AudioOnlySource(t *testing.T) {
	runner := &fakeRunner{out: []byte(`{
	  "streams": [{"codec_type": "audio", "codec_name": "mp3"}],
	  "format": {"duration": "30.0", "bit_rate": "128000"}
	}`)}
	prober := NewProber("ffprobe", runner)

	info, err := prober.Probe(context.Background(), "/tmp/audio.mp3")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if info.HasVideo {
		t.Error("did not expect a video stream")
	}
	if !info.HasAudio {
		t.Error("expected an audio stream")
	}
}

func TestProbe_RunnerError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("ffprobe failure")}
	prober := NewProber("ffprobe", runner)

	if _, err := prober.Probe(context.Background(), "/tmp/source.mp4"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestParseFrameRate(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"0/0", 0},
		{"garbage", 0},
	}
	for _, tc := range cases {
		if got := parseFrameRate(tc.in); got != tc.want {
			t.Errorf("parseFrameRate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
