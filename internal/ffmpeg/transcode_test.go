package ffmpeg

import (
	"context"
	"strings"
	"testing"

	"github.com/vhoudet/videos-ms-go/internal/port"
)

func TestTranscodeRendition_Args(t *testing.T) {
	runner := &fakeRunner{}
	enc := NewEncoder("ffmpeg", runner)

	r := port.Rendition{Label: "720p", Height: 720, VideoBitrate: "2800k", AudioBitrate: "128k", Preset: "medium"}
	if err := enc.TranscodeRendition(context.Background(), "/tmp/in.mp4", "/tmp/720p.mp4", r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	joined := strings.Join(runner.args, " ")
	for _, want := range []string{"scale=-2:720", "-b:v 2800k", "-b:a 128k", "-preset medium", "-movflags +faststart"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected args to contain %q, got %q", want, joined)
		}
	}
}

func TestMasterPlaylist(t *testing.T) {
	renditions := []port.Rendition{
		{Label: "720p", Height: 720, VideoBitrate: "2800k", AudioBitrate: "128k"},
		{Label: "240p", Height: 240, VideoBitrate: "400k", AudioBitrate: "64k"},
	}

	master := masterPlaylist(renditions)

	if !strings.HasPrefix(master, "#EXTM3U\n#EXT-X-VERSION:3\n") {
		t.Errorf("unexpected header in %q", master)
	}
	for _, want := range []string{
		"#EXT-X-STREAM-INF:BANDWIDTH=2928000,RESOLUTION=1280x720\n720p/index.m3u8\n",
		"#EXT-X-STREAM-INF:BANDWIDTH=464000,RESOLUTION=426x240\n240p/index.m3u8\n",
	} {
		if !strings.Contains(master, want) {
			t.Errorf("expected playlist to contain %q, got %q", want, master)
		}
	}
}

func TestBitrateKbps(t *testing.T) {
	if got := bitrateKbps("2800k"); got != 2800 {
		t.Errorf("bitrateKbps(2800k) = %d", got)
	}
	if got := bitrateKbps("64k"); got != 64 {
		t.Errorf("bitrateKbps(64k) = %d", got)
	}
}

func TestEvenWidth(t *testing.T) {
	cases := []struct {
		height int
		want   int
	}{
		{1080, 1920},
		{720, 1280},
		{480, 852},
		{240, 426},
	}
	for _, tc := range cases {
		if got := evenWidth(tc.height); got != tc.want {
			t.Errorf("evenWidth(%d) = %d, want %d", tc.height, got, tc.want)
		}
	}
}
