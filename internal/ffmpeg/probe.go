package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/vhoudet/videos-ms-go/internal/port"
)

type Prober struct {
	ffprobePath string
	runner      Runner
}

// compile-time check: *Prober must satisfy port.Prober
var _ port.Prober = (*Prober)(nil)

func NewProber(ffprobePath string, runner Runner) *Prober {
	return &Prober{ffprobePath: ffprobePath, runner: runner}
}

type ffprobeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width,omitempty"`
		Height     int    `json:"height,omitempty"`
		RFrameRate string `json:"r_frame_rate,omitempty"`
		Duration   string `json:"duration,omitempty"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
}

func (p *Prober) Probe(ctx context.Context, path string) (port.VideoInfo, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	out, err := p.runner.Run(ctx, p.ffprobePath, args...)
	if err != nil {
		return port.VideoInfo{}, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probeData ffprobeOutput
	if err := json.Unmarshal(out, &probeData); err != nil {
		return port.VideoInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	info := port.VideoInfo{}

	if probeData.Format.Duration != "" {
		if duration, err := strconv.ParseFloat(probeData.Format.Duration, 64); err == nil {
			info.Duration = duration
		}
	}
	if probeData.Format.BitRate != "" {
		if bitrate, err := strconv.Atoi(probeData.Format.BitRate); err == nil {
			info.BitrateKbps = bitrate / 1000
		}
	}

	for _, stream := range probeData.Streams {
		switch {
		case stream.CodecType == "video" && !info.HasVideo:
			info.HasVideo = true
			info.Width = stream.Width
			info.Height = stream.Height
			info.CodecName = stream.CodecName
			info.FrameRate = parseFrameRate(stream.RFrameRate)

			// Fall back to the stream duration when the container has none
			if info.Duration == 0 && stream.Duration != "" {
				if duration, err := strconv.ParseFloat(stream.Duration, 64); err == nil {
					info.Duration = duration
				}
			}
		case stream.CodecType == "audio":
			info.HasAudio = true
		}
	}

	return info, nil
}

// parseFrameRate converts ffprobe's "num/den" rational into frames/second.
func parseFrameRate(r string) float64 {
	parts := strings.Split(r, "/")
	if len(parts) != 2 {
		return 0
	}
	num, _ := strconv.ParseFloat(parts[0], 64)
	den, _ := strconv.ParseFloat(parts[1], 64)
	if den == 0 {
		return 0
	}
	return num / den
}
