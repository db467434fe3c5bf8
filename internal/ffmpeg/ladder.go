package ffmpeg

import "github.com/vhoudet/videos-ms-go/internal/port"

// Ladder is the full quality ladder, highest first. Selection never
// upscales: a rung qualifies only when the source height reaches its target.
var Ladder = []port.Rendition{
	{Label: "1080p", Height: 1080, VideoBitrate: "5000k", AudioBitrate: "192k", Preset: "medium"},
	{Label: "720p", Height: 720, VideoBitrate: "2800k", AudioBitrate: "128k", Preset: "medium"},
	{Label: "480p", Height: 480, VideoBitrate: "1400k", AudioBitrate: "128k", Preset: "medium"},
	{Label: "360p", Height: 360, VideoBitrate: "800k", AudioBitrate: "96k", Preset: "fast"},
	{Label: "240p", Height: 240, VideoBitrate: "400k", AudioBitrate: "64k", Preset: "fast"},
}

// SelectRenditions returns the rungs whose target height is at most the
// source height. When the source is smaller than every rung, the single
// lowest rung is used so at least one rendition always exists.
func SelectRenditions(sourceHeight int) []port.Rendition {
	var selected []port.Rendition
	for _, r := range Ladder {
		if sourceHeight >= r.Height {
			selected = append(selected, r)
		}
	}
	if len(selected) == 0 {
		selected = append(selected, Ladder[len(Ladder)-1])
	}
	return selected
}
