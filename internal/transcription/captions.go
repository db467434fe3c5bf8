package transcription

import (
	"fmt"
	"io"
	"strings"

	"github.com/vhoudet/videos-ms-go/internal/port"
)

// Grouping heuristic shared by every provider: words accumulate into a cue
// until either limit is reached, then the cue is flushed.
const (
	maxWordsPerCue = 10
	maxCueSpan     = 5.0 // seconds
)

// Cue is one timed caption entry.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// SplitWords expands a segment-level transcript line into per-word spans by
// distributing the segment's duration evenly. Providers that already return
// word timestamps never need this.
func SplitWords(text string, start, end float64) []port.TranscriptWord {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	span := (end - start) / float64(len(fields))
	words := make([]port.TranscriptWord, 0, len(fields))
	for i, f := range fields {
		words = append(words, port.TranscriptWord{
			Text:  f,
			Start: start + span*float64(i),
			End:   start + span*float64(i+1),
		})
	}
	return words
}

// GroupWords accumulates words into cues, flushing at 10 words or a 5-second
// span, whichever comes first.
func GroupWords(words []port.TranscriptWord) []Cue {
	var cues []Cue
	var current []port.TranscriptWord

	flush := func() {
		if len(current) == 0 {
			return
		}
		texts := make([]string, 0, len(current))
		for _, w := range current {
			texts = append(texts, w.Text)
		}
		cues = append(cues, Cue{
			Start: current[0].Start,
			End:   current[len(current)-1].End,
			Text:  strings.Join(texts, " "),
		})
		current = current[:0]
	}

	for _, w := range words {
		if len(current) > 0 {
			if len(current) >= maxWordsPerCue || w.End-current[0].Start > maxCueSpan {
				flush()
			}
		}
		current = append(current, w)
	}
	flush()

	return cues
}

// WriteVTT renders cues as a WebVTT caption track.
func WriteVTT(w io.Writer, cues []Cue) error {
	if _, err := fmt.Fprint(w, "WEBVTT\n\n"); err != nil {
		return err
	}
	for i, c := range cues {
		if _, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			i+1, FormatTimestamp(c.Start), FormatTimestamp(c.End), c.Text,
		); err != nil {
			return err
		}
	}
	return nil
}

// FormatTimestamp renders seconds as HH:MM:SS.mmm.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int64(seconds*1000 + 0.5)
	h := millis / 3_600_000
	m := millis / 60_000 % 60
	s := millis / 1000 % 60
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
