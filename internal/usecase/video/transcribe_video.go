package video

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/vhoudet/videos-ms-go/internal/model"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/transcription"
)

type audioTranscriberSrv struct {
	repo        port.VideoRepository
	strg        port.Storage
	extractor   port.AudioExtractor
	transcriber port.Transcriber
	scratchDir  string
	language    string // empty means auto-detect
}

// NewAudioTranscriber initialises the transcription branch of the pipeline.
func NewAudioTranscriber(repo port.VideoRepository, strg port.Storage, extractor port.AudioExtractor, transcriber port.Transcriber, scratchDir, language string) port.AudioTranscriber {
	return &audioTranscriberSrv{
		repo:        repo,
		strg:        strg,
		extractor:   extractor,
		transcriber: transcriber,
		scratchDir:  scratchDir,
		language:    language,
	}
}

// TranscribeVideo extracts the audio track, runs speech recognition, renders
// the caption track and records the transcript in one write.
func (s *audioTranscriberSrv) TranscribeVideo(ctx context.Context, video model.Video) error {
	workDir, err := os.MkdirTemp(s.scratchDir, "transcribe-*")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	srcPath := filepath.Join(workDir, "source"+filepath.Ext(video.ObjectKey))
	if err := s.strg.DownloadToFile(ctx, video.Bucket, video.ObjectKey, srcPath); err != nil {
		return fmt.Errorf("download source: %w", err)
	}

	audioPath := filepath.Join(workDir, "audio.wav")
	if err := s.extractor.ExtractAudio(ctx, srcPath, audioPath); err != nil {
		return err
	}

	result, err := s.transcriber.Transcribe(ctx, audioPath, s.language)
	if err != nil {
		return fmt.Errorf("transcribe video #%s: %w", video.ID, err)
	}
	if result.Text == "" {
		log.Printf("video #%s produced an empty transcript", video.ID)
	}

	cues := transcription.GroupWords(result.Words)
	var vtt bytes.Buffer
	if err := transcription.WriteVTT(&vtt, cues); err != nil {
		return fmt.Errorf("render captions: %w", err)
	}

	captionsPath := filepath.Join(workDir, "captions.vtt")
	if err := os.WriteFile(captionsPath, vtt.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write captions file: %w", err)
	}
	captionsKey := CaptionsKey(video.ID)
	if err := s.strg.UploadFile(ctx, video.Bucket, captionsKey, captionsPath, "text/vtt"); err != nil {
		return fmt.Errorf("upload captions: %w", err)
	}

	return s.repo.UpdateTranscription(ctx, video.ID, port.TranscriptionUpdate{
		CaptionsKey: captionsKey,
		CaptionsURL: s.strg.PublicURL(video.Bucket, captionsKey),
		Text:        result.Text,
		Language:    result.Language,
		Confidence:  result.Confidence,
	})
}
