package video

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/vhoudet/videos-ms-go/internal/ffmpeg"
	"github.com/vhoudet/videos-ms-go/internal/model"
	"github.com/vhoudet/videos-ms-go/internal/port"
)

type renditionTranscoderSrv struct {
	strg       port.Storage
	repo       port.VideoRepository
	encoder    port.Encoder
	scratchDir string
}

// NewRenditionTranscoder initialises the transcoding branch of the pipeline.
func NewRenditionTranscoder(repo port.VideoRepository, strg port.Storage, encoder port.Encoder, scratchDir string) port.RenditionTranscoder {
	return &renditionTranscoderSrv{strg: strg, repo: repo, encoder: encoder, scratchDir: scratchDir}
}

// TranscodeVideo produces the progressive-download renditions and the HLS
// bundle, uploads everything, then records the rendition keys in one write.
func (s *renditionTranscoderSrv) TranscodeVideo(ctx context.Context, video model.Video) error {
	if video.Height == nil {
		return fmt.Errorf("video #%s has no probed height", video.ID)
	}

	workDir, err := os.MkdirTemp(s.scratchDir, "transcode-*")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	srcPath := filepath.Join(workDir, "source"+filepath.Ext(video.ObjectKey))
	if err := s.strg.DownloadToFile(ctx, video.Bucket, video.ObjectKey, srcPath); err != nil {
		return fmt.Errorf("download source: %w", err)
	}

	selected := ffmpeg.SelectRenditions(*video.Height)
	log.Printf("transcoding video #%s into %d renditions...", video.ID, len(selected))

	renditions := model.Renditions{}
	for _, r := range selected {
		outPath := filepath.Join(workDir, r.Label+".mp4")
		if err := s.encoder.TranscodeRendition(ctx, srcPath, outPath, r); err != nil {
			return err
		}
		key := RenditionKey(video.ID, r.Label)
		if err := s.strg.UploadFile(ctx, video.Bucket, key, outPath, "video/mp4"); err != nil {
			return fmt.Errorf("upload rendition %s: %w", r.Label, err)
		}
		renditions[r.Label] = key
	}

	hlsDir := filepath.Join(workDir, "hls")
	if err := s.encoder.PackageHLS(ctx, srcPath, hlsDir, selected); err != nil {
		return err
	}
	if err := s.uploadHLSDir(ctx, video, hlsDir); err != nil {
		return err
	}

	masterKey := HLSMasterKey(video.ID)
	masterURL := s.strg.PublicURL(video.Bucket, masterKey)
	return s.repo.UpdateRenditions(ctx, video.ID, renditions, masterKey, masterURL)
}

// uploadHLSDir mirrors the local HLS bundle into storage, preserving the
// variant directory layout under the video's HLS prefix.
func (s *renditionTranscoderSrv) uploadHLSDir(ctx context.Context, video model.Video, hlsDir string) error {
	prefix := HLSPrefix(video.ID)
	return filepath.WalkDir(hlsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(hlsDir, path)
		if err != nil {
			return err
		}
		key := prefix + "/" + filepath.ToSlash(rel)
		if err := s.strg.UploadFile(ctx, video.Bucket, key, path, hlsContentType(path)); err != nil {
			return fmt.Errorf("upload hls file %q: %w", rel, err)
		}
		return nil
	})
}

func hlsContentType(path string) string {
	switch filepath.Ext(path) {
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".ts":
		return "video/mp2t"
	default:
		return "application/octet-stream"
	}
}
