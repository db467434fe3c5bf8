package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/vhoudet/videos-ms-go/internal/config"
	"github.com/vhoudet/videos-ms-go/internal/db"
	"github.com/vhoudet/videos-ms-go/internal/ffmpeg"
	workerHandler "github.com/vhoudet/videos-ms-go/internal/handler/worker"
	"github.com/vhoudet/videos-ms-go/internal/logger"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/repository/mariadb"
	"github.com/vhoudet/videos-ms-go/internal/storage"
	"github.com/vhoudet/videos-ms-go/internal/task"
	"github.com/vhoudet/videos-ms-go/internal/transcription"
	videoSvc "github.com/vhoudet/videos-ms-go/internal/usecase/video"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	logger.Init()

	database := initDb(cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	strg := initStorage(cfg)
	if err := strg.InitBucket(cfg.Bucket); err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", cfg.Bucket, err)
		os.Exit(1)
	}

	repo := mariadb.NewVideoRepository(database.DB)

	runner := ffmpeg.NewCommandRunner()
	prober := ffmpeg.NewProber(cfg.FFprobePath, runner)
	encoder := ffmpeg.NewEncoder(cfg.FFmpegPath, runner)
	thumbnailer := ffmpeg.NewThumbnailer(cfg.FFmpegPath, runner)

	transcriber, err := transcription.New(transcription.Config{
		Provider:         cfg.TranscriptionProvider,
		WhisperPath:      cfg.WhisperPath,
		WhisperModelPath: cfg.WhisperModelPath,
		OpenAIAPIKey:     cfg.OpenAIAPIKey,
		DeepgramAPIKey:   cfg.DeepgramAPIKey,
		AssemblyAIAPIKey: cfg.AssemblyAIAPIKey,
	}, runner)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize transcription provider: %v", err)
		os.Exit(1)
	}
	logger.Infof(ctx, "✅  Transcription provider %q ready", cfg.TranscriptionProvider)

	transcodeSvc := videoSvc.NewRenditionTranscoder(repo, strg, encoder, cfg.ScratchDir)
	thumbnailSvc := videoSvc.NewThumbnailGenerator(repo, strg, thumbnailer, cfg.ScratchDir)
	transcribeSvc := videoSvc.NewAudioTranscriber(repo, strg, encoder, transcriber, cfg.ScratchDir, cfg.TranscriptionLanguage)
	processSvc := videoSvc.NewPipelineProcessor(
		repo, strg, prober,
		transcodeSvc, thumbnailSvc, transcribeSvc,
		cfg.ScratchDir, cfg.MaxVideoDuration.Seconds(),
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeProcessVideo, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseProcessVideoPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.ProcessVideoHandler(ctx, p, processSvc)
	})

	runWorker(ctx, mux, cfg, database)
}

func initDb(cfg *config.Settings) *db.Database {
	ctx := context.Background()
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}

func initStorage(cfg *config.Settings) port.Storage {
	strg, err := storage.NewStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
		cfg.CDNBaseURL,
	)
	if err != nil {
		logger.Errorf(context.Background(), "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	return strg
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings, database *db.Database) {
	// Transcoding jobs are CPU-bound subprocesses; keep concurrency low so a
	// single host is not oversubscribed.
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{Concurrency: 2})

	// Run server in background
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "❌  Worker failed: %v", err)
			os.Exit(1)
		}
	}()
	logger.Info(ctx, "🚀 Worker started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// Give Asynq up to 30 sec to finish tasks
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	srv.Shutdown()       // stop accepting new tasks, finish in-flight
	<-shutdownCtx.Done() // either timeout or done

	// Close DB
	if err := database.Close(); err != nil {
		logger.Warnf(ctx, "DB close error: %v", err)
	}
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
