package config

import (
	"os"
	"testing"
	"time"
)

func allRequiredVars() map[string]string {
	return map[string]string{
		"MARIADB_DSN":               "user:pass@tcp(localhost:3306)/db",
		"MARIADB_MAX_OPEN_CONN":     "10",
		"MARIADB_MAX_IDLE_CONNS":    "5",
		"MARIADB_CONN_MAX_LIFETIME": "30",
		"SERVER_PORT":               "8080",
		"MINIO_ENDPOINT":            "localhost:9000",
		"MINIO_ACCESS_KEY":          "minio",
		"MINIO_SECRET_KEY":          "minio123",
		"VIDEOS_BUCKET":             "videos",
	}
}

func TestLoad_Success(t *testing.T) {
	// Switch to a temp directory to avoid loading a real .env
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("could not get working directory: %v", err)
	}
	tmpDir := t.TempDir()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("could not chdir to temp dir: %v", err)
	}
	defer func() {
		if err := os.Chdir(origDir); err != nil {
			t.Fatalf("could not chdir back to original dir: %v", err)
		}
	}()

	reqs := allRequiredVars()
	for k, v := range reqs {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.MariaDBDSN != reqs["MARIADB_DSN"] {
		t.Errorf("MariaDBDSN: expected %q, got %q", reqs["MARIADB_DSN"], cfg.MariaDBDSN)
	}
	if cfg.MaxOpenConns != 10 {
		t.Errorf("MaxOpenConns: expected %d, got %d", 10, cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns != 5 {
		t.Errorf("MaxIdleConns: expected %d, got %d", 5, cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != 30*time.Second {
		t.Errorf("ConnMaxLifetime: expected %v, got %v", 30*time.Second, cfg.ConnMaxLifetime)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort: expected %d, got %d", 8080, cfg.ServerPort)
	}
	if cfg.Bucket != "videos" {
		t.Errorf("Bucket: expected %q, got %q", "videos", cfg.Bucket)
	}

	// defaults
	if cfg.FFmpegPath != "ffmpeg" {
		t.Errorf("FFmpegPath: expected default %q, got %q", "ffmpeg", cfg.FFmpegPath)
	}
	if cfg.FFprobePath != "ffprobe" {
		t.Errorf("FFprobePath: expected default %q, got %q", "ffprobe", cfg.FFprobePath)
	}
	if cfg.MaxVideoDuration != 4*time.Hour {
		t.Errorf("MaxVideoDuration: expected default %v, got %v", 4*time.Hour, cfg.MaxVideoDuration)
	}
	if cfg.TranscriptionProvider != "whispercpp" {
		t.Errorf("TranscriptionProvider: expected default %q, got %q", "whispercpp", cfg.TranscriptionProvider)
	}
}

func TestLoad_MissingRequiredVars(t *testing.T) {
	cases := []struct {
		missingKey string
		wantErr    string
	}{
		{"MARIADB_DSN", "MARIADB_DSN is required"},
		{"MARIADB_MAX_OPEN_CONN", "MARIADB_MAX_OPEN_CONN is required"},
		{"MARIADB_MAX_IDLE_CONNS", "MARIADB_MAX_IDLE_CONNS is required"},
		{"MARIADB_CONN_MAX_LIFETIME", "MARIADB_CONN_MAX_LIFETIME is required"},
		{"SERVER_PORT", "SERVER_PORT is required"},
		{"MINIO_ENDPOINT", "MINIO_ENDPOINT is required"},
		{"MINIO_ACCESS_KEY", "MINIO_ACCESS_KEY is required"},
		{"MINIO_SECRET_KEY", "MINIO_SECRET_KEY is required"},
		{"VIDEOS_BUCKET", "VIDEOS_BUCKET is required"},
	}

	for _, tc := range cases {
		t.Run(tc.missingKey, func(t *testing.T) {
			// Isolate .env loading
			origDir, err := os.Getwd()
			if err != nil {
				t.Fatalf("could not get working directory: %v", err)
			}
			tmpDir := t.TempDir()
			if err := os.Chdir(tmpDir); err != nil {
				t.Fatalf("could not chdir to temp dir: %v", err)
			}
			defer func() {
				if err := os.Chdir(origDir); err != nil {
					t.Fatalf("could not chdir back to original dir: %v", err)
				}
			}()

			// Set all except the missing key
			for k, v := range allRequiredVars() {
				if k == tc.missingKey {
					if err := os.Unsetenv(k); err != nil {
						t.Fatalf("could not unset key %s in env: %v", k, err)
					}
				} else {
					t.Setenv(k, v)
				}
			}

			cfg, err := Load()
			if err == nil {
				t.Fatalf("expected error for missing %s, got nil", tc.missingKey)
			}
			if err.Error() != tc.wantErr {
				t.Errorf("error = %q; want %q", err.Error(), tc.wantErr)
			}
			if cfg != nil {
				t.Errorf("expected cfg nil on error, got %#v", cfg)
			}
		})
	}
}
