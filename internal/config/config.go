package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	Bucket         string
	CDNBaseURL     string

	RedisAddr     string
	RedisPassword string

	FFmpegPath  string
	FFprobePath string
	ScratchDir  string

	// MaxVideoDuration caps the length of sources accepted by the pipeline.
	// Zero disables the check.
	MaxVideoDuration time.Duration

	TranscriptionProvider string
	TranscriptionLanguage string
	WhisperPath           string
	WhisperModelPath      string
	OpenAIAPIKey          string
	DeepgramAPIKey        string
	AssemblyAIAPIKey      string

	JWTPublicKey string
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	required := []string{
		"MARIADB_DSN",
		"MARIADB_MAX_OPEN_CONN",
		"MARIADB_MAX_IDLE_CONNS",
		"MARIADB_CONN_MAX_LIFETIME",
		"SERVER_PORT",
		"MINIO_ENDPOINT",
		"MINIO_ACCESS_KEY",
		"MINIO_SECRET_KEY",
		"VIDEOS_BUCKET",
	}
	for _, key := range required {
		if !viper.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	viper.SetDefault("FFMPEG_PATH", "ffmpeg")
	viper.SetDefault("FFPROBE_PATH", "ffprobe")
	viper.SetDefault("SCRATCH_DIR", "")
	viper.SetDefault("MAX_VIDEO_DURATION", 4*60*60)
	viper.SetDefault("TRANSCRIPTION_PROVIDER", "whispercpp")

	return &Settings{
		MariaDBDSN:      viper.GetString("MARIADB_DSN"),
		MaxOpenConns:    viper.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    viper.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(viper.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      viper.GetInt("SERVER_PORT"),

		MinioEndpoint:  viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: viper.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:    viper.GetBool("MINIO_USE_SSL"),
		Bucket:         viper.GetString("VIDEOS_BUCKET"),
		CDNBaseURL:     viper.GetString("CDN_BASE_URL"),

		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),

		FFmpegPath:  viper.GetString("FFMPEG_PATH"),
		FFprobePath: viper.GetString("FFPROBE_PATH"),
		ScratchDir:  viper.GetString("SCRATCH_DIR"),

		MaxVideoDuration: time.Duration(viper.GetInt("MAX_VIDEO_DURATION")) * time.Second,

		TranscriptionProvider: viper.GetString("TRANSCRIPTION_PROVIDER"),
		TranscriptionLanguage: viper.GetString("TRANSCRIPTION_LANGUAGE"),
		WhisperPath:           viper.GetString("WHISPER_PATH"),
		WhisperModelPath:      viper.GetString("WHISPER_MODEL_PATH"),
		OpenAIAPIKey:          viper.GetString("OPENAI_API_KEY"),
		DeepgramAPIKey:        viper.GetString("DEEPGRAM_API_KEY"),
		AssemblyAIAPIKey:      viper.GetString("ASSEMBLYAI_API_KEY"),

		JWTPublicKey: viper.GetString("JWT_PUBLIC_KEY"),
	}, nil
}
