package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/hupe1980/rascal"
	"github.com/hupe1980/rascal/persistence"
)

const envPrefix = "RASCAL"

// Config validation errors
var (
	ErrInvalidLogFormat = errors.New("log_format must be 'json' or 'text'")
	ErrInvalidWorkers   = errors.New("workers must be positive")
	ErrInvalidBackend   = errors.New("archive backend must be local, memory, s3 or minio")
	ErrMissingBucket    = errors.New("archive bucket is required for s3 and minio backends")
	ErrMissingEndpoint  = errors.New("archive endpoint is required for the minio backend")
)

// Config is read from RASCAL_* environment variables.
type Config struct {
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"text"`
	Workers     int    `envconfig:"WORKERS" default:"1"`
	Compression string `envconfig:"COMPRESSION" default:"zstd"`

	Archive ArchiveConfig `envconfig:"ARCHIVE"`
}

// ArchiveConfig selects the blob store backing `--archive` and `rascal archive`.
type ArchiveConfig struct {
	Backend   string `envconfig:"BACKEND" default:"local"`
	Dir       string `envconfig:"DIR" default:"rascal-archive"`
	Bucket    string `envconfig:"BUCKET"`
	Prefix    string `envconfig:"PREFIX"`
	Region    string `envconfig:"REGION"`
	Endpoint  string `envconfig:"ENDPOINT"`
	AccessKey string `envconfig:"ACCESS_KEY"`
	SecretKey string `envconfig:"SECRET_KEY"`
	Secure    bool   `envconfig:"SECURE" default:"true"`

	// RateLimit caps archive traffic in bytes/sec (0 = unlimited).
	RateLimit     int64 `envconfig:"RATE_LIMIT" default:"0"`
	MaxConcurrent int64 `envconfig:"MAX_CONCURRENT" default:"0"`
	CacheBytes    int64 `envconfig:"CACHE_BYTES" default:"0"`
}

// LoadConfig loads envFile (or ./.env when empty and present) and then
// processes the environment.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateConfig validates the configuration and returns an error if invalid
func ValidateConfig(cfg *Config) error {
	if _, err := cfg.Level(); err != nil {
		return err
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return ErrInvalidLogFormat
	}
	if cfg.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if _, err := persistence.ParseCompression(cfg.Compression); err != nil {
		return err
	}

	switch cfg.Archive.Backend {
	case "local", "memory":
	case "s3":
		if cfg.Archive.Bucket == "" {
			return ErrMissingBucket
		}
	case "minio":
		if cfg.Archive.Bucket == "" {
			return ErrMissingBucket
		}
		if cfg.Archive.Endpoint == "" {
			return ErrMissingEndpoint
		}
	default:
		return ErrInvalidBackend
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level must be debug, info, warn, or error: %w", err)
	}
	return level, nil
}

// Logger builds the library logger writing to w.
func (c *Config) Logger(w io.Writer) *rascal.Logger {
	level, _ := c.Level()
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return rascal.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return rascal.NewLogger(slog.NewTextHandler(w, opts))
}
