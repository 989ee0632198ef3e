package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, "zstd", cfg.Compression)
	assert.Equal(t, "local", cfg.Archive.Backend)
	assert.Equal(t, "rascal-archive", cfg.Archive.Dir)
	assert.True(t, cfg.Archive.Secure)
	assert.Zero(t, cfg.Archive.CacheBytes)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("RASCAL_LOG_LEVEL", "debug")
	t.Setenv("RASCAL_LOG_FORMAT", "json")
	t.Setenv("RASCAL_WORKERS", "4")
	t.Setenv("RASCAL_COMPRESSION", "lz4")
	t.Setenv("RASCAL_ARCHIVE_BACKEND", "s3")
	t.Setenv("RASCAL_ARCHIVE_BUCKET", "descriptors")
	t.Setenv("RASCAL_ARCHIVE_CACHE_BYTES", "1048576")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "lz4", cfg.Compression)
	assert.Equal(t, "s3", cfg.Archive.Backend)
	assert.Equal(t, "descriptors", cfg.Archive.Bucket)
	assert.Equal(t, int64(1<<20), cfg.Archive.CacheBytes)
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RASCAL_WORKERS=3\nRASCAL_ARCHIVE_BACKEND=memory\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("RASCAL_WORKERS")
		_ = os.Unsetenv("RASCAL_ARCHIVE_BACKEND")
	})

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "memory", cfg.Archive.Backend)

	_, err = LoadConfig(filepath.Join(dir, "missing.env"))
	require.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			LogLevel:    "info",
			LogFormat:   "text",
			Workers:     1,
			Compression: "none",
			Archive:     ArchiveConfig{Backend: "local"},
		}
	}
	require.NoError(t, ValidateConfig(valid()))

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"log format", func(c *Config) { c.LogFormat = "xml" }, ErrInvalidLogFormat},
		{"workers", func(c *Config) { c.Workers = 0 }, ErrInvalidWorkers},
		{"backend", func(c *Config) { c.Archive.Backend = "ftp" }, ErrInvalidBackend},
		{"s3 bucket", func(c *Config) { c.Archive.Backend = "s3" }, ErrMissingBucket},
		{"minio bucket", func(c *Config) { c.Archive.Backend = "minio" }, ErrMissingBucket},
		{"minio endpoint", func(c *Config) {
			c.Archive.Backend = "minio"
			c.Archive.Bucket = "b"
		}, ErrMissingEndpoint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, ValidateConfig(cfg), tt.want)
		})
	}

	t.Run("log level", func(t *testing.T) {
		cfg := valid()
		cfg.LogLevel = "loud"
		assert.Error(t, ValidateConfig(cfg))
	})
	t.Run("compression", func(t *testing.T) {
		cfg := valid()
		cfg.Compression = "brotli"
		assert.Error(t, ValidateConfig(cfg))
	})
}

func TestConfigLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}
	logger := cfg.Logger(&buf)

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
