package state

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Interval)
	assert.Equal(t, "", cfg.Schedule)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, OnErrorAbort, cfg.OnError)
	assert.Equal(t, SourceStatic, cfg.Source.Kind)
	assert.Equal(t, DefaultRedisKey, cfg.Source.Redis.Key)
	assert.Equal(t, 2048, cfg.Crypto.KeyBits)
	assert.Equal(t, time.Duration(0), cfg.Crypto.KeyLifetime)
	assert.Equal(t, CodecJson, cfg.Crypto.Codec)
	assert.Equal(t, int64(42), cfg.Render.Seed)
	assert.False(t, cfg.Render.Dot)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("TOPOMON_INTERVAL", "30s")
	t.Setenv("TOPOMON_ON_ERROR", "skip")
	t.Setenv("TOPOMON_CRYPTO_KEY_LIFETIME", "1h")
	t.Setenv("TOPOMON_LOG_LEVEL", "debug")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Interval)
	assert.Equal(t, OnErrorSkip, cfg.OnError)
	assert.Equal(t, time.Hour, cfg.Crypto.KeyLifetime)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	links := filepath.Join(dir, "links.yaml")
	require.NoError(t, os.WriteFile(links, []byte("links: []\n"), 0600))

	path := filepath.Join(dir, "topomon.yaml")
	doc := `interval: 1m
output_dir: ` + dir + `
source:
  kind: file
  path: ` + links + `
crypto:
  codec: proto
render:
  seed: 7
  dot: true
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.Interval)
	assert.Equal(t, dir, cfg.OutputDir)
	assert.Equal(t, SourceFile, cfg.Source.Kind)
	assert.Equal(t, links, cfg.Source.Path)
	assert.Equal(t, CodecProto, cfg.Crypto.Codec)
	assert.Equal(t, int64(7), cfg.Render.Seed)
	assert.True(t, cfg.Render.Dot)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topomon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source:\n  kind: file\n"), 0600))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "source.path is required")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
