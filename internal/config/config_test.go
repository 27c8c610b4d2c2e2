package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"metabohunter/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, validate(cfg))
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, ":9992", cfg.App.HTTPAddr)
	assert.Equal(t, defaultServiceBaseURL, cfg.Service.BaseURL)
	assert.Equal(t, 120, cfg.Service.TimeoutSeconds)
	assert.Equal(t, 2, cfg.Batch.Concurrency)
	assert.Equal(t, catalog.Defaults(), cfg.Defaults)
}

func TestLoad(t *testing.T) {
	t.Run("includes and explicit zero", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "service.yaml", `
service:
  base_url: https://mirror.example.org/metabohunter/
  timeout_seconds: 0
`)
		path := writeFile(t, dir, "main.yaml", `
include:
  - service.yaml
app:
  log_level: debug
defaults:
  database: MMCD
  frequency: 500
  confidence: 0
batch:
  concurrency: 4
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.App.LogLevel)
		assert.Equal(t, "https://mirror.example.org/metabohunter/", cfg.Service.BaseURL)
		assert.Equal(t, 0, cfg.Service.TimeoutSeconds, "explicit zero disables the timeout")
		assert.Equal(t, "MMCD", cfg.Defaults.Database)
		assert.Equal(t, "500", cfg.Defaults.Frequency)
		assert.Equal(t, 0.0, cfg.Defaults.Confidence, "explicit zero threshold is kept")
		assert.Equal(t, catalog.DefaultTolerance, cfg.Defaults.Tolerance)
		assert.Equal(t, catalog.MetabotypeAll, cfg.Defaults.Metabotype)
		assert.Equal(t, 4, cfg.Batch.Concurrency)
	})

	t.Run("invalid default parameter", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "bad.yaml", "defaults:\n  metabotype: Unknown\n")
		_, err := Load(path)
		assert.ErrorIs(t, err, catalog.ErrInvalidParameter)
	})

	t.Run("invalid service url", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "bad.yaml", "service:\n  base_url: ftp://example.org\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "service.base_url")
	})

	t.Run("shared include merged once and including file wins", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "parts"), 0o755))
		writeFile(t, dir, "parts/base.yaml", "batch:\n  concurrency: 3\ndefaults:\n  noise: 0.5\n")
		writeFile(t, dir, "parts/service.yaml", "include: [base.yaml]\nservice:\n  timeout_seconds: 30\n")
		writeFile(t, dir, "parts/batch.yaml", "include: [base.yaml]\nbatch:\n  concurrency: 8\n")
		path := writeFile(t, dir, "main.yaml", "include: [parts/service.yaml, parts/batch.yaml]\ndefaults:\n  noise: 0\n")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 30, cfg.Service.TimeoutSeconds)
		assert.Equal(t, 8, cfg.Batch.Concurrency, "later include overrides the shared base")
		assert.Equal(t, 0.0, cfg.Defaults.Noise, "including file overrides its includes")
	})

	t.Run("single include string", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "service.yaml", "service:\n  timeout_seconds: 15\n")
		path := writeFile(t, dir, "main.yaml", "include: service.yaml\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 15, cfg.Service.TimeoutSeconds)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := Load(" ")
		assert.Error(t, err)
	})

	t.Run("include cycle", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.yaml", "include: [b.yaml]\n")
		writeFile(t, dir, "b.yaml", "include: [a.yaml]\n")
		_, err := Load(filepath.Join(dir, "a.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cycle")
	})
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := LoadOrDefault(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = LoadOrDefault(missing, true)
	assert.Error(t, err)
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "watch.yaml", "defaults:\n  database: HMDB\n")

	w, err := NewWatcher(path)
	require.NoError(t, err)
	assert.Equal(t, "HMDB", w.Current().Defaults.Database)

	changed := make(chan *Config, 16)
	w.Subscribe(func(cfg *Config) {
		select {
		case changed <- cfg:
		default:
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("defaults:\n  database: MMCD\n"), 0o644))
	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changed:
			// a write can surface as several events; wait for the final content
			if cfg.Defaults.Database != "MMCD" {
				continue
			}
			assert.Equal(t, "MMCD", w.Current().Defaults.Database)
			return
		case <-deadline:
			t.Skip("no file change notification on this platform")
		}
	}
}
