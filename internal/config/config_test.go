package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory with an empty HOME so no
// real glossary.yaml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
	t.Setenv("HOME", t.TempDir())
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "Terms.xml", cfg.StoragePath)
	assert.Equal(t, ":8081", cfg.AdminAddr)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.WatchEnabled)
	assert.Equal(t, 250*time.Millisecond, cfg.WatchDebounce)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	content := "storage:\n  path: /srv/glossary/Terms.xml\nlog:\n  level: debug\nwatch:\n  enabled: false\n  debounce: 1s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "glossary.yaml"), []byte(content), 0644))

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "/srv/glossary/Terms.xml", cfg.StoragePath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.False(t, cfg.WatchEnabled)
	assert.Equal(t, time.Second, cfg.WatchDebounce)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "glossary.yaml"), []byte("admin:\n  addr: \":9000\"\n"), 0644))
	t.Setenv("GLOSSARY_ADMIN_ADDR", ":9100")
	t.Setenv("GLOSSARY_STORAGE_PATH", "env.xml")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.AdminAddr)
	assert.Equal(t, "env.xml", cfg.StoragePath)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("log level", func(t *testing.T) {
		isolate(t)
		t.Setenv("GLOSSARY_LOG_LEVEL", "chatty")

		_, err := Load(New())
		assert.ErrorContains(t, err, KeyLogLevel)
	})

	t.Run("debounce", func(t *testing.T) {
		isolate(t)
		t.Setenv("GLOSSARY_WATCH_DEBOUNCE", "soon")

		_, err := Load(New())
		assert.ErrorContains(t, err, KeyWatchDebounce)
	})

	t.Run("blank storage path", func(t *testing.T) {
		isolate(t)
		v := New()
		v.Set(KeyStoragePath, "  ")

		_, err := Load(v)
		assert.ErrorContains(t, err, KeyStoragePath)
	})

	t.Run("broken config file", func(t *testing.T) {
		dir := isolate(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "glossary.yaml"), []byte("storage: [unterminated"), 0644))

		_, err := Load(New())
		assert.ErrorContains(t, err, "failed to read config file")
	})
}
