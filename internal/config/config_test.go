package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", " , ")
	t.Setenv("TOKEN_TTL_HOURS", "not-a-number")

	cfg := Load()
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://localhost:4200", "http://127.0.0.1:4200"}, cfg.CORSOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL_HOURS", "1")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestMigrationsOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0001_x.sql"), []byte("SELECT 1;"), 0o644))

	cfg := Config{MigrationsDir: dir}
	entries, err := readNames(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_x.sql"}, entries)

	embedded, err := readNames(Config{})
	require.NoError(t, err)
	assert.Contains(t, embedded, "0002_task_items.sql")
}

func TestLoadClientFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api_url: http://tasks.test/\nstore: yaml\nstate_path: /tmp/p.yaml\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("POMODORO_REQUEST_TIMEOUT", "3s")

	cfg, err := LoadClient(path)
	require.NoError(t, err)
	assert.Equal(t, "http://tasks.test", cfg.APIURL)
	assert.Equal(t, StoreYAML, cfg.Store)
	assert.Equal(t, "/tmp/p.yaml", cfg.StatePath)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}

func TestLoadClientRejectsUnknownStore(t *testing.T) {
	t.Setenv("POMODORO_STORE", "redis")
	_, err := LoadClient(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
