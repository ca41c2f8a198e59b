package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, time.Second, cfg.Panel.PollInterval)
	assert.Equal(t, 120*time.Millisecond, cfg.Panel.BlurDelay)
	assert.Zero(t, cfg.Panel.HTTPTimeout, "no timeout by default")
	assert.Equal(t, "/estado-json", cfg.Panel.StatusPath)
	assert.Equal(t, 3, cfg.Workshop.Workers)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestParseKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  port: 9090
panel:
  poll_interval: 250ms
  use_websocket: true
storage:
  driver: sqlite
  path: /tmp/orders.db
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 250*time.Millisecond, cfg.Panel.PollInterval)
	assert.True(t, cfg.Panel.UseWebSocket)
	assert.Equal(t, "/add-order", cfg.Panel.AddPath)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/orders.db", cfg.Storage.Path)
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("server: [unclosed"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Workshop.Workers = 5
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Workshop.Workers)
	assert.Equal(t, cfg.Panel, loaded.Panel)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TALLER_PORT", "7000")
	t.Setenv("TALLER_BASE_URL", "http://taller.local:7000/")
	t.Setenv("TALLER_POLL_INTERVAL", "2s")
	t.Setenv("TALLER_USE_WEBSOCKET", "true")
	t.Setenv("TALLER_WORKERS", "not-a-number")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "http://taller.local:7000", cfg.Panel.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Panel.PollInterval)
	assert.True(t, cfg.Panel.UseWebSocket)
	assert.Equal(t, 3, cfg.Workshop.Workers, "invalid value keeps the default")
}
