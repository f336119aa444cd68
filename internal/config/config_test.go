package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Kitchen.PrepDelaySeconds)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "panda-hinl", cfg.Dialogflow.ProjectID)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
kitchen:
  prep_delay_seconds: 2
metrics:
  enabled: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 2, cfg.Kitchen.PrepDelaySeconds)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "web/static", cfg.Server.StaticDir, "untouched fields keep defaults")
}

func TestPortEnvOverride(t *testing.T) {
	t.Setenv("PORT", "4000")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)

	t.Setenv("PORT", "not-a-port")
	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
