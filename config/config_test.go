package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().PresetDir, cfg.PresetDir)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, []string{"presets"}, cfg.SearchPaths())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "preset-selector.yaml")
	cfg := DefaultConfig()
	cfg.PresetDir = "/srv/presets"
	cfg.WildcardDir = "/srv/wildcards"
	cfg.Logging.Level = "debug"
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/srv/presets", "/srv/wildcards"}, got.SearchPaths())
	assert.Equal(t, zapcore.DebugLevel, got.GetLogLevel())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PRESET_DIR", "/env/presets")
	t.Setenv("PORT", "9999")
	t.Setenv("LOG_LEVEL", "loud")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/env/presets", cfg.PresetDir)
	assert.Equal(t, ":9999", cfg.Addr())
	assert.Equal(t, zapcore.InfoLevel, cfg.GetLogLevel())
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}
