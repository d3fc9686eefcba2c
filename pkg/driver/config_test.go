package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"tscheck/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
include:
  - "src/*.ts"
workers: 3
cacheSize: 16
suggestions: false
suggestionDistance: 1
log:
  level: debug
  development: true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(filepath.Dir(path), "src/*.ts")}, cfg.Include)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.False(t, cfg.Suggestions)
	assert.Equal(t, 1, cfg.SuggestionDistance)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, 0, cfg.suggestionDistance())
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "workers: 2\n"))
	require.NoError(t, err)
	defaults := DefaultConfig()
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, defaults.CacheSize, cfg.CacheSize)
	assert.True(t, cfg.Suggestions)
	assert.Equal(t, defaults.SuggestionDistance, cfg.suggestionDistance())

	empty, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, defaults.Workers, empty.Workers)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		msg     string
	}{
		{"unknown key", "wrokers: 2\n", "cannot parse"},
		{"bad yaml", "workers: [\n", "cannot parse"},
		{"zero workers", "workers: 0\n", "workers must be at least 1, got 0"},
		{"negative cache", "cacheSize: -1\n", "cacheSize must not be negative, got -1"},
		{"bad level", "log:\n  level: loud\n", `invalid log level "loud"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			var cfgErr *errors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, cfgErr.Msg, tt.msg)
			assert.Equal(t, "Config", cfgErr.Kind())
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExpandInclude(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.ts", "a.ts", "c.js"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	cfg := DefaultConfig()
	cfg.Include = []string{filepath.Join(dir, "*.ts"), filepath.Join(dir, "a.*")}

	files, err := cfg.ExpandInclude()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.ts"), filepath.Join(dir, "b.ts")}, files)

	cfg.Include = []string{"["}
	_, err = cfg.ExpandInclude()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LogConfig{Level: "info", Development: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger(LogConfig{Level: "chatty"})
	assert.Error(t, err)
}
