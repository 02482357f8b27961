package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/jeandeaual/tcg-cardscraper/config"
)

func TestDisplayBuildInformation(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, displayBuildInformation(&out, "0123456789abcdef0123456789abcdef01234567", "2024-07-14T10:20:30"))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "tcg-cardscraper version 0123456", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "on 2024-07-14T10:20:30Z"))

	out.Reset()
	require.NoError(t, displayBuildInformation(&out, "v1.2.0", ""))
	assert.True(t, strings.HasPrefix(out.String(), "tcg-cardscraper version v1.2.0\nBuilt with Go version "))

	out.Reset()
	require.NoError(t, displayBuildInformation(&out, "", ""))
	assert.True(t, strings.HasPrefix(out.String(), "tcg-cardscraper development version\n"))

	assert.Error(t, displayBuildInformation(&out, "v1.2.0", "yesterday"))
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(config.LogConfig{Level: "warn", Format: "json"}, false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	// --debug takes precedence over the configured level
	logger, err = newLogger(config.LogConfig{Level: "error", Format: "console"}, true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = newLogger(config.LogConfig{Level: "verbose"}, false)
	assert.Error(t, err)
}

func TestRunInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth:\n  email: ash@example.com\n"), 0o600))
	t.Setenv("TCGSCRAPER_AUTH_PASSWORD", "")

	cmd := newRunCmd()
	cmd.SetArgs([]string{"--config", path, "-o", filepath.Join(t.TempDir(), "cards.csv")})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalid))
}

func TestRunFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pages:
  start: 2
  end: 3
output:
  path: from-file.csv
`), 0o600))

	t.Setenv("TCGSCRAPER_AUTH_EMAIL", "")
	t.Setenv("TCGSCRAPER_AUTH_PASSWORD", "")

	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--end", "9", "-o", "from-flag.xlsx"}))

	cfg, err := loadConfig(cmd, path)
	// No credentials are configured
	require.Error(t, err)
	assert.Nil(t, cfg)

	t.Setenv("TCGSCRAPER_AUTH_EMAIL", "ash@example.com")
	t.Setenv("TCGSCRAPER_AUTH_PASSWORD", "pikachu")

	cfg, err = loadConfig(cmd, path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Pages.Start)
	assert.Equal(t, 9, cfg.Pages.End)
	assert.Equal(t, "from-flag.xlsx", cfg.Output.Path)
}
