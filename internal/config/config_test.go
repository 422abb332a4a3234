package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dpshade/pocket-prompt-panel/internal/errors"
	"github.com/dpshade/pocket-prompt-panel/internal/optimize"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.TagLimit)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.CatalogDir)
	assert.Equal(t, optimize.DefaultTimings(), cfg.Timings())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
catalog_dir = "/srv/prompts"
tag_limit = 3
theme = "light"
osc52 = true

[animation]
analyze_delay = "100ms"
reveal_interval = "5ms"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/prompts", cfg.CatalogDir)
	assert.Equal(t, 3, cfg.TagLimit)
	assert.Equal(t, "light", cfg.Theme)
	assert.True(t, cfg.OSC52)

	timings := cfg.Timings()
	assert.Equal(t, 100*time.Millisecond, timings.Analyze)
	assert.Equal(t, 5*time.Millisecond, timings.Reveal)
	assert.Equal(t, time.Second, timings.Generate, "unset values keep defaults")
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "tag_limit = 3\n")
	t.Setenv("PROMPT_PANEL_TAG_LIMIT", "8")
	t.Setenv("PROMPT_PANEL_ANIMATION_COPIED_DURATION", "3s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.TagLimit)
	assert.Equal(t, 3*time.Second, cfg.Timings().CopyReset)
}

func TestBadDurationsFallBack(t *testing.T) {
	cfg := Default()
	cfg.Animation.AnalyzeDelay = "soon"
	cfg.Animation.RevealInterval = "-5ms"

	timings := cfg.Timings()
	def := optimize.DefaultTimings()
	assert.Equal(t, def.Analyze, timings.Analyze)
	assert.Equal(t, def.Reveal, timings.Reveal)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := Load(writeConfig(t, "tag_limit = 0\n"))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConfigInvalid))

	_, err = Load(writeConfig(t, `theme = "sepia"`))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "tag_limit = [\n"))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConfigInvalid))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "prompts"), expandHome("~/prompts"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
	assert.Equal(t, "", expandHome(""))
}
