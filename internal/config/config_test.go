package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10000, cfg.MaxWords)
	assert.Equal(t, ".", cfg.DocumentPath)
	assert.Equal(t, 50, cfg.PreviewChars)
	assert.Equal(t, "dissonance", cfg.SchemeDefault)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DocumentPath)
	assert.Equal(t, 10000, cfg.MaxWords)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "max_words: 500\npreview_chars: 20\nscheme_default: equity-ratio\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.MaxWords)
	assert.Equal(t, 20, cfg.PreviewChars)
	assert.Equal(t, "equity-ratio", cfg.SchemeDefault)
	assert.Equal(t, dir, cfg.DocumentPath)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("max_words: 500\n"), 0o644))
	t.Setenv("INTROSPECT_MAX_WORDS", "42")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.MaxWords)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("max_words: -1\n"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(":\t:"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
