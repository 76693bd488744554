package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/weft/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "data-feature", cfg.Attributes.Marker)
	assert.Equal(t, "data-feature-ignore", cfg.Attributes.Ignore)
	assert.Equal(t, 0, cfg.Logging.Verbosity)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	// run from a directory with no weft.toml
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "data-feature", cfg.Attributes.Marker)
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weft.toml")
	content := `
[attributes]
marker = "wf"

[logging]
verbosity = 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "wf", cfg.Attributes.Marker)
	// untouched keys keep their defaults
	assert.Equal(t, "data-feature-ignore", cfg.Attributes.Ignore)
	assert.Equal(t, 2, cfg.Logging.Verbosity)
}

func TestLoadProbesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".weft.toml"), []byte(`
[attributes]
marker = "probe"
`), 0644))
	chdir(t, dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "probe", cfg.Attributes.Marker)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weft.toml")
	require.NoError(t, os.WriteFile(path, []byte("[attributes\nmarker ="), 0644))

	_, err := Load(path)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}
