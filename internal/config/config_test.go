package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pdugen.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
schema = "dis.yaml"
output_dir = "/tmp/out"
package = " dis "
workers = 0
size_methods = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "dis.yaml"), cfg.Schema)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, "dis", cfg.Package)
	assert.Equal(t, 0, cfg.Workers, "explicit zero overrides the default")
	assert.False(t, cfg.SizeMethods)

	def := Default()
	assert.Equal(t, def.Backend, cfg.Backend)
	assert.Equal(t, def.Comments, cfg.Comments)
	assert.Equal(t, def.LogLevel, cfg.LogLevel)
}

func TestLoad_UnknownKey(t *testing.T) {
	_, err := Load(writeConfig(t, "schema = \"a.yaml\"\noutptu_dir = \"x\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outptu_dir")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "workers = \"four\"\n"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	cfg := Default()
	cfg.Schema = ""
	cfg.Backend = " "
	cfg.Workers = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema path is empty")
	assert.Contains(t, err.Error(), "backend is empty")
	assert.Contains(t, err.Error(), "workers must not be negative")

	cfg = Default()
	cfg.OutputDir = ""
	require.Error(t, cfg.Validate())

	cfg.DryRun = true
	require.NoError(t, cfg.Validate())
}
