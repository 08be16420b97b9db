package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/absence"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "urlaubsplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	// run from an empty directory so no urlaubsplan.yaml is picked up
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 2026, cfg.Input.DefaultYear)
	assert.Equal(t, "absorb", cfg.Consolidate.Duplicates)
	assert.Equal(t, ",", cfg.Output.Delimiter)
	assert.True(t, cfg.Output.BOM)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, int64(20<<20), cfg.Server.MaxUploadBytes())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
input:
  default_year: 2027
consolidate:
  duplicates: split
output:
  delimiter: ";"
  bom: false
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2027, cfg.Input.DefaultYear)
	assert.Equal(t, "utf-8", cfg.Input.XLSCharset)
	assert.Equal(t, "debug", cfg.Log.Level)

	opts := cfg.TransformOptions()
	assert.Equal(t, 2027, opts.DefaultYear)
	assert.Equal(t, absence.DuplicatesSplit, opts.Duplicates)

	csvOpts := cfg.Output.CSVOptions()
	assert.Equal(t, ';', csvOpts.Delimiter)
	assert.False(t, csvOpts.BOM)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "input:\n  default_year: 2027\n")
	t.Setenv("URLAUBSPLAN_INPUT_DEFAULT_YEAR", "2030")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2030, cfg.Input.DefaultYear)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"year too small", func(c *Config) { c.Input.DefaultYear = 1999 }},
		{"year too large", func(c *Config) { c.Input.DefaultYear = 2100 }},
		{"unknown duplicate mode", func(c *Config) { c.Consolidate.Duplicates = "merge" }},
		{"long delimiter", func(c *Config) { c.Output.Delimiter = ";;" }},
		{"empty delimiter", func(c *Config) { c.Output.Delimiter = "" }},
		{"quote delimiter", func(c *Config) { c.Output.Delimiter = `"` }},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadMB = 0 }},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
