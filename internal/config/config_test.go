package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	cfg, err := loadEmbedded()
	require.NoError(t, err)

	assert.Equal(t, 72, cfg.Banner.Width)
	assert.Equal(t, "=", cfg.Banner.Fill)
	assert.Equal(t, '=', cfg.FillRune())
	assert.Equal(t, "(((((", cfg.Checkpoint.Open)
	assert.Equal(t, ")))))", cfg.Checkpoint.Close)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, "error", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"embedded"}, cfg.Sources())
	assert.Equal(t, 72, cfg.Banner.Width)
}

func TestLoad_FileOverridesEmbedded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timestamp.yaml")
	err := os.WriteFile(path, []byte("banner:\n  fill: \"-\"\nformat: json\n"), 0o600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "-", cfg.Banner.Fill)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, 72, cfg.Banner.Width)         // from embedded default
	assert.Equal(t, "(((((", cfg.Checkpoint.Open) // from embedded default
	assert.Equal(t, []string{"embedded", path}, cfg.Sources())
}

func TestLoad_ExplicitZeroWidth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timestamp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("banner:\n  width: 0\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Banner.Width)
	assert.True(t, cfg.Banner.WidthSet)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("banner: [unterminated\n"), 0o600))

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "nope.yaml")},
		{name: "directory", path: dir},
		{name: "invalid yaml", path: bad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.path)
		})
	}
}

func TestApplyCLIFlags(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.ApplyCLIFlags(Flags{Width: 40, WidthSet: true, Fill: "#", Format: FormatJSON, LogLevel: "debug"})

	assert.Equal(t, 40, cfg.Banner.Width)
	assert.Equal(t, '#', cfg.FillRune())
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"embedded", "cli:width", "cli:fill", "cli:format", "cli:log-level"}, cfg.Sources())
}

func TestApplyCLIFlags_Empty(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.ApplyCLIFlags(Flags{Width: 10})

	assert.Equal(t, 72, cfg.Banner.Width, "width without WidthSet is ignored")
	assert.Equal(t, []string{"embedded"}, cfg.Sources())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "multibyte fill", mutate: func(c *Config) { c.Banner.Fill = "─" }},
		{name: "zero width", mutate: func(c *Config) { c.Banner.Width = 0 }},
		{name: "negative width", mutate: func(c *Config) { c.Banner.Width = -1 }, wantErr: "must not be negative"},
		{name: "empty fill", mutate: func(c *Config) { c.Banner.Fill = "" }, wantErr: "single character"},
		{name: "long fill", mutate: func(c *Config) { c.Banner.Fill = "==" }, wantErr: "single character"},
		{name: "unknown format", mutate: func(c *Config) { c.Format = "xml" }, wantErr: "unknown format"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "invalid log level"},
		{name: "upper case log level", mutate: func(c *Config) { c.LogLevel = "DEBUG" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadEmbedded()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
