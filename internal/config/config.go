// Package config provides layered configuration for timestamp.
// Configuration is loaded from the following sources, lowest precedence first:
// embedded defaults → file given with --config → CLI flags
package config

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/config.yaml
var defaultsFS embed.FS

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// BannerConfig controls the centered description line.
type BannerConfig struct {
	Width int    `yaml:"width"`
	Fill  string `yaml:"fill"`

	// Set tracking for merge
	WidthSet bool `yaml:"-"`
}

// CheckpointConfig controls the brackets around the since-last-checkpoint line.
type CheckpointConfig struct {
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
}

// Config holds all configuration settings for timestamp.
type Config struct {
	Banner     BannerConfig     `yaml:"banner"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
	Format     string           `yaml:"format"`
	LogLevel   string           `yaml:"log_level"`

	sources []string
}

// Sources returns the ordered list of sources that contributed to this config.
func (c *Config) Sources() []string {
	return c.sources
}

// FillRune returns the banner fill character.
func (c *Config) FillRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Banner.Fill)
	return r
}

// Load returns the embedded defaults merged with the file at path.
// An empty path skips the file layer. A path that was given but
// cannot be read is an error.
func Load(path string) (*Config, error) {
	cfg, err := loadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load embedded defaults: %w", err)
	}
	cfg.sources = append(cfg.sources, "embedded")

	if path != "" {
		fileCfg, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg.mergeFrom(fileCfg)
		cfg.sources = append(cfg.sources, path)
	}

	return cfg, nil
}

// loadEmbedded loads config from the embedded defaults.
func loadEmbedded() (*Config, error) {
	data, err := defaultsFS.ReadFile("defaults/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded defaults: %w", err)
	}
	return parseConfig(data)
}

// loadFile loads config from a file path.
func loadFile(path string) (*Config, error) {
	s, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if s.IsDir() {
		return nil, fmt.Errorf("'%s' is a directory, not a regular file", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // user's config file
	if err != nil {
		return nil, err
	}
	return parseConfigWithTracking(data)
}

// parseConfig parses YAML config data into a Config struct.
func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// parseConfigWithTracking parses YAML config and tracks which fields were set.
func parseConfigWithTracking(data []byte) (*Config, error) {
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if banner, ok := raw["banner"].(map[string]any); ok {
		if _, ok := banner["width"]; ok {
			cfg.Banner.WidthSet = true
		}
	}

	return cfg, nil
}

// mergeFrom merges non-empty/set values from src into c.
func (c *Config) mergeFrom(src *Config) {
	if src.Banner.WidthSet {
		c.Banner.Width = src.Banner.Width
		c.Banner.WidthSet = true
	}
	if src.Banner.Fill != "" {
		c.Banner.Fill = src.Banner.Fill
	}
	if src.Checkpoint.Open != "" {
		c.Checkpoint.Open = src.Checkpoint.Open
	}
	if src.Checkpoint.Close != "" {
		c.Checkpoint.Close = src.Checkpoint.Close
	}
	if src.Format != "" {
		c.Format = src.Format
	}
	if src.LogLevel != "" {
		c.LogLevel = src.LogLevel
	}
}

// Flags holds CLI flag overrides. Zero values mean "not given", except
// Width which is only applied when WidthSet is true.
type Flags struct {
	Width    int
	WidthSet bool
	Fill     string
	Format   string
	LogLevel string
}

// ApplyCLIFlags applies CLI flag overrides to the config.
// CLI flags have the highest precedence.
func (c *Config) ApplyCLIFlags(f Flags) {
	if f.WidthSet {
		c.Banner.Width = f.Width
		c.Banner.WidthSet = true
		c.sources = append(c.sources, "cli:width")
	}
	if f.Fill != "" {
		c.Banner.Fill = f.Fill
		c.sources = append(c.sources, "cli:fill")
	}
	if f.Format != "" {
		c.Format = f.Format
		c.sources = append(c.sources, "cli:format")
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
		c.sources = append(c.sources, "cli:log-level")
	}
}

// Validate checks that the resolved config is usable.
func (c *Config) Validate() error {
	if c.Banner.Width < 0 {
		return fmt.Errorf("banner width must not be negative, got %d", c.Banner.Width)
	}
	if utf8.RuneCountInString(c.Banner.Fill) != 1 {
		return fmt.Errorf("banner fill must be a single character, got %q", c.Banner.Fill)
	}
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", c.Format, FormatText, FormatJSON)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return nil
}
