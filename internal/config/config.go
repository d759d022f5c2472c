package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/ncmtag/internal/cover"
)

const appName = "ncmtag"

type Config struct {
	// Directory holding album listings and lyric JSON files for the playlist command.
	CatalogDir string `koanf:"catalog_dir"`

	Cover   CoverConfig   `koanf:"cover"`
	Tagging TaggingConfig `koanf:"tagging"`
	Log     LogConfig     `koanf:"log"`
}

// CoverConfig controls how cover images are prepared before embedding.
type CoverConfig struct {
	Enabled   *bool `koanf:"enabled"`    // resize covers before embedding (default: true)
	MaxWidth  uint  `koanf:"max_width"`  // bounding box width (default: 640)
	MaxHeight uint  `koanf:"max_height"` // bounding box height (default: 640)
	Quality   int   `koanf:"quality"`    // JPEG quality 1-100 (default: 90)
}

// TaggingConfig holds batch tagging settings.
type TaggingConfig struct {
	Workers  int    `koanf:"workers"`  // concurrent files (default: 4)
	Timezone string `koanf:"timezone"` // "Local" or an IANA name (default: "Local")
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `koanf:"level"` // logrus level name (default: "info")
}

// TaggingOptions is the resolved form of TaggingConfig.
type TaggingOptions struct {
	Workers  int
	Location *time.Location
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.CatalogDir != "" {
		cfg.CatalogDir = expandPath(cfg.CatalogDir)
	}

	cfg.Tagging.Timezone = strings.TrimSpace(cfg.Tagging.Timezone)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/ncmtag/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// CoverEnabled reports whether covers are conditioned before embedding.
func (c *Config) CoverEnabled() bool {
	return c.Cover.Enabled == nil || *c.Cover.Enabled
}

// CoverOptions returns the image preparation options with defaults applied.
func (c *Config) CoverOptions() cover.Options {
	opts := cover.DefaultOptions()

	if c.Cover.MaxWidth > 0 {
		opts.MaxWidth = c.Cover.MaxWidth
	}
	if c.Cover.MaxHeight > 0 {
		opts.MaxHeight = c.Cover.MaxHeight
	}
	if c.Cover.Quality >= 1 && c.Cover.Quality <= 100 {
		opts.Quality = c.Cover.Quality
	}

	return opts
}

// TaggingOptions returns the tagging configuration with defaults applied.
// An unknown timezone falls back to the local zone.
func (c *Config) TaggingOptions() TaggingOptions {
	opts := TaggingOptions{
		Workers:  c.Tagging.Workers,
		Location: time.Local,
	}

	if opts.Workers <= 0 || opts.Workers > 64 {
		opts.Workers = 4
	}

	tz := c.Tagging.Timezone
	if tz != "" && !strings.EqualFold(tz, "local") {
		if loc, err := time.LoadLocation(tz); err == nil {
			opts.Location = loc
		}
	}

	return opts
}

// LogLevel returns the configured log level name, "info" when unset.
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return "info"
	}
	return c.Log.Level
}
