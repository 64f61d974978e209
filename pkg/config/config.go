// Package config loads grantline.toml.
//
// Configuration covers everything the command line does not: layout
// units, the projection pixel width, server address and CORS origins,
// the cache backend, the default data resource, and the palette path.
// Zoom bounds are invariants of the viewport model and are never
// configurable.
//
// Decoding is strict: unknown keys are rejected so typos fail loudly
// instead of silently falling back to defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/grantline/grantline/pkg/layout"
	"github.com/grantline/grantline/pkg/pipeline"
)

// Cache backend names accepted in [cache] backend.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full grantline.toml schema.
type Config struct {
	Layout   LayoutConfig   `toml:"layout"`
	Viewport ViewportConfig `toml:"viewport"`
	Serve    ServeConfig    `toml:"serve"`
	Cache    CacheConfig    `toml:"cache"`
	Data     DataConfig     `toml:"data"`
	Palette  PaletteConfig  `toml:"palette"`
}

// LayoutConfig overrides the vertical layout units.
type LayoutConfig struct {
	UnitCollab  float64 `toml:"unit_collab"`
	UnitDefault float64 `toml:"unit_default"`
	Baseline    float64 `toml:"baseline"`
	Margin      float64 `toml:"margin"`
	MinHeight   float64 `toml:"min_height"`
}

// ViewportConfig overrides projection geometry.
type ViewportConfig struct {
	PixelWidth float64 `toml:"pixel_width"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
}

// DataConfig points at the default rows resource fetched when no file
// argument is given.
type DataConfig struct {
	DefaultResource string `toml:"default_resource"`
}

// PaletteConfig points at the theme color manifest.
type PaletteConfig struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			UnitCollab:  layout.DefaultUnitCollab,
			UnitDefault: layout.DefaultUnitDefault,
			Baseline:    layout.DefaultBaseline,
			Margin:      layout.DefaultMargin,
			MinHeight:   layout.DefaultMinHeight,
		},
		Viewport: ViewportConfig{PixelWidth: pipeline.DefaultPixelWidth},
		Serve:    ServeConfig{Addr: ":8080"},
		Cache:    CacheConfig{Backend: BackendFile},
	}
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "", BackendFile, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("unknown cache backend %q (want file, redis, or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisURL == "" {
		return errors.New("cache backend redis requires redis_url")
	}
	return nil
}

// Options returns pipeline options seeded from the configured layout
// units and pixel width.
func (c Config) Options() pipeline.Options {
	return pipeline.Options{
		PixelWidth:  c.Viewport.PixelWidth,
		UnitCollab:  c.Layout.UnitCollab,
		UnitDefault: c.Layout.UnitDefault,
		Baseline:    c.Layout.Baseline,
		Margin:      c.Layout.Margin,
		MinHeight:   c.Layout.MinHeight,
	}
}

// Parse decodes TOML text over the defaults. Unknown keys are errors.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, err
	}
	if und := md.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the TOML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the configuration. An explicit path must exist; with
// no explicit path the search order is ./grantline.toml, then
// ~/.config/grantline/config.toml, then built-in defaults.
func Discover(explicit string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	return fromSearch(searchPaths())
}

func fromSearch(paths []string) (Config, error) {
	for _, path := range paths {
		cfg, err := Load(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, err
		}
		return cfg, nil
	}
	return Default(), nil
}

func searchPaths() []string {
	paths := []string{"grantline.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "grantline", "config.toml"))
	}
	return paths
}
