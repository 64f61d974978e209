// Package cli implements the grantline command-line interface.
//
// Commands cover the whole pipeline: load normalizes raw proposal rows
// into a dataset, project derives a positioned timeline from it, inspect
// summarizes the roster, and serve exposes the same operations over
// HTTP. All commands support --verbose for debug-level logging and read
// grantline.toml when one is found.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/grantline/grantline/pkg/buildinfo"
	"github.com/grantline/grantline/pkg/cache"
	"github.com/grantline/grantline/pkg/config"
	"github.com/grantline/grantline/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "grantline"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config override; empty means search the
	// default locations.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "grantline",
		Short:        "Grantline lays out research proposal timelines",
		Long:         `Grantline turns raw proposal exports into positioned timeline data: rows are normalized into proposals, PI swimlanes are ordered by collaboration strength, and dated proposals land on a zoomable time axis.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "",
		"config file (default ./grantline.toml, then ~/.config/grantline/config.toml)")

	// Register all subcommands
	root.AddCommand(c.loadCommand())
	root.AddCommand(c.projectCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves the effective configuration for one command run.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Discover(c.configPath)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
// On a shared Redis backend the keys are scoped by application name so
// grantline never collides with other tenants.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cfg.Cache.Backend == config.BackendRedis {
		keyer = cache.NewScopedKeyer(nil, appName+":")
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache selects the cache backend. A file cache that cannot be
// placed degrades to a null cache instead of failing the command; a
// redis backend that cannot be reached is an error, since it was asked
// for explicitly.
func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == config.BackendRedis {
		return cache.NewRedisCache(ctx, cfg.RedisURL)
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/grantline/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Output Helpers
// =============================================================================

// nopCloser wraps an io.Writer with a no-op Close method so os.Stdout
// can stand in for an output file.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path, or stdout when
// the path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
