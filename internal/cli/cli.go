// Package cli implements the modgraph command-line interface.
//
// This package provides commands for rendering module dependency graphs as
// diagrams, printing the initialization analysis, serving renders over HTTP
// and managing the artifact cache. The CLI is built using cobra and logs via
// the charmbracelet/log library.
//
// # Commands
//
//   - render: Generate flowchart, class, timeline, dot or svg output
//   - analyze: Print initialization phases and module classification
//   - formats: List the available output formats
//   - serve: Run the HTTP render API
//   - cache: Clear or locate the artifact cache
//   - completion: Generate shell completion scripts
//
// # Configuration
//
// Settings are read from modgraph.toml (or --config). Command-line flags
// override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modgraph/pkg/cache"
	"github.com/matzehuels/modgraph/pkg/config"
	"github.com/matzehuels/modgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "modgraph"

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

	// Config is loaded before any subcommand runs.
	Config *config.Config

	// Out receives command output (diagrams, tables). Logs go to Logger.
	Out io.Writer

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, c.Config.Keyer(), c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

// newCache builds the cache selected by the config. A file cache that
// cannot be created degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.Config.Cache.RedisAddr})
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		return rc, nil
	default:
		fc, err := cache.NewFileCache(c.Config.Cache.Dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}
