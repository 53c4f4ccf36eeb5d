// Package config loads modgraph settings from a TOML file.
//
// A config file is optional. When none is found every setting takes its
// default, and settings present in the file override only what they name:
//
//	[classifier]
//	infrastructure = ["config", "database", "cache"]
//	domain         = ["user", "order"]
//
//	[render]
//	show_exports       = true
//	show_services      = true
//	max_service_length = 50
//
//	[timeline]
//	title       = "Boot order"
//	show_counts = true
//
//	[cache]
//	backend    = "file"   # "none", "file" or "redis"
//	dir        = "~/.cache/modgraph"
//	redis_addr = "localhost:6379"
//	ttl        = "24h"
//
// Unknown keys are rejected so typos surface instead of silently falling back
// to defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/modgraph/pkg/cache"
	"github.com/matzehuels/modgraph/pkg/classify"
	"github.com/matzehuels/modgraph/pkg/render"
)

// DefaultFileName is looked up in the working directory when no path is given.
const DefaultFileName = "modgraph.toml"

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config is the full modgraph configuration.
type Config struct {
	Classifier classify.Keywords `toml:"classifier"`
	Render     Render            `toml:"render"`
	Timeline   Timeline          `toml:"timeline"`
	Cache      Cache             `toml:"cache"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// Render holds diagram label settings.
type Render struct {
	ShowExports      bool `toml:"show_exports"`
	ShowServices     bool `toml:"show_services"`
	MaxServiceLength int  `toml:"max_service_length"`
}

// Timeline holds timeline-specific settings.
type Timeline struct {
	Title      string `toml:"title"`
	ShowCounts bool   `toml:"show_counts"`
}

// Cache selects and configures the artifact cache.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`

	// Prefix scopes render keys so several deployments can share a backend.
	Prefix string `toml:"prefix"`
}

// Duration is a time.Duration that decodes from strings like "90m".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	opts := render.DefaultOptions()
	return &Config{
		Classifier: classify.DefaultKeywords(),
		Render: Render{
			ShowExports:      opts.ShowExports,
			ShowServices:     opts.ShowServices,
			MaxServiceLength: opts.MaxServiceLength,
		},
		Timeline: Timeline{
			Title:      opts.Title,
			ShowCounts: opts.ShowCounts,
		},
		Cache: Cache{
			Backend: BackendFile,
			Dir:     DefaultCacheDir(),
			TTL:     Duration{cache.DefaultTTL},
		},
	}
}

// DefaultCacheDir returns the cache directory using the XDG convention
// ($XDG_CACHE_HOME/modgraph, else ~/.cache/modgraph).
func DefaultCacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "modgraph")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "modgraph-cache")
	}
	return filepath.Join(home, ".cache", "modgraph")
}

// Load reads the config at path. An empty path looks for [DefaultFileName]
// in the working directory and falls back to [Default] when it is absent; an
// explicit path that does not exist is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes TOML text on top of [Default] and validates the result.
func Parse(text string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys: %s", ErrInvalid, strings.Join(keys, ", "))
	}
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() error {
	if c.Render.MaxServiceLength < 4 {
		return fmt.Errorf("%w: render.max_service_length must be at least 4, got %d", ErrInvalid, c.Render.MaxServiceLength)
	}
	backends := []string{BackendNone, BackendFile, BackendRedis}
	if !slices.Contains(backends, c.Cache.Backend) {
		return fmt.Errorf("%w: cache.backend must be one of %s, got %q", ErrInvalid, strings.Join(backends, ", "), c.Cache.Backend)
	}
	if c.Cache.Backend == BackendFile && c.Cache.Dir == "" {
		return fmt.Errorf("%w: cache.dir is required for the file backend", ErrInvalid)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return fmt.Errorf("%w: cache.redis_addr is required for the redis backend", ErrInvalid)
	}
	if c.Cache.TTL.Duration < 0 {
		return fmt.Errorf("%w: cache.ttl must not be negative", ErrInvalid)
	}
	return nil
}

// RenderOptions converts the render and timeline sections to [render.Options].
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		ShowExports:      c.Render.ShowExports,
		ShowServices:     c.Render.ShowServices,
		MaxServiceLength: c.Render.MaxServiceLength,
		Title:            c.Timeline.Title,
		ShowCounts:       c.Timeline.ShowCounts,
	}
}

// Keyer returns the render keyer for the cache section, scoped by
// cache.prefix when it is set.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.Prefix)
}

// NewClassifier builds a classifier from the configured keywords.
func (c *Config) NewClassifier() *classify.Classifier {
	return classify.New(c.Classifier)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
