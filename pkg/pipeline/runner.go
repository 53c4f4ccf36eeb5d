package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modgraph/pkg/cache"
	"github.com/matzehuels/modgraph/pkg/classify"
	"github.com/matzehuels/modgraph/pkg/graph"
	graphio "github.com/matzehuels/modgraph/pkg/io"
	"github.com/matzehuels/modgraph/pkg/observability"
)

const cacheKeyType = "render"

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL applies to every artifact written; zero means no expiry.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// Load reads a graph file, choosing the decoder by extension.
func (r *Runner) Load(ctx context.Context, path string) (*graph.Graph, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	g, err := graphio.Load(path)
	if err != nil {
		hooks.OnLoadComplete(ctx, path, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, path, g.ModuleCount(), g.EdgeCount(), time.Since(start), nil)

	r.Logger.Debug("loaded graph",
		"path", path,
		"modules", g.ModuleCount(),
		"edges", g.EdgeCount())
	return g, nil
}

// Analyze runs layering and classification with hooks and logging.
func (r *Runner) Analyze(ctx context.Context, g *graph.Graph, kw classify.Keywords) *Analysis {
	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, g.ModuleCount())
	start := time.Now()

	a := Analyze(g, kw)
	hooks.OnAnalyzeComplete(ctx, a.Layers.PhaseCount(), time.Since(start), nil)

	if a.Layers.HasFallback() {
		r.Logger.Warn("modules without a resolvable order placed in final phase",
			"modules", a.Layers.Unordered())
	}
	if len(a.Dangling) > 0 {
		r.Logger.Debug("graph has dangling edges", "count", len(a.Dangling))
	}
	return a
}

// Execute analyzes g and renders every requested format, serving cached
// artifacts where possible.
func (r *Runner) Execute(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	graphData, err := graphio.MarshalJSON(g)
	if err != nil {
		return nil, fmt.Errorf("hash graph: %w", err)
	}

	result := &Result{
		Graph:     g,
		GraphHash: cache.Hash(graphData),
		CacheInfo: CacheInfo{Hits: make(map[string]bool, len(opts.Formats))},
	}
	result.Stats.ModuleCount = g.ModuleCount()
	result.Stats.EdgeCount = g.EdgeCount()

	analyzeStart := time.Now()
	result.Analysis = r.Analyze(ctx, g, opts.Keywords)
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	result.Stats.PhaseCount = result.Analysis.Layers.PhaseCount()

	renderStart := time.Now()
	artifacts, err := r.RenderWithCacheInfo(ctx, g, result.GraphHash, opts, result.CacheInfo.Hits)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"modules", result.Stats.ModuleCount,
		"phases", result.Stats.PhaseCount,
		"cached", result.CacheInfo.AllHit(),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo renders each format in opts, reading and writing the
// cache under graphHash. Per-format hit flags are recorded in hits when it is
// non-nil.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, graphHash string, opts Options, hits map[string]bool) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()

	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		key := r.Keyer.RenderKey(graphHash, opts.KeyOpts(format))
		if !opts.Refresh {
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				r.Logger.Warn("cache read failed", "format", format, "error", err)
			}
			if err == nil && hit {
				cacheHooks.OnCacheHit(ctx, cacheKeyType)
				artifacts[format] = data
				if hits != nil {
					hits[format] = true
				}
				continue
			}
			cacheHooks.OnCacheMiss(ctx, cacheKeyType)
		}
		missing = append(missing, format)
		if hits != nil {
			hits[format] = false
		}
	}

	if len(missing) > 0 {
		sub := opts
		sub.Formats = missing
		rendered, err := Render(ctx, g, sub)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, err
		}
		for format, data := range rendered {
			artifacts[format] = data
			key := r.Keyer.RenderKey(graphHash, opts.KeyOpts(format))
			err := cache.RetryWithBackoff(ctx, func() error {
				return r.Cache.Set(ctx, key, data, r.TTL)
			})
			if err != nil {
				r.Logger.Warn("cache write failed", "format", format, "error", err)
				continue
			}
			cacheHooks.OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
