package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/grantline/grantline/pkg/cache"
	"github.com/grantline/grantline/pkg/proposal"
	"github.com/grantline/grantline/pkg/timeline"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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
	}
}

// Execute runs the complete recompute → project pipeline with caching.
func (r *Runner) Execute(ctx context.Context, rows []proposal.Row, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Recompute
	recomputeStart := time.Now()
	data, recomputeHit, err := r.RecomputeWithCacheInfo(ctx, rows, opts)
	if err != nil {
		return nil, fmt.Errorf("recompute: %w", err)
	}
	result.Data = data
	result.DatasetHash = data.Hash()
	result.Stats.RecomputeTime = time.Since(recomputeStart)
	result.Stats.ProposalCount = len(data.Proposals)
	result.Stats.PICount = data.Index.Len()
	result.Stats.RejectCount = len(data.Rejected)
	result.CacheInfo.RecomputeHit = recomputeHit

	r.Logger.Info("normalized proposals",
		"proposals", result.Stats.ProposalCount,
		"pis", result.Stats.PICount,
		"rejected", result.Stats.RejectCount,
		"duration", result.Stats.RecomputeTime)

	// Stage 2: Project
	projectStart := time.Now()
	proj, projectHit, err := r.ProjectWithCacheInfo(ctx, data, opts)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	result.Projection = proj
	result.Stats.ProjectTime = time.Since(projectStart)
	result.CacheInfo.ProjectHit = projectHit

	r.Logger.Info("projected timeline",
		"sequence", len(proj.Sequence),
		"window_start", proj.Window.Start,
		"window_end", proj.Window.End,
		"duration", result.Stats.ProjectTime)

	return result, nil
}

// RecomputeWithCacheInfo normalizes rows with caching and returns cache
// hit info.
func (r *Runner) RecomputeWithCacheInfo(ctx context.Context, rows []proposal.Row, opts Options) (*Data, bool, error) {
	r.applyLogger(&opts)

	// Compute cache key from the raw row content
	rowData, err := json.Marshal(rows)
	if err != nil {
		return nil, false, fmt.Errorf("serialize rows for cache key: %w", err)
	}
	cacheKey := r.Keyer.DatasetKey(cache.Hash(rowData))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if encoded, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if data, err := decodeData(encoded); err == nil {
				return data, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
	}

	// Recompute
	data, err := Recompute(rows)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if !opts.Refresh {
		if encoded, err := timeline.MarshalDataset(data.Wire()); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, encoded, cache.TTLDataset)
		}
	}

	return data, false, nil // Cache miss
}

// Recompute is a convenience wrapper that calls RecomputeWithCacheInfo
// and discards the cache hit info.
func (r *Runner) Recompute(ctx context.Context, rows []proposal.Row, opts Options) (*Data, error) {
	data, _, err := r.RecomputeWithCacheInfo(ctx, rows, opts)
	return data, err
}

// ProjectWithCacheInfo derives a projection with caching and returns
// cache hit info.
func (r *Runner) ProjectWithCacheInfo(ctx context.Context, data *Data, opts Options) (timeline.Projection, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return timeline.Projection{}, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.ProjectionKey(data.Hash(), opts.ProjectionKeyOpts())

	// Try cache first
	if encoded, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		cached, err := timeline.ReadProjection(bytes.NewReader(encoded))
		if err == nil {
			return cached, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	}

	// Project
	proj, err := Project(data.Proposals, data.Index, opts)
	if err != nil {
		return timeline.Projection{}, false, err
	}

	// Cache the result
	if encoded, err := timeline.MarshalProjection(proj); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, encoded, cache.TTLProjection)
	}

	return proj, false, nil // Cache miss
}

// Project is a convenience wrapper that calls ProjectWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Project(ctx context.Context, data *Data, opts Options) (timeline.Projection, error) {
	proj, _, err := r.ProjectWithCacheInfo(ctx, data, opts)
	return proj, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// decodeData rebuilds native pipeline data from a cached wire dataset.
func decodeData(encoded []byte) (*Data, error) {
	wire, err := timeline.ReadDataset(bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	return FromDataset(wire)
}
