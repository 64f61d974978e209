// Package pipeline provides the core timeline pipeline for Grantline.
//
// This package implements the complete recompute → project pipeline used
// by the CLI, the HTTP API, and the interactive view. Centralizing it
// keeps behavior identical across entry points and gives every consumer
// the same caching.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Recompute: Normalize raw rows into deduplicated proposals and
//     build the collaboration index
//  2. Project: Sequence the PIs, lay them out, and derive the visible
//     window, ticks, and legend for one filter and viewport
//
// Recompute depends only on the raw rows; project depends on the
// normalized data plus the filter, viewport, layout, and palette
// options. Each stage can run independently or as part of Execute.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Pin:  "Curie, M.",
//	    Zoom: 2.5,
//	}
//	result, err := runner.Execute(ctx, rows, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	proj := result.Projection
//
// Run individual stages:
//
//	// Recompute only
//	data, err := runner.Recompute(ctx, rows, opts)
//
//	// Project with existing data
//	proj, err := runner.Project(ctx, data, opts)
package pipeline

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/grantline/grantline/pkg/cache"
	"github.com/grantline/grantline/pkg/collab"
	"github.com/grantline/grantline/pkg/layout"
	"github.com/grantline/grantline/pkg/palette"
	"github.com/grantline/grantline/pkg/proposal"
	"github.com/grantline/grantline/pkg/timeline"
	"github.com/grantline/grantline/pkg/viewport"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and View
// =============================================================================

const (
	// DefaultZoom is the reset magnification.
	DefaultZoom = 1.0

	// DefaultPixelWidth is the drawing surface width in pixels assumed
	// when the consumer does not report one.
	DefaultPixelWidth = 960.0
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the timeline pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Filter options
	Pin string `json:"pin,omitempty"` // PI name anchoring the sequence, empty for unconstrained

	// Viewport options
	Zoom       float64 `json:"zoom,omitempty"`
	Pan        float64 `json:"pan,omitempty"` // horizontal offset in pixels
	PixelWidth float64 `json:"pixel_width,omitempty"`

	// Layout options
	UnitCollab  float64 `json:"unit_collab,omitempty"`
	UnitDefault float64 `json:"unit_default,omitempty"`
	Baseline    float64 `json:"baseline,omitempty"`
	Margin      float64 `json:"margin,omitempty"`
	MinHeight   float64 `json:"min_height,omitempty"`

	// Refresh bypasses cached recompute results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger  *log.Logger      `json:"-"`
	Palette *palette.Palette `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Data is the recompute stage output: the normalized proposals, the rows
// that did not survive, and the collaboration index derived from the
// survivors.
type Data struct {
	Proposals []*proposal.Proposal
	Rejected  []proposal.RejectedRow
	Index     *collab.Index
}

// Wire converts the data to its serialization format.
func (d *Data) Wire() timeline.Dataset {
	return timeline.FromProposals(d.Proposals, d.Rejected)
}

// FromDataset rebuilds native pipeline data from its wire form,
// rederiving the collaboration index.
func FromDataset(wire timeline.Dataset) (*Data, error) {
	proposals, err := wire.ToProposals()
	if err != nil {
		return nil, err
	}
	return &Data{
		Proposals: proposals,
		Rejected:  wire.Rejected,
		Index:     collab.Build(proposals),
	}, nil
}

// Hash returns the content hash of the data's wire encoding, used for
// projection cache keys and API responses.
func (d *Data) Hash() string {
	encoded, err := timeline.MarshalDataset(d.Wire())
	if err != nil {
		return ""
	}
	return cache.Hash(encoded)
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Data is the normalized dataset and its collaboration index.
	Data *Data

	// DatasetHash is the content hash of the dataset.
	DatasetHash string

	// Projection is the positioned view under the requested options.
	Projection timeline.Projection

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ProposalCount int
	PICount       int
	RejectCount   int
	RecomputeTime time.Duration
	ProjectTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RecomputeHit bool // Whether normalized data came from cache
	ProjectHit   bool // Whether the projection came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForProject(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetProjectDefaults fills zero-valued projection options. Zoom is
// normalized into the viewport's legal range so equivalent requests
// share cache keys.
func (o *Options) SetProjectDefaults() {
	if o.Zoom == 0 {
		o.Zoom = DefaultZoom
	}
	o.Zoom = viewport.ClampZoom(o.Zoom)
	if o.PixelWidth == 0 {
		o.PixelWidth = DefaultPixelWidth
	}
	if o.UnitCollab == 0 {
		o.UnitCollab = layout.DefaultUnitCollab
	}
	if o.UnitDefault == 0 {
		o.UnitDefault = layout.DefaultUnitDefault
	}
	if o.Baseline == 0 {
		o.Baseline = layout.DefaultBaseline
	}
	if o.Margin == 0 {
		o.Margin = layout.DefaultMargin
	}
	if o.MinHeight == 0 {
		o.MinHeight = layout.DefaultMinHeight
	}
	if o.Palette == nil {
		o.Palette = palette.Default()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForProject validates and sets defaults for projection.
func (o *Options) ValidateForProject() error {
	o.SetProjectDefaults()
	if o.PixelWidth < 0 || math.IsNaN(o.PixelWidth) {
		return fmt.Errorf("pixel_width must be positive, got %v", o.PixelWidth)
	}
	for name, v := range map[string]float64{
		"unit_collab":  o.UnitCollab,
		"unit_default": o.UnitDefault,
		"baseline":     o.Baseline,
		"margin":       o.Margin,
		"min_height":   o.MinHeight,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%s must be positive, got %v", name, v)
		}
	}
	return nil
}

// LayoutConfig returns the layout units selected by these options.
func (o *Options) LayoutConfig() layout.Config {
	return layout.Config{
		UnitCollab:  o.UnitCollab,
		UnitDefault: o.UnitDefault,
		Baseline:    o.Baseline,
		Margin:      o.Margin,
		MinHeight:   o.MinHeight,
	}
}

// ProjectionKeyOpts returns cache key options for the projection stage.
func (o *Options) ProjectionKeyOpts() cache.ProjectionKeyOpts {
	paletteHash := ""
	if o.Palette != nil {
		paletteHash = o.Palette.Fingerprint()
	}
	return cache.ProjectionKeyOpts{
		Pin:         o.Pin,
		Zoom:        o.Zoom,
		Pan:         o.Pan,
		PixelWidth:  o.PixelWidth,
		Palette:     paletteHash,
		UnitCollab:  o.UnitCollab,
		UnitDefault: o.UnitDefault,
		Baseline:    o.Baseline,
		Margin:      o.Margin,
		MinHeight:   o.MinHeight,
	}
}
