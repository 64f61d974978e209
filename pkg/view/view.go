// Package view owns the mutable application state: the current dataset,
// the pin filter, and the viewport.
//
// State changes only through explicit commands applied with [View.Apply];
// there are no ambient mutations. Loads are guarded by a generation
// counter: every load starts with [View.BeginLoad] and presents its token
// on completion, so a slow load that finishes after a newer one began is
// discarded instead of clobbering current state.
//
// A View is single-owner and not goroutine-safe. Callers that share one
// across goroutines (the HTTP server does) must serialize access.
package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/grantline/grantline/pkg/collab"
	"github.com/grantline/grantline/pkg/pipeline"
	"github.com/grantline/grantline/pkg/proposal"
	"github.com/grantline/grantline/pkg/timeline"
	"github.com/grantline/grantline/pkg/viewport"
)

// Sentinel errors for command application.
var (
	// ErrStaleLoad is returned when a completed load presents a token
	// from before the most recent BeginLoad.
	ErrStaleLoad = errors.New("stale load discarded")

	// ErrNoDataset is returned by queries and filter commands before
	// any dataset has loaded.
	ErrNoDataset = errors.New("no dataset loaded")
)

// LoadToken identifies one in-flight load. Tokens are single-use and
// invalidated by any later BeginLoad.
type LoadToken struct {
	generation uint64
}

// Command is a state transition request. The concrete commands are
// DatasetLoaded, FilterChanged, ViewportChanged, and ViewportReset.
type Command interface {
	isCommand()
}

// DatasetLoaded replaces the proposal set wholesale with freshly loaded
// raw rows. Token must come from the BeginLoad call that started this
// load.
type DatasetLoaded struct {
	Token LoadToken
	Rows  []proposal.Row
}

// FilterChanged pins the sequence to one PI, or clears the pin when
// Pin is empty.
type FilterChanged struct {
	Pin string
}

// ViewportChanged replaces the zoom/pan state. Zoom is clamped into its
// legal range.
type ViewportChanged struct {
	State viewport.State
}

// ViewportReset restores the default zoom and pan.
type ViewportReset struct{}

func (DatasetLoaded) isCommand()   {}
func (FilterChanged) isCommand()   {}
func (ViewportChanged) isCommand() {}
func (ViewportReset) isCommand()   {}

// View is the application state and its transition rules. Projections
// are derived through the pipeline runner so repeated queries hit the
// projection cache.
type View struct {
	runner *pipeline.Runner
	base   pipeline.Options

	generation  uint64
	data        *pipeline.Data
	datasetID   string
	datasetHash string
	pin         string
	vp          viewport.State
}

// New creates a view deriving projections through runner. The base
// options supply everything commands do not control: layout units,
// pixel width, and the palette.
func New(runner *pipeline.Runner, base pipeline.Options) *View {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, nil)
	}
	return &View{
		runner: runner,
		base:   base,
		vp:     viewport.DefaultState(),
	}
}

// BeginLoad registers a new load and returns its token. Any token from
// an earlier BeginLoad becomes stale immediately.
func (v *View) BeginLoad() LoadToken {
	v.generation++
	return LoadToken{generation: v.generation}
}

// Apply executes one command against the current state.
//
// Commands either fully apply or leave state untouched: a failed load
// keeps the previous dataset, and an unknown pin keeps the previous
// filter.
func (v *View) Apply(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case DatasetLoaded:
		return v.applyDatasetLoaded(ctx, c)
	case FilterChanged:
		return v.applyFilterChanged(c)
	case ViewportChanged:
		v.vp = c.State.Clamped()
		return nil
	case ViewportReset:
		v.vp = viewport.DefaultState()
		return nil
	default:
		return fmt.Errorf("unsupported command %T", cmd)
	}
}

func (v *View) applyDatasetLoaded(ctx context.Context, c DatasetLoaded) error {
	if c.Token.generation != v.generation {
		return ErrStaleLoad
	}

	opts := v.base
	data, err := v.runner.Recompute(ctx, c.Rows, opts)
	if err != nil {
		return err
	}

	v.data = data
	v.datasetID = uuid.NewString()
	v.datasetHash = data.Hash()
	// The new roster may not contain the old pin; the viewport persists
	// until an explicit reset.
	v.pin = ""
	return nil
}

func (v *View) applyFilterChanged(c FilterChanged) error {
	if c.Pin == "" {
		v.pin = ""
		return nil
	}
	if v.data == nil {
		return ErrNoDataset
	}
	if !v.data.Index.Has(c.Pin) {
		return fmt.Errorf("%w: %q", pipeline.ErrUnknownPI, c.Pin)
	}
	v.pin = c.Pin
	return nil
}

// Query carries per-request overrides for one projection derivation.
// Nil fields fall back to the view's stored filter and viewport.
type Query struct {
	Pin        *string
	Zoom       *float64
	Pan        *float64
	PixelWidth *float64
}

// Projection derives the positioned view of the current state.
func (v *View) Projection(ctx context.Context) (timeline.Projection, error) {
	return v.ProjectionWith(ctx, Query{})
}

// ProjectionWith derives a projection with per-request overrides. The
// stored state is not mutated; an unknown override pin is reported via
// [pipeline.ErrUnknownPI] without touching the filter.
func (v *View) ProjectionWith(ctx context.Context, q Query) (timeline.Projection, error) {
	if v.data == nil {
		return timeline.Projection{}, ErrNoDataset
	}
	opts := v.base
	opts.Pin = v.pin
	opts.Zoom = v.vp.Zoom
	opts.Pan = v.vp.Pan
	if q.Pin != nil {
		opts.Pin = *q.Pin
	}
	if q.Zoom != nil {
		opts.Zoom = *q.Zoom
	}
	if q.Pan != nil {
		opts.Pan = *q.Pan
	}
	if q.PixelWidth != nil {
		opts.PixelWidth = *q.PixelWidth
	}
	return v.runner.Project(ctx, v.data, opts)
}

// HasDataset reports whether a dataset has loaded.
func (v *View) HasDataset() bool { return v.data != nil }

// Dataset returns the current dataset in wire form.
func (v *View) Dataset() (timeline.Dataset, error) {
	if v.data == nil {
		return timeline.Dataset{}, ErrNoDataset
	}
	return v.data.Wire(), nil
}

// DatasetID returns the identity assigned to the current load. Two loads
// of byte-identical rows still get distinct IDs, so consumers holding a
// projection can tell a replacement apart from a recompute.
func (v *View) DatasetID() string { return v.datasetID }

// DatasetHash returns the content hash of the current dataset, or the
// empty string before any load.
func (v *View) DatasetHash() string { return v.datasetHash }

// Pin returns the active pin filter, empty when unconstrained.
func (v *View) Pin() string { return v.pin }

// Viewport returns the current zoom/pan state.
func (v *View) Viewport() viewport.State { return v.vp }

// PIStat summarizes one PI for roster listings.
type PIStat struct {
	Name      string `json:"name"`
	Proposals int    `json:"proposals"`
	Weight    int    `json:"weight"`
}

// PIs lists every PI in the current dataset with proposal and
// collaboration totals, sorted by name.
func (v *View) PIs() ([]PIStat, error) {
	if v.data == nil {
		return nil, ErrNoDataset
	}
	names := v.data.Index.Names()
	stats := make([]PIStat, 0, len(names))
	for _, name := range names {
		stats = append(stats, PIStat{
			Name:      name,
			Proposals: v.data.Index.Proposals(name),
			Weight:    v.data.Index.Weight(name),
		})
	}
	return stats, nil
}

// Partners lists a PI's collaborators with shared proposal counts,
// strongest first.
func (v *View) Partners(name string) ([]collab.Partner, error) {
	if v.data == nil {
		return nil, ErrNoDataset
	}
	if !v.data.Index.Has(name) {
		return nil, fmt.Errorf("%w: %q", pipeline.ErrUnknownPI, name)
	}
	return v.data.Index.Partners(name), nil
}
