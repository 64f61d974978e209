package pipeline

import (
	"errors"
	"fmt"

	"github.com/grantline/grantline/pkg/collab"
	"github.com/grantline/grantline/pkg/layout"
	"github.com/grantline/grantline/pkg/proposal"
	"github.com/grantline/grantline/pkg/sequence"
	"github.com/grantline/grantline/pkg/timeline"
	"github.com/grantline/grantline/pkg/viewport"
)

// ErrUnknownPI is returned when the pin filter names a PI that appears
// on no proposal in the dataset.
var ErrUnknownPI = errors.New("unknown PI")

// Project derives one positioned view of the dataset: the PI sequence,
// the vertical and horizontal coordinates, the visible window with its
// ticks, and the theme legend.
//
// The function is pure: identical inputs produce identical projections.
// The viewport state is normalized (zoom clamped) before use, and the
// returned projection echoes the normalized state.
func Project(proposals []*proposal.Proposal, ix *collab.Index, opts Options) (timeline.Projection, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return timeline.Projection{}, fmt.Errorf("invalid options: %w", err)
	}
	if len(proposals) == 0 {
		return timeline.Projection{}, proposal.ErrDatasetEmpty
	}
	if opts.Pin != "" && !ix.Has(opts.Pin) {
		return timeline.Projection{}, fmt.Errorf("%w: %q", ErrUnknownPI, opts.Pin)
	}

	seq := sequence.Order(ix, sequence.Options{Pin: opts.Pin})
	positioned := layout.Compute(seq, ix, proposals, opts.LayoutConfig())

	minYear, maxYear, _ := proposal.YearExtent(proposals)
	transform := viewport.NewTransform(minYear, maxYear, opts.PixelWidth)
	state := viewport.State{Zoom: opts.Zoom, Pan: opts.Pan}.Clamped()
	window := transform.Visible(state)

	proj := timeline.Projection{
		Pinned:     opts.Pin,
		Sequence:   seq,
		Rows:       positioned.Rows,
		Points:     projectPoints(positioned.Points, transform, window),
		Height:     positioned.Height,
		PixelWidth: opts.PixelWidth,
		Viewport:   state,
		Window:     window,
		Ticks:      viewport.Ticks(window, state.Zoom),
		Legend:     legendFor(proposals, opts),
	}
	return proj, nil
}

// projectPoints maps the layout's fractional-year coordinates onto the
// visible window's pixel scale.
func projectPoints(points []layout.Point, t viewport.Transform, w viewport.Window) []timeline.Point {
	out := make([]timeline.Point, 0, len(points))
	for _, p := range points {
		out = append(out, timeline.Point{
			ProposalID:     p.ProposalID,
			FractionalYear: p.FractionalYear,
			X:              t.X(w, p.FractionalYear),
			Dated:          p.Dated,
		})
	}
	return out
}

// legendFor resolves a color for every theme present in the dataset.
func legendFor(proposals []*proposal.Proposal, opts Options) []timeline.LegendEntry {
	themes := make([]string, 0, len(proposals))
	for _, p := range proposals {
		themes = append(themes, p.Theme)
	}
	entries := opts.Palette.Resolve(themes)

	legend := make([]timeline.LegendEntry, 0, len(entries))
	for _, e := range entries {
		legend = append(legend, timeline.LegendEntry{Theme: e.Theme, Color: e.Color})
	}
	return legend
}
