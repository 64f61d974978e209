// Package layout turns an ordered PI sequence into vertical coordinates
// and proposals into horizontal time coordinates.
//
// Vertical spacing is collaboration-aware: neighbors that share proposals
// sit close together (the gap grows with their shared count at a small
// unit), while unrelated neighbors are pushed apart by a large fixed gap.
// Horizontal position is a fractional year: the proposal's year plus the
// elapsed fraction of that year, or mid-year for proposals that only
// resolved a year. Pixel mapping is left to the viewport transform.
package layout

import (
	"sort"
	"time"

	"github.com/grantline/grantline/pkg/collab"
	"github.com/grantline/grantline/pkg/proposal"
)

// Default layout units in pixels.
const (
	// DefaultUnitCollab is the gap contribution per shared proposal
	// between vertical neighbors.
	DefaultUnitCollab = 10.0

	// DefaultUnitDefault is the gap between neighbors that never
	// collaborated.
	DefaultUnitDefault = 100.0

	// DefaultBaseline is the vertical coordinate of the first PI row.
	DefaultBaseline = 60.0

	// DefaultMargin is added below the last row when computing total
	// height.
	DefaultMargin = 60.0

	// DefaultMinHeight floors the total height so tiny rosters still
	// produce a usable canvas.
	DefaultMinHeight = 400.0
)

// Config carries the layout units. The zero value is not usable; start
// from DefaultConfig and override fields as needed.
type Config struct {
	UnitCollab  float64
	UnitDefault float64
	Baseline    float64
	Margin      float64
	MinHeight   float64
}

// DefaultConfig returns the standard units.
func DefaultConfig() Config {
	return Config{
		UnitCollab:  DefaultUnitCollab,
		UnitDefault: DefaultUnitDefault,
		Baseline:    DefaultBaseline,
		Margin:      DefaultMargin,
		MinHeight:   DefaultMinHeight,
	}
}

// Row is one PI's horizontal band: the name and its vertical coordinate.
type Row struct {
	PI string  `json:"pi"`
	Y  float64 `json:"y"`
}

// Point is one proposal's horizontal time coordinate. Dated distinguishes
// precise submission dates from year-only resolutions.
type Point struct {
	ProposalID     string  `json:"proposal_id"`
	FractionalYear float64 `json:"fractional_year"`
	Dated          bool    `json:"dated"`
}

// Layout is the positioned form of one proposal set under one sequence.
type Layout struct {
	Rows   []Row   `json:"rows"`
	Points []Point `json:"points"`
	Height float64 `json:"height"`
}

// Y returns the vertical coordinate for a PI and whether the PI has a row.
func (l *Layout) Y(pi string) (float64, bool) {
	for _, r := range l.Rows {
		if r.PI == pi {
			return r.Y, true
		}
	}
	return 0, false
}

// Compute lays out the sequence vertically and every proposal horizontally.
//
// The first PI sits at cfg.Baseline. Each following gap is the shared
// proposal count with the previous PI times cfg.UnitCollab when the two
// collaborated, and cfg.UnitDefault otherwise, so coordinates strictly
// increase in sequence order. Total height is the last coordinate plus
// cfg.Margin, floored at cfg.MinHeight.
//
// Points come out in render order: proposals with precise dates first,
// ascending by date, then year-only proposals ascending by year; ties
// break by proposal ID so output is deterministic.
func Compute(seq []string, ix *collab.Index, proposals []*proposal.Proposal, cfg Config) Layout {
	var l Layout

	y := cfg.Baseline
	for i, pi := range seq {
		if i > 0 {
			if count := ix.Count(seq[i-1], pi); count > 0 {
				y += float64(count) * cfg.UnitCollab
			} else {
				y += cfg.UnitDefault
			}
		}
		l.Rows = append(l.Rows, Row{PI: pi, Y: y})
	}

	l.Height = cfg.MinHeight
	if len(l.Rows) > 0 {
		if h := l.Rows[len(l.Rows)-1].Y + cfg.Margin; h > l.Height {
			l.Height = h
		}
	}

	l.Points = make([]Point, 0, len(proposals))
	for _, p := range proposals {
		l.Points = append(l.Points, Point{
			ProposalID:     p.ID,
			FractionalYear: FractionalYear(p),
			Dated:          p.HasDate(),
		})
	}
	sortPoints(l.Points, proposals)

	return l
}

// FractionalYear maps a proposal onto the continuous year axis. With a
// precise date it is the year plus the elapsed fraction of that year
// (leap years divide by 366 days of span); without one it is mid-year.
func FractionalYear(p *proposal.Proposal) float64 {
	if !p.HasDate() {
		return float64(p.Year) + 0.5
	}
	year := p.Date.Year()
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	elapsed := p.Date.Sub(start).Seconds()
	span := end.Sub(start).Seconds()
	return float64(year) + elapsed/span
}

// sortPoints orders dated points before undated ones, dated ascending by
// date and undated ascending by year, with the proposal ID as final tie.
func sortPoints(points []Point, proposals []*proposal.Proposal) {
	dates := make(map[string]time.Time, len(proposals))
	years := make(map[string]int, len(proposals))
	for _, p := range proposals {
		years[p.ID] = p.Year
		if p.HasDate() {
			dates[p.ID] = p.Date
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if a.Dated != b.Dated {
			return a.Dated
		}
		if a.Dated {
			da, db := dates[a.ProposalID], dates[b.ProposalID]
			if !da.Equal(db) {
				return da.Before(db)
			}
			return a.ProposalID < b.ProposalID
		}
		if ya, yb := years[a.ProposalID], years[b.ProposalID]; ya != yb {
			return ya < yb
		}
		return a.ProposalID < b.ProposalID
	})
}
