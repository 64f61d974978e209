package timeline

import (
	"fmt"
	"time"

	"github.com/grantline/grantline/pkg/layout"
	"github.com/grantline/grantline/pkg/proposal"
	"github.com/grantline/grantline/pkg/viewport"
)

// DateLayout is the wire format for precise submission dates.
const DateLayout = "2006-01-02"

// =============================================================================
// Dataset - Normalized Proposal Serialization
// =============================================================================

// Dataset is the canonical serialization format for a normalized proposal
// set. Used for API responses, storage, and caching.
//
// Proposals appear in first-seen input order and rejected rows in input
// order, so encoding the same raw rows twice produces identical bytes.
type Dataset struct {
	Proposals []Proposal             `json:"proposals"`
	Rejected  []proposal.RejectedRow `json:"rejected,omitempty"`
}

// Proposal is the wire form of one normalized proposal. Date is set only
// when a precise submission date was resolved.
type Proposal struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Theme   string `json:"theme"`
	Sponsor string `json:"sponsor,omitempty"`
	Year    int    `json:"year"`
	Date    string `json:"date,omitempty"`
	PIs     []PI   `json:"pis"`
}

// PI is one investigator's contribution to a proposal.
type PI struct {
	Name   string  `json:"name"`
	Credit float64 `json:"credit,omitempty"`
	First  float64 `json:"first,omitempty"`
	Total  float64 `json:"total,omitempty"`
}

// FromProposals converts normalized entities into the wire format,
// preserving order.
func FromProposals(proposals []*proposal.Proposal, rejected []proposal.RejectedRow) Dataset {
	d := Dataset{
		Proposals: make([]Proposal, 0, len(proposals)),
		Rejected:  rejected,
	}
	for _, p := range proposals {
		wp := Proposal{
			ID:      p.ID,
			Title:   p.Title,
			Theme:   p.Theme,
			Sponsor: p.Sponsor,
			Year:    p.Year,
			PIs:     make([]PI, 0, len(p.PIs)),
		}
		if p.HasDate() {
			wp.Date = p.Date.Format(DateLayout)
		}
		for _, c := range p.PIs {
			wp.PIs = append(wp.PIs, PI{Name: c.Name, Credit: c.Credit, First: c.First, Total: c.Total})
		}
		d.Proposals = append(d.Proposals, wp)
	}
	return d
}

// ToProposals converts the wire format back into normalized entities.
// Dates must parse and agree with the year field.
func (d Dataset) ToProposals() ([]*proposal.Proposal, error) {
	out := make([]*proposal.Proposal, 0, len(d.Proposals))
	for _, wp := range d.Proposals {
		p := &proposal.Proposal{
			ID:      wp.ID,
			Title:   wp.Title,
			Theme:   wp.Theme,
			Sponsor: wp.Sponsor,
			Year:    wp.Year,
		}
		if wp.Date != "" {
			date, err := time.Parse(DateLayout, wp.Date)
			if err != nil {
				return nil, fmt.Errorf("proposal %s: invalid date %q: %w", wp.ID, wp.Date, err)
			}
			if date.Year() != wp.Year {
				return nil, fmt.Errorf("proposal %s: date %s disagrees with year %d", wp.ID, wp.Date, wp.Year)
			}
			p.Date = date
		}
		for _, c := range wp.PIs {
			p.PIs = append(p.PIs, proposal.PIContribution{Name: c.Name, Credit: c.Credit, First: c.First, Total: c.Total})
		}
		out = append(out, p)
	}
	return out, nil
}

// =============================================================================
// Projection - Positioned View Serialization
// =============================================================================

// Projection is the renderer-facing output: one sequenced, positioned
// view of the dataset under a filter and viewport. It carries everything
// a drawing surface needs and nothing it must compute.
type Projection struct {
	Pinned     string          `json:"pinned,omitempty"`
	Sequence   []string        `json:"sequence"`
	Rows       []layout.Row    `json:"rows"`
	Points     []Point         `json:"points"`
	Height     float64         `json:"height"`
	PixelWidth float64         `json:"pixel_width"`
	Viewport   viewport.State  `json:"viewport"`
	Window     viewport.Window `json:"window"`
	Ticks      []viewport.Tick `json:"ticks"`
	Legend     []LegendEntry   `json:"legend,omitempty"`
}

// Point is one proposal's horizontal position: the fractional year on
// the continuous time axis and the pixel coordinate it maps to under
// the projection's visible window. X can fall outside [0, PixelWidth]
// for proposals beyond the window's edges.
type Point struct {
	ProposalID     string  `json:"proposal_id"`
	FractionalYear float64 `json:"fractional_year"`
	X              float64 `json:"x"`
	Dated          bool    `json:"dated"`
}

// LegendEntry maps one theme to its display color.
type LegendEntry struct {
	Theme string `json:"theme"`
	Color string `json:"color"`
}
