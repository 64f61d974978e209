package proposal

import "time"

// DefaultTheme is assigned to proposals whose theme cell is blank.
const DefaultTheme = "Other"

// Row is one raw input record in the canonical input schema. Field names
// follow the source columns: proposal_no, date_submitted, PI, title, theme,
// sponsor, credit, first, total.
type Row struct {
	ProposalID    Cell `json:"proposal_no"`
	DateSubmitted Cell `json:"date_submitted"`
	PI            Cell `json:"pi"`
	Title         Cell `json:"title"`
	Theme         Cell `json:"theme"`
	Sponsor       Cell `json:"sponsor"`
	Credit        Cell `json:"credit"`
	First         Cell `json:"first"`
	Total         Cell `json:"total"`
}

// IsBlank reports whether every cell in the row is empty. Fully blank rows
// are padding, not data, and are skipped without a rejection record.
func (r Row) IsBlank() bool {
	return r.ProposalID.IsEmpty() && r.DateSubmitted.IsEmpty() && r.PI.IsEmpty() &&
		r.Title.IsEmpty() && r.Theme.IsEmpty() && r.Sponsor.IsEmpty() &&
		r.Credit.IsEmpty() && r.First.IsEmpty() && r.Total.IsEmpty()
}

// PIContribution is one investigator's share of a proposal. Contributions
// are owned by exactly one Proposal and are never shared or merged.
type PIContribution struct {
	Name   string  `json:"name"`
	Credit float64 `json:"credit,omitempty"`
	First  float64 `json:"first,omitempty"`
	Total  float64 `json:"total,omitempty"`
}

// Proposal is a deduplicated research proposal. Rows sharing a proposal
// number merge into one Proposal; the first surviving row fixes the
// title, theme, sponsor, and date, and every row appends one contribution.
//
// Year is always within [MinYear, MaxYear] and always agrees with Date
// when a precise date was recovered. Use HasDate to distinguish dated
// proposals from year-only ones; Date is the zero time otherwise.
type Proposal struct {
	ID      string
	Title   string
	Theme   string
	Sponsor string
	Year    int
	Date    time.Time
	PIs     []PIContribution
}

// HasDate reports whether a precise submission date was recovered.
func (p *Proposal) HasDate() bool { return !p.Date.IsZero() }

// Names returns the distinct PI names on this proposal, in first-appearance
// order. Duplicate contributions by the same investigator count once.
func (p *Proposal) Names() []string {
	seen := make(map[string]bool, len(p.PIs))
	names := make([]string, 0, len(p.PIs))
	for _, pi := range p.PIs {
		if !seen[pi.Name] {
			seen[pi.Name] = true
			names = append(names, pi.Name)
		}
	}
	return names
}

// YearExtent returns the minimum and maximum year across proposals.
// ok is false for an empty set.
func YearExtent(proposals []*Proposal) (minYear, maxYear int, ok bool) {
	for _, p := range proposals {
		if !ok {
			minYear, maxYear, ok = p.Year, p.Year, true
			continue
		}
		if p.Year < minYear {
			minYear = p.Year
		}
		if p.Year > maxYear {
			maxYear = p.Year
		}
	}
	return minYear, maxYear, ok
}
