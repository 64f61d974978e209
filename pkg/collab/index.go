// Package collab builds the pairwise collaboration index that drives
// sequencing and vertical spacing.
//
// The index counts, for every unordered pair of PI names, how many
// proposals the two appear on together. Counts are unweighted: one shared
// proposal contributes exactly 1 regardless of credit splits, and duplicate
// contributions by the same investigator within one proposal count once.
// Alongside pair counts the index accumulates two per-PI totals: the number
// of proposals the PI appears on, and the PI's total collaboration weight
// (the sum of pair counts over all partners).
package collab

import (
	"sort"

	"github.com/grantline/grantline/pkg/proposal"
)

// pairKey is an unordered PI-name pair, normalized so a <= b.
type pairKey struct {
	a, b string
}

func keyFor(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// Index holds symmetric collaboration counts and per-PI totals.
// Build once per proposal set; lookups never mutate it.
type Index struct {
	pairs     map[pairKey]int
	proposals map[string]int
	weight    map[string]int
}

// Build constructs the index from a proposal set. Every unordered pair of
// distinct investigators on a proposal increments that pair's count by 1.
// Proposals with a single investigator contribute no pairs but still count
// toward the investigator's proposal total.
func Build(proposals []*proposal.Proposal) *Index {
	ix := &Index{
		pairs:     make(map[pairKey]int),
		proposals: make(map[string]int),
		weight:    make(map[string]int),
	}

	for _, p := range proposals {
		names := p.Names()
		for _, name := range names {
			ix.proposals[name]++
		}
		for i := 0; i < len(names); i++ {
			for j := i + 1; j < len(names); j++ {
				ix.pairs[keyFor(names[i], names[j])]++
				ix.weight[names[i]]++
				ix.weight[names[j]]++
			}
		}
	}

	return ix
}

// Count returns how many proposals a and b share. It is symmetric in its
// arguments and returns 0 for identical names and for names that never
// co-occur (including names absent from the index).
func (ix *Index) Count(a, b string) int {
	if a == b {
		return 0
	}
	return ix.pairs[keyFor(a, b)]
}

// Proposals returns the number of proposals the named PI appears on.
func (ix *Index) Proposals(name string) int { return ix.proposals[name] }

// Weight returns the PI's total collaboration weight: the sum of pair
// counts over all partners.
func (ix *Index) Weight(name string) int { return ix.weight[name] }

// Has reports whether the named PI appears in the index.
func (ix *Index) Has(name string) bool {
	_, ok := ix.proposals[name]
	return ok
}

// Len returns the number of distinct PIs in the index.
func (ix *Index) Len() int { return len(ix.proposals) }

// Names returns all PI names sorted ascending. The sorted order is the
// canonical iteration order everywhere a deterministic walk is needed.
func (ix *Index) Names() []string {
	names := make([]string, 0, len(ix.proposals))
	for name := range ix.proposals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Partner is one collaborator of a PI together with the shared count.
type Partner struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Partners returns the named PI's collaborators sorted by shared count
// descending, ties by name ascending.
func (ix *Index) Partners(name string) []Partner {
	var out []Partner
	for key, n := range ix.pairs {
		switch name {
		case key.a:
			out = append(out, Partner{Name: key.b, Count: n})
		case key.b:
			out = append(out, Partner{Name: key.a, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// PairCount returns the number of distinct collaborating pairs.
func (ix *Index) PairCount() int { return len(ix.pairs) }
