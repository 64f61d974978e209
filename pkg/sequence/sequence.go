// Package sequence orders PI names so frequent collaborators land near
// each other on the vertical axis.
//
// Two modes exist. Pinned mode puts one chosen PI first and sorts everyone
// else by affinity to them. Unconstrained mode runs a greedy linear
// arrangement: starting from the most-connected PI, it repeatedly inserts
// the unplaced PI at the position where a proximity score is highest.
//
// Both modes are deterministic: candidate PIs are always iterated in
// sorted name order and every tie has a fixed break, so identical input
// produces identical output across runs.
package sequence

import (
	"sort"

	"github.com/grantline/grantline/pkg/collab"
)

// DefaultMaxExhaustive is the sequence length up to which every insertion
// position is scored. Above it, candidate positions are restricted to a
// window around the best direct collaborator, keeping the arrangement
// near-quadratic for large rosters.
const DefaultMaxExhaustive = 200

// neighborWeight is the score contribution of a direct neighbor; PIs up to
// windowRadius positions away contribute their count divided by distance.
const (
	neighborWeight = 10.0
	windowRadius   = 3
)

// Options configures ordering.
type Options struct {
	// Pin, when set to a PI present in the index, switches to pinned mode.
	Pin string

	// MaxExhaustive overrides DefaultMaxExhaustive. Zero means default.
	MaxExhaustive int
}

// Order returns a permutation of the index's PI names: every name exactly
// once, arranged by collaboration affinity. An empty index yields nil.
// A pin not present in the index falls back to unconstrained mode.
func Order(ix *collab.Index, opts Options) []string {
	names := ix.Names()
	if len(names) == 0 {
		return nil
	}
	if opts.Pin != "" && ix.Has(opts.Pin) {
		return pinnedOrder(ix, opts.Pin, names)
	}

	maxExhaustive := opts.MaxExhaustive
	if maxExhaustive <= 0 {
		maxExhaustive = DefaultMaxExhaustive
	}
	return greedyOrder(ix, names, maxExhaustive)
}

// pinnedOrder puts pin first and sorts the rest by shared count with pin
// descending, then total proposal count descending, then name ascending.
func pinnedOrder(ix *collab.Index, pin string, names []string) []string {
	rest := make([]string, 0, len(names)-1)
	for _, n := range names {
		if n != pin {
			rest = append(rest, n)
		}
	}

	sort.SliceStable(rest, func(i, j int) bool {
		ci, cj := ix.Count(pin, rest[i]), ix.Count(pin, rest[j])
		if ci != cj {
			return ci > cj
		}
		pi, pj := ix.Proposals(rest[i]), ix.Proposals(rest[j])
		if pi != pj {
			return pi > pj
		}
		return rest[i] < rest[j]
	})

	return append([]string{pin}, rest...)
}

// greedyOrder builds the sequence by repeated best-scoring insertion.
// names must be sorted; that order is the tie-break for every choice.
func greedyOrder(ix *collab.Index, names []string, maxExhaustive int) []string {
	seq := make([]string, 0, len(names))
	seq = append(seq, seedName(ix, names))

	remaining := make([]string, 0, len(names)-1)
	for _, n := range names {
		if n != seq[0] {
			remaining = append(remaining, n)
		}
	}

	for len(remaining) > 0 {
		bestScore := 0.0
		bestIdx, bestPos := -1, 0

		for ri, p := range remaining {
			for _, pos := range candidatePositions(ix, seq, p, maxExhaustive) {
				if s := insertionScore(ix, seq, p, pos); s > bestScore {
					bestScore, bestIdx, bestPos = s, ri, pos
				}
			}
		}

		if bestIdx < 0 {
			// Nobody left collaborates with anyone placed: append the
			// remaining PI with the most proposals instead.
			fb := fallbackPick(ix, remaining)
			seq = append(seq, remaining[fb])
			remaining = append(remaining[:fb], remaining[fb+1:]...)
			continue
		}

		seq = append(seq, "")
		copy(seq[bestPos+1:], seq[bestPos:])
		seq[bestPos] = remaining[bestIdx]
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return seq
}

// seedName picks the PI with the highest total collaboration weight.
// names is sorted, so the first maximum wins ties by name.
func seedName(ix *collab.Index, names []string) string {
	seed := names[0]
	for _, n := range names[1:] {
		if ix.Weight(n) > ix.Weight(seed) {
			seed = n
		}
	}
	return seed
}

// insertionScore rates inserting p at position pos of seq. Direct neighbors
// (the PIs that would sit immediately above and below) contribute their
// shared count times neighborWeight; PIs within windowRadius positions
// contribute their count divided by index distance.
func insertionScore(ix *collab.Index, seq []string, p string, pos int) float64 {
	var s float64
	if pos > 0 {
		s += neighborWeight * float64(ix.Count(p, seq[pos-1]))
	}
	if pos < len(seq) {
		s += neighborWeight * float64(ix.Count(p, seq[pos]))
	}
	for i := pos - windowRadius; i <= pos+windowRadius; i++ {
		if i == pos-1 || i == pos || i < 0 || i >= len(seq) {
			continue
		}
		dist := i - pos
		if dist < 0 {
			dist = -dist
		}
		s += float64(ix.Count(p, seq[i])) / float64(dist)
	}
	return s
}

// candidatePositions returns the insertion positions to score for p.
// Short sequences are scored exhaustively. Longer ones only consider a
// window around p's strongest placed collaborator; with no placed
// collaborator every position scores 0, so none are offered and the
// fallback handles p.
func candidatePositions(ix *collab.Index, seq []string, p string, maxExhaustive int) []int {
	if len(seq) <= maxExhaustive {
		positions := make([]int, len(seq)+1)
		for i := range positions {
			positions[i] = i
		}
		return positions
	}

	anchor, best := -1, 0
	for i, placed := range seq {
		if c := ix.Count(p, placed); c > best {
			anchor, best = i, c
		}
	}
	if anchor < 0 {
		return nil
	}

	lo := anchor - windowRadius
	if lo < 0 {
		lo = 0
	}
	hi := anchor + windowRadius + 1
	if hi > len(seq) {
		hi = len(seq)
	}
	positions := make([]int, 0, hi-lo+1)
	for pos := lo; pos <= hi; pos++ {
		positions = append(positions, pos)
	}
	return positions
}

// fallbackPick returns the index of the remaining PI with the most
// proposals. remaining is sorted, so the first maximum wins ties by name.
func fallbackPick(ix *collab.Index, remaining []string) int {
	best := 0
	for i := 1; i < len(remaining); i++ {
		if ix.Proposals(remaining[i]) > ix.Proposals(remaining[best]) {
			best = i
		}
	}
	return best
}
