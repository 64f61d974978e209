package collab

import (
	"reflect"
	"testing"

	"github.com/grantline/grantline/pkg/proposal"
)

// mkProposal builds a dated proposal with the given investigators.
func mkProposal(id string, names ...string) *proposal.Proposal {
	p := &proposal.Proposal{ID: id, Theme: proposal.DefaultTheme, Year: 2021}
	for _, n := range names {
		p.PIs = append(p.PIs, proposal.PIContribution{Name: n})
	}
	return p
}

func TestIndexSymmetry(t *testing.T) {
	ix := Build([]*proposal.Proposal{
		mkProposal("P1", "Alice", "Bob"),
		mkProposal("P2", "Bob", "Alice"),
		mkProposal("P3", "Alice", "Carol"),
	})

	if got := ix.Count("Alice", "Bob"); got != 2 {
		t.Errorf("Count(Alice, Bob) = %d, want 2", got)
	}
	if ix.Count("Alice", "Bob") != ix.Count("Bob", "Alice") {
		t.Error("Count() is not symmetric")
	}
	if got := ix.Count("Alice", "Alice"); got != 0 {
		t.Errorf("Count(Alice, Alice) = %d, want 0", got)
	}
	if got := ix.Count("Alice", "Nobody"); got != 0 {
		t.Errorf("Count(Alice, Nobody) = %d, want 0", got)
	}
}

func TestIndexPairsWithinProposal(t *testing.T) {
	// Three investigators form three pairs; a lone investigator forms none.
	ix := Build([]*proposal.Proposal{
		mkProposal("P1", "Alice", "Bob", "Carol"),
		mkProposal("P2", "Dave"),
	})

	if got := ix.PairCount(); got != 3 {
		t.Errorf("PairCount() = %d, want 3", got)
	}
	for _, pair := range [][2]string{{"Alice", "Bob"}, {"Alice", "Carol"}, {"Bob", "Carol"}} {
		if got := ix.Count(pair[0], pair[1]); got != 1 {
			t.Errorf("Count(%s, %s) = %d, want 1", pair[0], pair[1], got)
		}
	}
	if got := ix.Proposals("Dave"); got != 1 {
		t.Errorf("Proposals(Dave) = %d, want 1", got)
	}
	if got := ix.Weight("Dave"); got != 0 {
		t.Errorf("Weight(Dave) = %d, want 0", got)
	}
}

func TestIndexDuplicateNamesCountOnce(t *testing.T) {
	p := mkProposal("P1", "Alice", "Bob", "Alice")
	ix := Build([]*proposal.Proposal{p})

	if got := ix.Count("Alice", "Bob"); got != 1 {
		t.Errorf("Count(Alice, Bob) = %d, want 1 (duplicates count once)", got)
	}
	if got := ix.Proposals("Alice"); got != 1 {
		t.Errorf("Proposals(Alice) = %d, want 1", got)
	}
}

func TestIndexTotals(t *testing.T) {
	ix := Build([]*proposal.Proposal{
		mkProposal("P1", "Alice", "Bob"),
		mkProposal("P2", "Alice", "Bob", "Carol"),
		mkProposal("P3", "Alice"),
	})

	if got := ix.Proposals("Alice"); got != 3 {
		t.Errorf("Proposals(Alice) = %d, want 3", got)
	}
	// Alice: 2 with Bob + 1 with Carol.
	if got := ix.Weight("Alice"); got != 3 {
		t.Errorf("Weight(Alice) = %d, want 3", got)
	}
	if got := ix.Weight("Carol"); got != 2 {
		t.Errorf("Weight(Carol) = %d, want 2", got)
	}
}

func TestIndexNamesSorted(t *testing.T) {
	ix := Build([]*proposal.Proposal{
		mkProposal("P1", "Carol", "Alice"),
		mkProposal("P2", "Bob"),
	})

	want := []string{"Alice", "Bob", "Carol"}
	if got := ix.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if ix.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ix.Len())
	}
	if !ix.Has("Bob") || ix.Has("Nobody") {
		t.Error("Has() membership is wrong")
	}
}

func TestIndexPartners(t *testing.T) {
	ix := Build([]*proposal.Proposal{
		mkProposal("P1", "Alice", "Bob"),
		mkProposal("P2", "Alice", "Bob"),
		mkProposal("P3", "Alice", "Carol"),
		mkProposal("P4", "Alice", "Dave"),
	})

	want := []Partner{
		{Name: "Bob", Count: 2},
		{Name: "Carol", Count: 1},
		{Name: "Dave", Count: 1},
	}
	if got := ix.Partners("Alice"); !reflect.DeepEqual(got, want) {
		t.Errorf("Partners(Alice) = %v, want %v", got, want)
	}
	if got := ix.Partners("Nobody"); len(got) != 0 {
		t.Errorf("Partners(Nobody) = %v, want empty", got)
	}
}

func TestIndexEmpty(t *testing.T) {
	ix := Build(nil)
	if ix.Len() != 0 || ix.PairCount() != 0 {
		t.Errorf("empty index has Len=%d PairCount=%d, want 0/0", ix.Len(), ix.PairCount())
	}
	if names := ix.Names(); len(names) != 0 {
		t.Errorf("Names() = %v, want empty", names)
	}
}
