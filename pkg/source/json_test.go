package source

import (
	"strings"
	"testing"

	"github.com/grantline/grantline/pkg/proposal"
)

func TestParseJSON(t *testing.T) {
	in := `[
		{"proposal_no": "P1", "date_submitted": 44425, "pi": "Alice"},
		{"proposal_no": "P2", "date_submitted": "2019-03-15", "pi": "Bob", "credit": 0.5}
	]`
	rows, err := ParseJSON([]byte(in))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	if rows[0].DateSubmitted.Kind != proposal.CellNumber || rows[0].DateSubmitted.Num != 44425 {
		t.Errorf("rows[0].DateSubmitted = %+v, want number cell 44425", rows[0].DateSubmitted)
	}
	if rows[1].DateSubmitted.Kind != proposal.CellString {
		t.Errorf("rows[1].DateSubmitted = %+v, want string cell", rows[1].DateSubmitted)
	}
	if rows[1].Credit.Kind != proposal.CellNumber || rows[1].Credit.Num != 0.5 {
		t.Errorf("rows[1].Credit = %+v, want number cell 0.5", rows[1].Credit)
	}
	if !rows[0].Title.IsEmpty() {
		t.Errorf("rows[0].Title = %+v, want empty cell for absent field", rows[0].Title)
	}
}

func TestParseJSONNull(t *testing.T) {
	rows, err := ParseJSON([]byte(`[{"proposal_no": "P1", "date_submitted": null, "pi": "Alice"}]`))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if !rows[0].DateSubmitted.IsEmpty() {
		t.Errorf("DateSubmitted = %+v, want empty cell for null", rows[0].DateSubmitted)
	}
}

func TestParseJSONMalformed(t *testing.T) {
	_, err := ParseJSON([]byte(`{"not": "an array"}`))
	if err == nil {
		t.Fatal("ParseJSON() expected error for non-array input")
	}
	if !strings.Contains(err.Error(), "parse rows json") {
		t.Errorf("error = %q, want parse rows json prefix", err)
	}
}
