package source

import (
	"errors"
	"strings"
	"testing"

	"github.com/grantline/grantline/pkg/proposal"
)

const sampleCSV = `proposal_no,date_submitted,pi,title,theme,sponsor,credit,first,total
P1,2021-08-17,Alice,Reef Survey,Environment,NSF,0.5,1,2
P1,2021-08-17,Bob,Reef Survey,Environment,NSF,0.5,0,2
P2,03/15/2019,Carol,,,,,,
`

func TestParseCSV(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	if got := rows[0].ProposalID.Text(); got != "P1" {
		t.Errorf("rows[0].ProposalID = %q, want %q", got, "P1")
	}
	if got := rows[0].PI.Text(); got != "Alice" {
		t.Errorf("rows[0].PI = %q, want %q", got, "Alice")
	}
	if rows[0].Credit.Kind != proposal.CellString || rows[0].Credit.Str != "0.5" {
		t.Errorf("rows[0].Credit = %+v, want string cell %q", rows[0].Credit, "0.5")
	}
	if !rows[2].Title.IsEmpty() {
		t.Errorf("rows[2].Title = %+v, want empty cell", rows[2].Title)
	}
	if !rows[2].Credit.IsEmpty() {
		t.Errorf("rows[2].Credit = %+v, want empty cell", rows[2].Credit)
	}
}

func TestParseCSVHeaderVariants(t *testing.T) {
	in := "Proposal No,DATE_SUBMITTED,Pi\nP1,2021-01-01,Alice\n"
	rows, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if got := rows[0].ProposalID.Text(); got != "P1" {
		t.Errorf("ProposalID = %q, want %q", got, "P1")
	}
	if got := rows[0].DateSubmitted.Text(); got != "2021-01-01" {
		t.Errorf("DateSubmitted = %q, want %q", got, "2021-01-01")
	}
}

func TestParseCSVByteOrderMark(t *testing.T) {
	in := "﻿proposal_no,date_submitted,pi\nP1,2021-01-01,Alice\n"
	rows, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if len(rows) != 1 || rows[0].ProposalID.Text() != "P1" {
		t.Errorf("rows = %+v, want one row with proposal P1", rows)
	}
}

func TestParseCSVMissingColumns(t *testing.T) {
	in := "proposal_no,title\nP1,Reef Survey\n"
	_, err := ParseCSV(strings.NewReader(in))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("ParseCSV() error = %v, want ErrMissingColumn", err)
	}
	for _, name := range []string{"date_submitted", "pi"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not name missing column %q", err, name)
		}
	}
}

func TestParseCSVEmptyInput(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("ParseCSV(empty) error = %v, want ErrMissingColumn", err)
	}
}

func TestParseCSVShortRecord(t *testing.T) {
	in := sampleCSV[:strings.Index(sampleCSV, "\n")+1] + "P9,2020-05-01,Dave\n"
	rows, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if got := rows[0].PI.Text(); got != "Dave" {
		t.Errorf("PI = %q, want %q", got, "Dave")
	}
	if !rows[0].Theme.IsEmpty() || !rows[0].Total.IsEmpty() {
		t.Errorf("short record should pad trailing columns with empty cells, got %+v", rows[0])
	}
}
