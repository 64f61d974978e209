package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/grantline/grantline/pkg/proposal"
)

// ErrMissingColumn is returned when the CSV header lacks one of the
// required columns: proposal_no, date_submitted, pi.
var ErrMissingColumn = errors.New("missing required column")

var requiredColumns = []string{"proposal_no", "date_submitted", "pi"}

// ParseCSV reads raw rows from CSV text. Header matching is
// case-insensitive and tolerates spaces in place of underscores, so
// "Proposal No" and "PROPOSAL_NO" both map to proposal_no. Records
// shorter than the header are padded with empty cells.
func ParseCSV(r io.Reader) ([]proposal.Row, error) {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = -1

	header, err := rd.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(requiredColumns, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	var rows []proposal.Row
	for {
		record, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rows: %w", err)
		}
		rows = append(rows, proposal.Row{
			ProposalID:    cols.cell(record, "proposal_no"),
			DateSubmitted: cols.cell(record, "date_submitted"),
			PI:            cols.cell(record, "pi"),
			Title:         cols.cell(record, "title"),
			Theme:         cols.cell(record, "theme"),
			Sponsor:       cols.cell(record, "sponsor"),
			Credit:        cols.cell(record, "credit"),
			First:         cols.cell(record, "first"),
			Total:         cols.cell(record, "total"),
		})
	}
	return rows, nil
}

// headerIndex maps canonical column names to record positions.
type headerIndex map[string]int

func indexHeader(header []string) (headerIndex, error) {
	cols := make(headerIndex, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "﻿")
		}
		cols[canonicalColumn(h)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func canonicalColumn(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.ReplaceAll(h, " ", "_")
}

func (hi headerIndex) cell(record []string, name string) proposal.Cell {
	idx, ok := hi[name]
	if !ok || idx >= len(record) {
		return proposal.Empty()
	}
	if strings.TrimSpace(record[idx]) == "" {
		return proposal.Empty()
	}
	return proposal.String(record[idx])
}
