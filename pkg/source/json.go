package source

import (
	"encoding/json"
	"fmt"

	"github.com/grantline/grantline/pkg/proposal"
)

// ParseJSON reads raw rows from a JSON array of row objects. Cell values
// keep their JSON kind: strings stay strings, numbers stay numbers (a
// numeric date_submitted is a spreadsheet serial), and null or absent
// fields become empty cells.
func ParseJSON(data []byte) ([]proposal.Row, error) {
	var rows []proposal.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse rows json: %w", err)
	}
	return rows, nil
}
