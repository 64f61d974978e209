package proposal

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CellKind discriminates the variants a raw input cell can hold.
type CellKind int

const (
	// CellEmpty marks a cell with no value (missing column, blank field, null).
	CellEmpty CellKind = iota
	// CellString holds free text, including date-like strings.
	CellString
	// CellNumber holds a numeric value, including spreadsheet date serials.
	CellNumber
	// CellDate holds a native date value from a typed source.
	CellDate
)

// Cell is a single raw input value. Exactly one variant is meaningful,
// selected by Kind. Having one closed set of variants lets the normalizer
// switch on Kind in a single place instead of type-asserting interface
// values at every call site.
//
// Tabular text sources (CSV) only ever produce CellString and CellEmpty.
// JSON sources additionally produce CellNumber. CellDate is for callers
// that hold typed values already, such as spreadsheet importers or tests.
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
	Date time.Time
}

// String returns a string cell. Blank strings (after trimming) are still
// CellString; emptiness is decided by IsEmpty, not by the constructor.
func String(s string) Cell { return Cell{Kind: CellString, Str: s} }

// Number returns a numeric cell.
func Number(f float64) Cell { return Cell{Kind: CellNumber, Num: f} }

// Date returns a native date cell.
func Date(t time.Time) Cell { return Cell{Kind: CellDate, Date: t} }

// Empty returns an empty cell. The zero Cell is also empty.
func Empty() Cell { return Cell{Kind: CellEmpty} }

// IsEmpty reports whether the cell carries no usable value. A string cell
// containing only whitespace counts as empty.
func (c Cell) IsEmpty() bool {
	switch c.Kind {
	case CellEmpty:
		return true
	case CellString:
		return strings.TrimSpace(c.Str) == ""
	default:
		return false
	}
}

// Text returns the cell's value as display text. Numbers use the shortest
// round-trip representation and dates use YYYY-MM-DD. Empty cells return "".
func (c Cell) Text() string {
	switch c.Kind {
	case CellString:
		return strings.TrimSpace(c.Str)
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellDate:
		return c.Date.Format("2006-01-02")
	default:
		return ""
	}
}

// MarshalJSON encodes the cell as its natural JSON value:
// string, number, RFC 3339 string for dates, or null when empty.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellString:
		return json.Marshal(c.Str)
	case CellNumber:
		return json.Marshal(c.Num)
	case CellDate:
		return json.Marshal(c.Date.Format(time.RFC3339))
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON value into the matching cell variant.
// Strings stay strings even when they look like dates; the normalizer's
// resolution ladder is the single place date text is interpreted.
func (c *Cell) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*c = Empty()
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = String(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("cell must be a string, number, or null: %w", err)
	}
	*c = Number(f)
	return nil
}
