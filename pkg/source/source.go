// Package source acquires raw proposal rows from local files and HTTP
// resources.
//
// Sources produce [proposal.Row] values and nothing else; interpretation
// of dates, numbers, and identity lives entirely in the normalizer.
// CSV input yields string and empty cells only. JSON input additionally
// yields numeric cells, which is how spreadsheet date serials survive
// the trip.
//
// Acquisition failures are wrapped in [LoadError] so callers can show
// one user-visible message and keep whatever dataset they already have.
package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grantline/grantline/pkg/proposal"
)

// LoadError reports a failed acquisition of raw rows from an external
// resource. It never corrupts previously loaded state; callers surface
// the message and continue with their current dataset.
type LoadError struct {
	Source string // file path or URL
	Err    error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Source, e.Err) }

func (e *LoadError) Unwrap() error { return e.Err }

// LoadFile reads raw rows from a local file, dispatching on the file
// extension: .csv parses as CSV, .json as a JSON row array.
func LoadFile(path string) ([]proposal.Row, error) {
	rows, err := readFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return rows, nil
}

// Parse decodes rows from raw bytes. The payload is treated as JSON
// when contentType says so or when it starts with '[', and as CSV
// otherwise.
func Parse(data []byte, contentType string) ([]proposal.Row, error) {
	if looksJSON(data, contentType) {
		return ParseJSON(data)
	}
	return ParseCSV(bytes.NewReader(data))
}

func looksJSON(body []byte, contentType string) bool {
	if strings.Contains(contentType, "json") {
		return true
	}
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

func readFile(path string) ([]proposal.Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ParseCSV(f)
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported rows file %q (want .csv or .json)", filepath.Base(path))
	}
}
