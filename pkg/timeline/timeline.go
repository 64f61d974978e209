// Package timeline defines the wire formats exchanged between the
// pipeline and its consumers: the normalized Dataset and the positioned
// Projection. Both are plain JSON documents designed for round-trip
// fidelity and deterministic encoding.
package timeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Dataset Serialization API
// =============================================================================

// MarshalDataset converts a dataset to indented JSON bytes. Output is
// deterministic for a given dataset.
func MarshalDataset(d Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDatasetFile writes a dataset to a JSON file.
func WriteDatasetFile(d Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeJSON(f, d)
}

// WriteDataset writes a dataset as JSON to an io.Writer.
func WriteDataset(d Dataset, w io.Writer) error {
	return writeJSON(w, d)
}

// ReadDatasetFile reads a JSON file and returns the decoded dataset.
func ReadDatasetFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDataset(f)
}

// ReadDataset decodes a JSON dataset from an io.Reader.
func ReadDataset(r io.Reader) (Dataset, error) {
	var d Dataset
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Dataset{}, fmt.Errorf("decode: %w", err)
	}
	return d, nil
}

// =============================================================================
// Projection Serialization API
// =============================================================================

// MarshalProjection converts a projection to indented JSON bytes.
func MarshalProjection(p Projection) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteProjectionFile writes a projection to a JSON file.
func WriteProjectionFile(p Projection, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeJSON(f, p)
}

// WriteProjection writes a projection as JSON to an io.Writer.
func WriteProjection(p Projection, w io.Writer) error {
	return writeJSON(w, p)
}

// ReadProjectionFile reads a JSON file and returns the decoded projection.
func ReadProjectionFile(path string) (Projection, error) {
	f, err := os.Open(path)
	if err != nil {
		return Projection{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadProjection(f)
}

// ReadProjection decodes a JSON projection from an io.Reader.
func ReadProjection(r io.Reader) (Projection, error) {
	var p Projection
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Projection{}, fmt.Errorf("decode: %w", err)
	}
	return p, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
