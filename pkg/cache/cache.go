// Package cache provides pluggable byte caches and the key scheme used
// by the pipeline.
//
// Three backends cover the deployment modes: FileCache for CLI runs,
// RedisCache for shared serving contexts, and NullCache to disable
// caching entirely. Keys are produced by a Keyer so callers never
// assemble key strings by hand, and scoped keyers can isolate tenants
// sharing one backend.
package cache

import (
	"context"
	"time"
)

// Cache entry lifetimes. Datasets change only when the source changes,
// so they live long; projections depend on filter and viewport and are
// cheaper to recompute.
const (
	TTLDataset    = 30 * 24 * time.Hour
	TTLProjection = 7 * 24 * time.Hour
	TTLHTTP       = 24 * time.Hour
)

// Cache is a byte store with per-entry expiry. Get reports a miss with
// hit=false and a nil error; errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer generates cache keys for the pipeline's stages.
type Keyer interface {
	// HTTPKey generates a key for a fetched HTTP response.
	HTTPKey(namespace, key string) string

	// DatasetKey generates a key for a normalized dataset, derived
	// from a hash of the raw source bytes.
	DatasetKey(sourceHash string) string

	// ProjectionKey generates a key for a positioned projection,
	// derived from the dataset hash and every option that changes
	// the projection.
	ProjectionKey(datasetHash string, opts ProjectionKeyOpts) string
}

// ProjectionKeyOpts captures every input besides the dataset itself
// that changes a projection. Two projections with equal opts and equal
// dataset hashes are interchangeable.
type ProjectionKeyOpts struct {
	Pin        string
	Zoom       float64
	Pan        float64
	PixelWidth float64
	Palette    string

	UnitCollab  float64
	UnitDefault float64
	Baseline    float64
	Margin      float64
	MinHeight   float64
}

// DefaultKeyer is the standard key scheme. Dataset and projection keys
// embed a content hash so distinct inputs can never collide.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// DatasetKey generates a key for dataset caching.
func (k *DefaultKeyer) DatasetKey(sourceHash string) string {
	return hashKey("dataset", sourceHash)
}

// ProjectionKey generates a key for projection caching.
func (k *DefaultKeyer) ProjectionKey(datasetHash string, opts ProjectionKeyOpts) string {
	return hashKey("projection", datasetHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
