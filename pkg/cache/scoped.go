package cache

// ScopedKeyer wraps a Keyer with a prefix so separate tenants sharing
// one backend get disjoint key spaces. The CLI uses this on the Redis
// backend to keep grantline's keys apart from other applications.
//
// Example usage:
//
//	// Application-scoped keys on a shared backend
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "grantline:")
//
//	// Unscoped keys for a private backend
//	keyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key
// generated by inner. A nil inner uses the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// DatasetKey generates a prefixed key for dataset caching.
func (k *ScopedKeyer) DatasetKey(sourceHash string) string {
	return k.prefix + k.inner.DatasetKey(sourceHash)
}

// ProjectionKey generates a prefixed key for projection caching.
func (k *ScopedKeyer) ProjectionKey(datasetHash string, opts ProjectionKeyOpts) string {
	return k.prefix + k.inner.ProjectionKey(datasetHash, opts)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
