package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] when a cached entry exists but
// has exceeded its time-to-live.
//
// The cached data still exists on disk but is stale. Callers should
// fetch fresh data from the source and update the cache with [Cache.Set].
//
// Use errors.Is to check for this error:
//
//	ok, err := cache.Get("key", &value)
//	if errors.Is(err, httputil.ErrExpired) {
//	    // Fetch fresh data and update cache
//	}
var ErrExpired = errors.New("cache entry expired")

// Cache provides file-based caching of arbitrary JSON-marshalable data.
//
// Each entry is stored as a JSON file whose name is the SHA-256 hash of
// the cache key, so keys can contain URLs or any other characters without
// escaping, and entries from different namespaces cannot collide.
//
// Cache operations are not goroutine-safe; callers sharing one instance
// across goroutines must synchronize. Multiple instances, even in
// different processes, can share a directory safely.
//
// Entries expire by file modification time. A TTL of 0 never expires.
//
// Use [Cache.Namespace] to create scoped views that automatically prefix
// keys:
//
//	fetches := cache.Namespace("fetch:")
//	fetches.Set(url, body) // key becomes "fetch:<url>"
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// NewCache creates a Cache that stores entries in dir with the given TTL.
//
// An empty dir selects the default ~/.cache/grantline/. The directory is
// created with mode 0755 if missing; directory creation is the only
// possible source of failure.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "grantline")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl, prefix: ""}, nil
}

// Dir returns the absolute path to the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the time-to-live for cache entries. Zero means entries
// never expire.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get retrieves a cached value by key and unmarshals it into v.
//
// Return values distinguish four outcomes:
//   - (true, nil): hit; the fresh value was unmarshaled into v.
//   - (false, nil): miss; no entry exists and v is unchanged.
//   - (false, ErrExpired): the entry exists but exceeded its TTL.
//   - (false, other error): I/O or unmarshal failure.
//
// v must be a pointer to a type compatible with json.Unmarshal. Reads
// never modify the cache or refresh modification times.
func (c *Cache) Get(key string, v any) (bool, error) {
	path := c.keyPath(c.prefix + key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return false, ErrExpired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

// Set stores a value in the cache under the given key.
//
// v is marshaled with encoding/json and written to disk, overwriting any
// existing entry and resetting its modification time, which refreshes
// the TTL.
func (c *Cache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(c.prefix+key), data, 0o644)
}

// Namespace returns a view of the cache that prefixes every key.
//
// The returned Cache shares the parent's directory and TTL. Namespaces
// chain:
//
//	cache.Namespace("source:").Namespace("fetch:") // prefix "source:fetch:"
//
// An empty prefix is valid and behaves like the parent.
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{
		dir:    c.dir,
		ttl:    c.ttl,
		prefix: c.prefix + prefix,
	}
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
