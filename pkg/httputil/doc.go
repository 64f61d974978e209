// Package httputil provides HTTP utilities for fetching proposal data.
//
// # Overview
//
// This package provides infrastructure shared by every remote source:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/grantline/)
// with configurable TTL. Proposal exports rarely change between runs, so
// caching avoids re-downloading them and keeps offline runs working.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	ok, err := cache.Get("fetch:"+url, &data) // Check cache
//	if !ok {
//	    data = fetchFromSource()
//	    cache.Set("fetch:"+url, data) // Store for later
//	}
//
// Cache keys should be namespaced by source to avoid collisions.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient
// failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Wrap transient errors with [RetryableError] so the loop knows to try
// again:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchOnce(url)
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/grantline/
//   - Default TTL: 24 hours
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `grantline cache clear` or by deleting
// the cache directory.
package httputil
