package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/grantline/grantline/pkg/httputil"
	"github.com/grantline/grantline/pkg/proposal"
)

const (
	fetchTimeout    = 10 * time.Second
	fetchAttempts   = 3
	fetchRetryDelay = time.Second
)

var (
	// ErrNotFound is returned when the remote resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures: timeouts, connection
	// errors, and non-OK status codes.
	ErrNetwork = errors.New("network error")
)

// Fetcher retrieves raw rows over HTTP with response caching and
// automatic retries. Server errors and rate limits are retried with
// backoff; client errors are permanent.
type Fetcher struct {
	http     *http.Client
	cache    *httputil.Cache
	attempts int
	delay    time.Duration
}

// NewFetcher creates a Fetcher storing responses in cache under the
// "fetch:" namespace. The cache must not be nil.
func NewFetcher(cache *httputil.Cache) *Fetcher {
	return &Fetcher{
		http:     &http.Client{Timeout: fetchTimeout},
		cache:    cache.Namespace("fetch:"),
		attempts: fetchAttempts,
		delay:    fetchRetryDelay,
	}
}

// Fetch retrieves rows from url. The body is parsed as JSON when the
// Content-Type says so or the payload starts with '[', and as CSV
// otherwise. If refresh is true the response cache is bypassed.
//
// Failures are wrapped in [LoadError]; use errors.Is with [ErrNotFound]
// or [ErrNetwork] to distinguish causes.
func (f *Fetcher) Fetch(ctx context.Context, url string, refresh bool) ([]proposal.Row, error) {
	var rows []proposal.Row
	if !refresh {
		if ok, _ := f.cache.Get(url, &rows); ok {
			return rows, nil
		}
	}

	var body []byte
	var contentType string
	err := httputil.Retry(ctx, f.attempts, f.delay, func() error {
		var err error
		body, contentType, err = f.get(ctx, url)
		return err
	})
	if err != nil {
		return nil, &LoadError{Source: url, Err: err}
	}

	rows, err = Parse(body, contentType)
	if err != nil {
		return nil, &LoadError{Source: url, Err: err}
	}

	_ = f.cache.Set(url, rows)
	return rows, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, "", &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
