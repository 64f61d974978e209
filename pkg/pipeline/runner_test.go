package pipeline

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/grantline/grantline/pkg/cache"
	"github.com/grantline/grantline/pkg/timeline"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil {
		t.Error("nil cache should default to a null cache")
	}
	if r.Keyer == nil {
		t.Error("nil keyer should default to the standard keyer")
	}
	if r.Logger == nil {
		t.Error("nil logger should default to the package logger")
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	r := NewRunner(fileCache, nil, testLogger())
	defer r.Close()

	first, err := r.Execute(ctx, sampleRows(), Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if first.CacheInfo.RecomputeHit || first.CacheInfo.ProjectHit {
		t.Errorf("first run cache info = %+v, want all misses", first.CacheInfo)
	}
	if first.Stats.ProposalCount != 3 || first.Stats.PICount != 3 {
		t.Errorf("stats = %+v, want 3 proposals, 3 PIs", first.Stats)
	}
	if first.DatasetHash == "" {
		t.Error("Execute() should compute a dataset hash")
	}

	// Second run on the same cache hits both stages and reproduces
	// the projection exactly.
	second, err := r.Execute(ctx, sampleRows(), Options{})
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.RecomputeHit || !second.CacheInfo.ProjectHit {
		t.Errorf("second run cache info = %+v, want all hits", second.CacheInfo)
	}
	if second.DatasetHash != first.DatasetHash {
		t.Errorf("dataset hash changed: %s vs %s", second.DatasetHash, first.DatasetHash)
	}

	a, _ := timeline.MarshalProjection(first.Projection)
	b, _ := timeline.MarshalProjection(second.Projection)
	if !bytes.Equal(a, b) {
		t.Error("cached projection differs from computed projection")
	}
}

func TestRunnerExecuteRefresh(t *testing.T) {
	ctx := context.Background()
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	r := NewRunner(fileCache, nil, testLogger())
	defer r.Close()

	if _, err := r.Execute(ctx, sampleRows(), Options{}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// Refresh bypasses the recompute cache
	res, err := r.Execute(ctx, sampleRows(), Options{Refresh: true})
	if err != nil {
		t.Fatalf("Execute(refresh) error = %v", err)
	}
	if res.CacheInfo.RecomputeHit {
		t.Error("refresh run should not hit the recompute cache")
	}
}

func TestRunnerProjectCacheKeys(t *testing.T) {
	ctx := context.Background()
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	r := NewRunner(fileCache, nil, testLogger())
	defer r.Close()

	data, err := Recompute(sampleRows())
	if err != nil {
		t.Fatalf("Recompute() error = %v", err)
	}

	if _, hit, err := r.ProjectWithCacheInfo(ctx, data, Options{}); err != nil || hit {
		t.Fatalf("first projection = hit %v, err %v, want miss", hit, err)
	}
	if _, hit, err := r.ProjectWithCacheInfo(ctx, data, Options{}); err != nil || !hit {
		t.Errorf("repeat projection = hit %v, err %v, want hit", hit, err)
	}

	// A different pin is a different projection
	if _, hit, err := r.ProjectWithCacheInfo(ctx, data, Options{Pin: "Alice"}); err != nil || hit {
		t.Errorf("pinned projection = hit %v, err %v, want miss", hit, err)
	}
}

func TestRunnerNullCacheNeverHits(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(cache.NewNullCache(), nil, testLogger())
	defer r.Close()

	for i := 0; i < 2; i++ {
		res, err := r.Execute(ctx, sampleRows(), Options{})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if res.CacheInfo.RecomputeHit || res.CacheInfo.ProjectHit {
			t.Errorf("run %d cache info = %+v, want all misses", i, res.CacheInfo)
		}
	}
}
