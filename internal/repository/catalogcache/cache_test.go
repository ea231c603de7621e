package catalogcache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	domprop "github.com/kailas-cloud/propquery/internal/domain/property"
)

// mockRepo counts Load calls and serves a mutable catalog.
type mockRepo struct {
	mu      sync.Mutex
	entries map[string]domprop.Descriptor
	loads   int
	loadErr error
	onLoad  func(ctx context.Context)
}

func newMockRepo() *mockRepo {
	return &mockRepo{entries: map[string]domprop.Descriptor{"Height": {ID: 0, Type: "wpg"}}}
}

func (m *mockRepo) Save(_ context.Context, name string, d domprop.Descriptor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[name] = d
	return nil
}

func (m *mockRepo) Get(_ context.Context, name string) (domprop.Descriptor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[name], nil
}

func (m *mockRepo) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, name)
	return nil
}

func (m *mockRepo) Load(ctx context.Context) (domprop.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.onLoad != nil {
		m.onLoad(ctx)
	}
	if err := ctx.Err(); err != nil {
		return domprop.Catalog{}, err
	}
	if m.loadErr != nil {
		return domprop.Catalog{}, m.loadErr
	}
	return domprop.NewCatalog(m.entries), nil
}

func (m *mockRepo) loadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(t *testing.T, inner *mockRepo, ttl time.Duration) (*CachedRepo, *fakeClock, *prometheus.CounterVec) {
	t.Helper()
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_catalog_cache_total"}, []string{"result"})
	c := New(inner, ttl, counter, zap.NewNop())
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	c.now = clock.now
	return c, clock, counter
}

func TestLoad_HitWithinTTL(t *testing.T) {
	inner := newMockRepo()
	c, clock, counter := newTestCache(t, inner, time.Minute)

	for i := 0; i < 3; i++ {
		cat, err := c.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cat.Len() != 1 {
			t.Fatalf("Len() = %d, want 1", cat.Len())
		}
		clock.t = clock.t.Add(10 * time.Second)
	}

	if inner.loadCount() != 1 {
		t.Errorf("inner loads = %d, want 1", inner.loadCount())
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("hit")); v != 2 {
		t.Errorf("hits = %f, want 2", v)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("miss")); v != 1 {
		t.Errorf("misses = %f, want 1", v)
	}
}

func TestLoad_ExpiresAfterTTL(t *testing.T) {
	inner := newMockRepo()
	c, clock, _ := newTestCache(t, inner, time.Minute)

	_, _ = c.Load(context.Background())
	clock.t = clock.t.Add(time.Minute)
	_, _ = c.Load(context.Background())

	if inner.loadCount() != 2 {
		t.Errorf("inner loads = %d, want 2", inner.loadCount())
	}
}

func TestSaveAndDelete_Invalidate(t *testing.T) {
	inner := newMockRepo()
	c, _, _ := newTestCache(t, inner, time.Hour)
	ctx := context.Background()

	_, _ = c.Load(ctx)
	if err := c.Save(ctx, "Modified", domprop.Descriptor{ID: 12, Type: "dat"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	cat, _ := c.Load(ctx)
	if _, ok := cat.Lookup("Modified"); !ok {
		t.Error("saved property not visible after Save")
	}

	if err := c.Delete(ctx, "Height"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	cat, _ = c.Load(ctx)
	if _, ok := cat.Lookup("Height"); ok {
		t.Error("deleted property still visible after Delete")
	}
	if inner.loadCount() != 3 {
		t.Errorf("inner loads = %d, want 3", inner.loadCount())
	}
}

func TestLoad_ErrorNotCached(t *testing.T) {
	inner := newMockRepo()
	inner.loadErr = errors.New("connection lost")
	c, _, _ := newTestCache(t, inner, time.Hour)

	if _, err := c.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	inner.mu.Lock()
	inner.loadErr = nil
	inner.mu.Unlock()

	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error after recovery: %v", err)
	}
	if inner.loadCount() != 2 {
		t.Errorf("inner loads = %d, want 2", inner.loadCount())
	}
}

func TestLoad_Disabled(t *testing.T) {
	inner := newMockRepo()
	c := New(inner, 0, nil, zap.NewNop())

	_, _ = c.Load(context.Background())
	_, _ = c.Load(context.Background())
	if inner.loadCount() != 2 {
		t.Errorf("inner loads = %d, want 2", inner.loadCount())
	}
}

func TestLoad_Concurrent(t *testing.T) {
	inner := newMockRepo()
	c, _, _ := newTestCache(t, inner, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Load(context.Background()); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := inner.loadCount(); n < 1 || n > 16 {
		t.Errorf("inner loads = %d", n)
	}
	_, _ = c.Load(context.Background())
	before := inner.loadCount()
	_, _ = c.Load(context.Background())
	if inner.loadCount() != before {
		t.Error("warm cache should not reload")
	}
}

func TestLoad_ReloadOutlivesCallerCancel(t *testing.T) {
	inner := newMockRepo()
	c, _, _ := newTestCache(t, inner, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	inner.onLoad = func(context.Context) { cancel() }

	cat, err := c.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 1 {
		t.Errorf("catalog len = %d, want 1", cat.Len())
	}

	inner.onLoad = nil
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := inner.loadCount(); n != 1 {
		t.Errorf("inner loads = %d, want 1 (reload result cached)", n)
	}
}
