package catalogcache

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	domprop "github.com/kailas-cloud/propquery/internal/domain/property"
)

// repository is the consumer interface for the cached catalog (ISP).
type repository interface {
	Save(ctx context.Context, name string, d domprop.Descriptor) error
	Get(ctx context.Context, name string) (domprop.Descriptor, error)
	Delete(ctx context.Context, name string) error
	Load(ctx context.Context) (domprop.Catalog, error)
}

// CachedRepo keeps the last loaded catalog in memory for ttl.
// Writes through it drop the cached copy; writes by other replicas become
// visible after at most ttl.
type CachedRepo struct {
	inner      repository
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
	now        func() time.Time

	mu       sync.RWMutex
	catalog  domprop.Catalog
	loadedAt time.Time
	valid    bool
	gen      uint64

	group singleflight.Group
}

// New creates a caching decorator. A non-positive ttl disables caching.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(inner repository, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *CachedRepo {
	return &CachedRepo{
		inner:      inner,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
		now:        time.Now,
	}
}

// Load returns the cached catalog or reloads it. Concurrent reloads are collapsed into one;
// the shared reload ignores cancellation of the caller that started it.
func (c *CachedRepo) Load(ctx context.Context) (domprop.Catalog, error) {
	if c.ttl <= 0 {
		return c.inner.Load(ctx)
	}

	if cat, ok := c.cached(); ok {
		c.incCache("hit")
		return cat, nil
	}
	c.incCache("miss")

	v, err, _ := c.group.Do("catalog", func() (any, error) {
		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		cat, err := c.inner.Load(context.WithoutCancel(ctx))
		if err != nil {
			return domprop.Catalog{}, err
		}
		c.store(cat, gen)
		return cat, nil
	})
	if err != nil {
		return domprop.Catalog{}, err
	}
	return v.(domprop.Catalog), nil
}

// Save writes through and drops the cached catalog.
func (c *CachedRepo) Save(ctx context.Context, name string, d domprop.Descriptor) error {
	defer c.Invalidate()
	return c.inner.Save(ctx, name, d)
}

// Get always reads from the backing repository.
func (c *CachedRepo) Get(ctx context.Context, name string) (domprop.Descriptor, error) {
	return c.inner.Get(ctx, name)
}

// Delete writes through and drops the cached catalog.
func (c *CachedRepo) Delete(ctx context.Context, name string) error {
	defer c.Invalidate()
	return c.inner.Delete(ctx, name)
}

// Invalidate drops the cached catalog. A reload already in flight is not stored.
func (c *CachedRepo) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.gen++
	c.mu.Unlock()
	c.logger.Debug("property catalog cache invalidated")
}

func (c *CachedRepo) cached() (domprop.Catalog, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.valid || c.now().Sub(c.loadedAt) >= c.ttl {
		return domprop.Catalog{}, false
	}
	return c.catalog, true
}

func (c *CachedRepo) store(cat domprop.Catalog, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.catalog = cat
	c.loadedAt = c.now()
	c.valid = true
	c.logger.Debug("property catalog cached", zap.Int("properties", cat.Len()))
}

func (c *CachedRepo) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
