package dataset

import (
	"container/list"
	"context"
	"sync"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/eu-gas-report/internal/observability"
)

// CachedLoader wraps a Loader with an in-memory LRU cache. Concurrent loads of
// the same dataset share one read.
type CachedLoader struct {
	inner   Loader
	cache   *lruCache
	group   singleflight.Group
	metrics *observability.Metrics
}

// NewCachedLoader creates a cache decorator around a loader.
func NewCachedLoader(inner Loader, maxEntries int, metrics *observability.Metrics) *CachedLoader {
	return &CachedLoader{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// Load returns the cached dataframe for spec, reading it through the inner
// loader on a miss. Failed loads are not cached.
func (c *CachedLoader) Load(ctx context.Context, spec Spec) (dataframe.DataFrame, error) {
	key := spec.ID + "|" + spec.Name
	if df, ok := c.cache.get(key); ok {
		c.metrics.DatasetCache.WithLabelValues("hit").Inc()
		return df, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		df, err := c.inner.Load(ctx, spec)
		if err != nil {
			return nil, err
		}
		c.cache.put(key, df)
		return df, nil
	})
	if shared {
		c.metrics.DatasetCache.WithLabelValues("shared").Inc()
	} else {
		c.metrics.DatasetCache.WithLabelValues("miss").Inc()
	}
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return v.(dataframe.DataFrame), nil
}

// lruCache is a thread-safe LRU of dataframes keyed by dataset.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List // front is most recently used
	entries    map[string]*list.Element
}

type entry struct {
	key   string
	value dataframe.DataFrame
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) (dataframe.DataFrame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return dataframe.DataFrame{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).value, true
}

func (c *lruCache) put(key string, value dataframe.DataFrame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*entry).value = value
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&entry{key: key, value: value})
	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
