package dataset

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/eu-gas-report/internal/observability"
)

// --- mock for cache tests ---

type countingLoader struct {
	calls atomic.Int64
	delay time.Duration
	err   error
}

func (m *countingLoader) Load(_ context.Context, spec Spec) (dataframe.DataFrame, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.err != nil {
		return dataframe.DataFrame{}, m.err
	}
	return dataframe.LoadRecords([][]string{{"Name"}, {spec.ID}}), nil
}

// --- CachedLoader tests ---

func TestCachedLoader_Hit(t *testing.T) {
	inner := &countingLoader{}
	metrics := observability.NewMetrics()
	cached := NewCachedLoader(inner, 4, metrics)

	df1, err := cached.Load(context.Background(), Spec{ID: "lng", Name: "LNG_EU"})
	require.NoError(t, err)
	df2, err := cached.Load(context.Background(), Spec{ID: "lng", Name: "LNG_EU"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), inner.calls.Load(), "should only call inner once")
	assert.Equal(t, df1.Records(), df2.Records())
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.DatasetCache.WithLabelValues("hit")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.DatasetCache.WithLabelValues("miss")), 1e-9)
}

func TestCachedLoader_DistinctKeys(t *testing.T) {
	inner := &countingLoader{}
	cached := NewCachedLoader(inner, 4, observability.NewMetrics())

	_, err := cached.Load(context.Background(), Spec{ID: "storage", Name: "AGSI_2024-01-20"})
	require.NoError(t, err)
	_, err = cached.Load(context.Background(), Spec{ID: "storage", Name: "AGSI_2024-01-21"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), inner.calls.Load())
}

func TestCachedLoader_ErrorNotCached(t *testing.T) {
	inner := &countingLoader{err: errors.New("disk on fire")}
	cached := NewCachedLoader(inner, 4, observability.NewMetrics())

	_, err := cached.Load(context.Background(), Spec{ID: "lng"})
	require.Error(t, err)
	_, err = cached.Load(context.Background(), Spec{ID: "lng"})
	require.Error(t, err)

	assert.Equal(t, int64(2), inner.calls.Load(), "errors should not be cached")
}

func TestCachedLoader_ConcurrentLoadsShareRead(t *testing.T) {
	inner := &countingLoader{delay: 50 * time.Millisecond}
	cached := NewCachedLoader(inner, 4, observability.NewMetrics())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cached.Load(context.Background(), Spec{ID: "lng", Name: "LNG_EU"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), inner.calls.Load())
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)
	df := dataframe.LoadRecords([][]string{{"Name"}, {"x"}})

	c.put("a", df)
	c.put("b", df)
	c.get("a") // a is now most recent
	c.put("c", df)

	_, okA := c.get("a")
	_, okB := c.get("b")
	_, okC := c.get("c")
	assert.True(t, okA)
	assert.False(t, okB, "least recently used entry should be evicted")
	assert.True(t, okC)
	assert.Equal(t, 2, c.len())
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)
	c.put("a", dataframe.LoadRecords([][]string{{"Name"}, {"old"}}))
	c.put("a", dataframe.LoadRecords([][]string{{"Name"}, {"new"}}))

	got, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, []string{"new"}, got.Col("Name").Records())
	assert.Equal(t, 1, c.len())
}
