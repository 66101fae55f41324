package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newCountingCache(skip bool) (*ReadThroughCache[string, rendered, string], *int) {
	calls := 0
	fn := func(_ context.Context, text string) (rendered, error) {
		calls++
		if text == "" {
			return rendered{}, errors.New("empty item")
		}
		return rendered{Text: text, Height: 1}, nil
	}
	cache := NewInMemoryCacheManager[string, rendered]("items", DefaultExpiration, DefaultCleanupInterval)
	return NewReadThroughCache(CacheManager[string, rendered](cache), fn, skip), &calls
}

func TestReadThroughCache_ComputesOnce(t *testing.T) {
	rt, calls := newCountingCache(false)

	for range 3 {
		got, err := rt.Get(context.Background(), "k", "Item 1", time.Minute)
		require.NoError(t, err)
		require.Equal(t, "Item 1", got.Text)
	}
	require.Equal(t, 1, *calls)

	hits, misses := rt.Stats()
	require.Equal(t, 2, hits)
	require.Equal(t, 1, misses)
}

func TestReadThroughCache_SkipCache(t *testing.T) {
	rt, calls := newCountingCache(true)

	_, _ = rt.Get(context.Background(), "k", "Item 1", time.Minute)
	_, _ = rt.Get(context.Background(), "k", "Item 1", time.Minute)
	require.Equal(t, 2, *calls)
}

func TestReadThroughCache_ErrorNotCached(t *testing.T) {
	rt, calls := newCountingCache(false)

	_, err := rt.Get(context.Background(), "k", "", time.Minute)
	require.Error(t, err)
	_, err = rt.Get(context.Background(), "k", "", time.Minute)
	require.Error(t, err)
	require.Equal(t, 2, *calls)
}

func TestReadThroughCache_Flush(t *testing.T) {
	rt, calls := newCountingCache(false)
	ctx := context.Background()

	_, _ = rt.Get(ctx, "k", "Item 1", time.Minute)
	require.NoError(t, rt.Flush(ctx))
	_, _ = rt.Get(ctx, "k", "Item 1", time.Minute)
	require.Equal(t, 2, *calls)
}
