// Package cachemanager holds the rendered-item cache used by the list.
// Rendering and measuring an item is the expensive part of a layout pass;
// entries are keyed by content and width so a resize or edit misses.
package cachemanager

import (
	"context"
	"time"
)

type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
	Len() int
}
