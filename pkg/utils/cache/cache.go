package cache

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by Get when a key is absent and no loader could
// provide a value for it.
var ErrCacheMiss = errors.New("cache miss")

// Cache holds computed values keyed by a comparable request key. The analysis
// service uses it to memoize analyzer bundles and comparisons.
type Cache[K comparable, V any] interface {
	Get(ctx context.Context, key K) (*V, error)
	Invalidate(ctx context.Context, key K)
}
