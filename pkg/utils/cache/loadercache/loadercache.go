package loadercache

import (
	"context"
	"sync"
	"time"

	"github.com/racelap/racelap-ingest-go/log"
	"github.com/racelap/racelap-ingest-go/pkg/utils/cache"
)

// LoaderFunc computes the value for an absent key. The key must carry
// everything the computation needs.
type LoaderFunc[K comparable, V any] func(K) (*V, error)

type Option[K comparable, V any] func(*loaderCache[K, V])

type entry[V any] struct {
	value     *V
	expiresAt time.Time
}

type loaderCache[K comparable, V any] struct {
	mu         sync.Mutex
	entries    map[K]entry[V]
	loader     LoaderFunc[K, V]
	expiration time.Duration
	l          *log.Logger
}

func WithLoader[K comparable, V any](lf LoaderFunc[K, V]) Option[K, V] {
	return func(c *loaderCache[K, V]) {
		c.loader = lf
	}
}

func WithExpiration[K comparable, V any](d time.Duration) Option[K, V] {
	return func(c *loaderCache[K, V]) {
		c.expiration = d
	}
}

func WithLogger[K comparable, V any](l *log.Logger) Option[K, V] {
	return func(c *loaderCache[K, V]) {
		c.l = l
	}
}

// New creates a cache that fills misses through the configured loader.
// Entries expire after the configured duration (default 5 minutes).
func New[K comparable, V any](opts ...Option[K, V]) cache.Cache[K, V] {
	c := &loaderCache[K, V]{
		entries:    make(map[K]entry[V]),
		expiration: 5 * time.Minute,
		l:          log.Default().Named("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *loaderCache[K, V]) Get(ctx context.Context, key K) (*V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok && time.Now().Before(e.expiresAt) {
		return e.value, nil
	}
	delete(c.entries, key)
	if c.loader == nil {
		return nil, cache.ErrCacheMiss
	}
	v, err := c.loader(key)
	if err != nil {
		c.l.Error("cache loader failed", log.Any("key", key), log.ErrorField(err))
		return nil, err
	}
	c.l.Debug("cache entry loaded", log.Any("key", key))
	c.entries[key] = entry[V]{value: v, expiresAt: time.Now().Add(c.expiration)}
	return v, nil
}

func (c *loaderCache[K, V]) Invalidate(ctx context.Context, key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
