package recordcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-media-cache/record"
)

// Cache is the deduplicating write-through cache for one record kind. It sits
// between a caller requesting a record by external id and two collaborators:
// the document store and a caller-supplied fetcher. A missing record is
// fetched and persisted exactly once; the store's unique-insert semantics are
// the only mutual exclusion the cache relies on, so it holds no per-key locks.
type Cache[T record.Record] struct {
	store     record.Store[T]
	normalize record.Normalizer[T]
	memo      record.Memoizer
	clock     func() time.Time
	kind      record.Kind
	stats     *stats
}

// Option configures a Cache.
type Option[T record.Record] func(*Cache[T])

// WithMemoizer adds an in-process read-through layer over GetOrFetch. Safe
// because records are immutable once present; concurrent in-flight calls for
// one key additionally collapse into a single execution.
func WithMemoizer[T record.Record](m record.Memoizer) Option[T] {
	return func(c *Cache[T]) { c.memo = m }
}

// WithClock overrides the time source used for SavedAt. Intended for tests.
func WithClock[T record.Record](now func() time.Time) Option[T] {
	return func(c *Cache[T]) { c.clock = now }
}

// New creates a Cache over the given store. normalize converts raw fetcher
// output into the stored record shape; use record.NormalizeSong or
// record.NormalizeVideo, or see NewSongCache / NewVideoCache.
func New[T record.Record](store record.Store[T], normalize record.Normalizer[T], opts ...Option[T]) *Cache[T] {
	var zero T
	c := &Cache[T]{
		store:     store,
		normalize: normalize,
		clock:     time.Now,
		kind:      zero.RecordKind(),
		stats:     newStats(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewSongCache creates a Cache for song records keyed by youtube_id.
func NewSongCache(store record.Store[record.Song], opts ...Option[record.Song]) *Cache[record.Song] {
	return New(store, record.NormalizeSong, opts...)
}

// NewVideoCache creates a Cache for video records keyed by video_id.
func NewVideoCache(store record.Store[record.Video], opts ...Option[record.Video]) *Cache[record.Video] {
	return New(store, record.NormalizeVideo, opts...)
}

// Kind returns the record kind this cache serves.
func (c *Cache[T]) Kind() record.Kind { return c.kind }

// GetByKey returns the stored record for key. It returns
// *record.NotFoundError when no record exists; it never fetches.
func (c *Cache[T]) GetByKey(ctx context.Context, key string) (T, error) {
	var zero T
	if key == "" {
		return zero, record.ErrEmptyKey
	}

	rec, found, err := c.store.FindByKey(ctx, key)
	if err != nil {
		return zero, err
	}
	if !found {
		c.stats.misses.Inc()
		return zero, &record.NotFoundError{Kind: c.kind, Key: key}
	}

	c.stats.hits.Inc()
	return rec, nil
}

// GetOrFetch returns the stored record for key, fetching and persisting it
// first if absent. The fetcher runs only on a store miss; when two callers
// race on the same new key, the store's unique index collapses their inserts
// to one durable record and the loser transparently receives the winner's.
// A nil fetcher degrades to GetByKey.
func (c *Cache[T]) GetOrFetch(ctx context.Context, key string, fetch record.Fetcher) (T, error) {
	var zero T
	if key == "" {
		return zero, record.ErrEmptyKey
	}
	if fetch == nil {
		return c.GetByKey(ctx, key)
	}

	if c.memo != nil {
		return record.Memoize(ctx, c.memo, record.CacheKey(c.kind, key), func(ctx context.Context) (T, error) {
			return c.getOrFetch(ctx, key, fetch)
		})
	}
	return c.getOrFetch(ctx, key, fetch)
}

func (c *Cache[T]) getOrFetch(ctx context.Context, key string, fetch record.Fetcher) (T, error) {
	var zero T

	rec, found, err := c.store.FindByKey(ctx, key)
	if err != nil {
		return zero, err
	}
	if found {
		c.stats.hits.Inc()
		return rec, nil
	}
	c.stats.misses.Inc()

	raw, err := fetch(ctx, key)
	if err != nil {
		return zero, &record.FetchError{Kind: c.kind, Key: key, Err: err}
	}
	if raw == nil {
		return zero, &record.FetchError{Kind: c.kind, Key: key, Err: errors.New("fetcher returned no data")}
	}
	c.stats.fetches.Inc()

	inserted, err := c.store.Insert(ctx, c.normalize(key, raw, c.clock()))
	if err == nil {
		return inserted, nil
	}
	if !record.IsConflict(err) {
		return zero, err
	}

	// Lost the first-insert race. The winner's record is durable, so a
	// re-read must find it; the redundant fetch above is the accepted cost.
	c.stats.conflicts.Inc()
	winner, found, err := c.store.FindByKey(ctx, key)
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, &record.StoreError{
			Op:  fmt.Sprintf("reread %s %q", c.kind, key),
			Err: errors.New("record missing after unique-index conflict"),
		}
	}
	return winner, nil
}

// EnsureIndexes declares the store's unique key index and title index for
// this cache's kind. Idempotent; call once before cache traffic on a fresh
// store.
func (c *Cache[T]) EnsureIndexes(ctx context.Context) error {
	return c.store.EnsureIndexes(ctx)
}
