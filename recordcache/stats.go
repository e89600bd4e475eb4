package recordcache

import "github.com/puzpuzpuz/xsync/v3"

// stats holds the cache's live counters. xsync counters keep the hot path
// free of a shared mutex under concurrent callers.
type stats struct {
	hits      *xsync.Counter
	misses    *xsync.Counter
	fetches   *xsync.Counter
	conflicts *xsync.Counter
}

func newStats() *stats {
	return &stats{
		hits:      xsync.NewCounter(),
		misses:    xsync.NewCounter(),
		fetches:   xsync.NewCounter(),
		conflicts: xsync.NewCounter(),
	}
}

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	// Hits counts lookups answered from the store (or memory) without
	// invoking the fetcher.
	Hits int64

	// Misses counts lookups that found no stored record.
	Misses int64

	// Fetches counts fetcher invocations that returned usable data.
	Fetches int64

	// Conflicts counts lost insert races recovered by re-reading the
	// concurrent winner's record.
	Conflicts int64
}

// Stats returns a snapshot of the cache's counters. Counters are updated
// concurrently, so the snapshot is advisory rather than transactional.
func (c *Cache[T]) Stats() Stats {
	return Stats{
		Hits:      c.stats.hits.Value(),
		Misses:    c.stats.misses.Value(),
		Fetches:   c.stats.fetches.Value(),
		Conflicts: c.stats.conflicts.Value(),
	}
}
