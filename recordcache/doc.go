// Package recordcache implements the deduplicating get-or-fetch cache over a
// document store.
//
// # Overview
//
// Cache[T] mediates between a caller asking for a record by external id and
// two collaborators: a record.Store (durable keyed storage with a unique
// index per kind) and a record.Fetcher (an external lookup invoked only when
// the record is absent). The flow is the classic cache-aside pattern with
// idempotent create semantics:
//
//	lookup -> present: return
//	       -> absent:  fetch -> normalize -> insert
//	                   insert conflict: re-read the concurrent winner
//
// # Concurrency
//
// The cache holds no per-key locks. All mutual exclusion is delegated to the
// store's atomic unique insert: concurrent first-access on a new key may
// fetch redundantly, but exactly one insert wins and every caller receives a
// record with that key. Which caller wins is unspecified and irrelevant.
//
// An optional record.Memoizer (see internal/cacheinfra) layers in-process
// memoization over GetOrFetch. Records are immutable once present, so
// memoization can never serve stale data, and in-flight deduplication means
// concurrent callers in one process usually share a single fetch.
//
// # Error Handling
//
// Only the unique-index conflict is recovered internally. NotFoundError,
// FetchError and StoreError all propagate to the caller unchanged, and
// nothing is retried. A failed insert leaves no partial record.
//
// # Usage
//
//	songs := recordcache.NewSongCache(store)
//	if err := songs.EnsureIndexes(ctx); err != nil { ... }
//
//	rec, err := songs.GetOrFetch(ctx, "abc123", fetchFromYouTube)
//
// For container-style wiring of store, memoizer and both caches, see pkg/di.
package recordcache
