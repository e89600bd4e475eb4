package record

import "context"

// KeySeparator delimits cache key segments produced by CacheKey.
const KeySeparator = "::"

// CacheKey builds the memoization key for a record lookup. Keys are external
// ids and kinds are short literals, so simple joining is stable and readable.
func CacheKey(kind Kind, key string) string {
	return string(kind) + KeySeparator + key
}

// Fetcher retrieves fresh raw data for a key from an external source (e.g. a
// media platform). It is only invoked when the store has no record for the
// key. A nil RawFields result with a nil error is treated as unusable.
type Fetcher func(ctx context.Context, key string) (RawFields, error)

// Store is the document-store contract the cache depends on. Implementations
// must enforce a unique index on the kind's key field so that Insert
// atomically rejects a second record with the same key.
type Store[T Record] interface {
	// FindByKey returns the record with the given key. The bool reports
	// whether a record was found; a miss is not an error.
	FindByKey(ctx context.Context, key string) (T, bool, error)

	// Insert persists a new record and returns it with any store-assigned
	// identifier filled in. A unique-index violation yields a *ConflictError;
	// every other failure yields a *StoreError.
	Insert(ctx context.Context, rec T) (T, error)

	// EnsureIndexes declares the collection's unique key index and the
	// non-unique title index. It is idempotent and must run before the first
	// insert against a fresh store.
	EnsureIndexes(ctx context.Context) error
}

// Memoizer is an optional in-process read-through layer over GetOrFetch.
// Because records are immutable once present, memoizing them is always safe;
// implementations may additionally deduplicate concurrent calls for one key.
type Memoizer interface {
	GetOrFetch(ctx context.Context, key string, fetchFn func(context.Context) (any, error)) (any, error)
}

// Memoize is a type-safe wrapper over Memoizer for concrete record types.
func Memoize[T any](ctx context.Context, m Memoizer, key string, fetchFn func(context.Context) (T, error)) (T, error) {
	result, err := m.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetchFn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}
