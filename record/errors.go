package record

import (
	"errors"
	"fmt"
)

// ErrEmptyKey reports a lookup with an empty key. Keys are caller-supplied
// external ids; an empty one is a programming error, not a cache miss.
var ErrEmptyKey = errors.New("record: empty key")

// NotFoundError reports that no record exists for the key and no fetcher was
// supplied to create one.
type NotFoundError struct {
	Kind Kind
	Key  string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record: %s %q not found", e.Kind, e.Key)
}

// FetchError reports that the caller-supplied fetcher failed or returned an
// unusable result. The cache never retries a failed fetch.
type FetchError struct {
	Kind Kind
	Key  string
	Err  error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("record: fetch %s %q: unusable result", e.Kind, e.Key)
	}
	return fmt.Sprintf("record: fetch %s %q: %v", e.Kind, e.Key, e.Err)
}

// Unwrap returns the underlying fetcher error, if any.
func (e *FetchError) Unwrap() error { return e.Err }

// ConflictError reports a unique-index violation on insert: another writer
// persisted the same key first. The cache recovers from it by re-reading, so
// callers should never observe this type.
type ConflictError struct {
	Kind Kind
	Key  string
	Err  error
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("record: %s %q already exists: %v", e.Kind, e.Key, e.Err)
}

// Unwrap returns the driver error that signalled the violation.
func (e *ConflictError) Unwrap() error { return e.Err }

// StoreError reports any store failure other than a unique-index violation.
// These are never swallowed: network faults, validation failures and schema
// problems must surface instead of being mistaken for a duplicate-key race.
type StoreError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("record: store %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying store error.
func (e *StoreError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
