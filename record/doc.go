// Package record defines the domain types and collaborator contracts for the
// media record cache.
//
// # Overview
//
// Two record kinds exist, Song and Video, structurally identical except for
// their key field (youtube_id vs video_id) and the video URL. Both follow the
// same lifecycle: created once on first fetch, never mutated, never deleted.
// The package exports:
//
//   - Song, Video: the stored record shapes, with bun model tags
//   - RawFields: the loosely-typed bag a Fetcher returns, with documented
//     defaulting rules applied by NormalizeSong / NormalizeVideo
//   - Store: the document-store contract (find, atomic unique insert, index
//     setup) consumed by the recordcache package
//   - Fetcher: the caller-supplied external lookup, invoked only on a miss
//   - the error taxonomy: NotFoundError, FetchError, ConflictError, StoreError
//
// # Normalization
//
// Fetcher results are partial and inconsistently named across upstream
// sources. Normalization fills every gap deterministically: the key field
// falls back to the requested key, title to "Unknown Title", singer to
// "singer" then "artist" then "Unknown", thumbnail and url to empty strings.
// A value of the wrong dynamic type counts as absent.
//
// # Error Handling
//
// Only ConflictError is ever recovered internally (by re-reading the record
// the concurrent winner inserted). Every other failure propagates to the
// caller unchanged. Conflict detection is typed and driver-aware; a generic
// insert failure is never assumed to be a duplicate.
//
// # See Also
//
// Package recordcache implements the get-or-fetch flow on top of these
// contracts. Package internal/bunstore provides the bun-backed Store.
package record
