package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-media-cache/record"
)

// Handlers carries the per-kind knowledge a Collection cannot derive from the
// record.Record interface alone: table naming for index DDL and how to stamp a
// store-assigned id onto the (value-typed) record.
type Handlers[T record.Record] struct {
	// Table is the collection's table name, matching the model's bun tag.
	Table string

	// KeyColumn is the unique key field's column name.
	KeyColumn string

	// SetID returns a copy of rec with the store-assigned id applied.
	SetID func(rec T, id string) T

	// GetID returns the record's store-assigned id, empty when unset.
	GetID func(rec T) string
}

// Collection implements record.Store for one record kind on top of a bun
// database handle.
type Collection[T record.Record] struct {
	db       *bun.DB
	handlers Handlers[T]
	kind     record.Kind
	newID    func() string
}

// Interface assertions for the two concrete collections.
var (
	_ record.Store[record.Song]  = (*Collection[record.Song])(nil)
	_ record.Store[record.Video] = (*Collection[record.Video])(nil)
)

// NewCollection creates a store collection for a record kind. Most callers
// want NewSongCollection or NewVideoCollection instead.
func NewCollection[T record.Record](db *bun.DB, handlers Handlers[T]) *Collection[T] {
	var zero T
	return &Collection[T]{
		db:       db,
		handlers: handlers,
		kind:     zero.RecordKind(),
		newID:    uuid.NewString,
	}
}

// NewSongCollection returns the songs collection, keyed by youtube_id.
func NewSongCollection(db *bun.DB) *Collection[record.Song] {
	return NewCollection(db, Handlers[record.Song]{
		Table:     "songs",
		KeyColumn: "youtube_id",
		SetID: func(rec record.Song, id string) record.Song {
			rec.ID = id
			return rec
		},
		GetID: func(rec record.Song) string { return rec.ID },
	})
}

// NewVideoCollection returns the videos collection, keyed by video_id.
func NewVideoCollection(db *bun.DB) *Collection[record.Video] {
	return NewCollection(db, Handlers[record.Video]{
		Table:     "videos",
		KeyColumn: "video_id",
		SetID: func(rec record.Video, id string) record.Video {
			rec.ID = id
			return rec
		},
		GetID: func(rec record.Video) string { return rec.ID },
	})
}

// FindByKey implements record.Store. A miss is reported via the bool, not an
// error; real query failures come back as *record.StoreError.
func (c *Collection[T]) FindByKey(ctx context.Context, key string) (T, bool, error) {
	var rec T
	if key == "" {
		return rec, false, record.ErrEmptyKey
	}

	err := c.db.NewSelect().
		Model(&rec).
		Where("? = ?", bun.Ident(c.handlers.KeyColumn), key).
		Limit(1).
		Scan(ctx)
	if err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, &record.StoreError{Op: fmt.Sprintf("find %s", c.kind), Err: err}
	}

	return rec, true, nil
}

// Insert implements record.Store. The record is persisted with a freshly
// assigned id unless it already carries one. A unique-index violation on the
// key column surfaces as *record.ConflictError so the caller can recover by
// re-reading; any other failure is a *record.StoreError.
func (c *Collection[T]) Insert(ctx context.Context, rec T) (T, error) {
	var zero T
	if rec.Key() == "" {
		return zero, record.ErrEmptyKey
	}

	if c.handlers.GetID(rec) == "" {
		rec = c.handlers.SetID(rec, c.newID())
	}

	if _, err := c.db.NewInsert().Model(&rec).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return zero, &record.ConflictError{Kind: c.kind, Key: rec.Key(), Err: err}
		}
		return zero, &record.StoreError{Op: fmt.Sprintf("insert %s", c.kind), Err: err}
	}

	return rec, nil
}

// EnsureIndexes implements record.Store. It creates the backing table when
// missing, the unique index on the key column, and a non-unique title index
// for lookups. Every statement is IF NOT EXISTS, so repeated calls are safe.
func (c *Collection[T]) EnsureIndexes(ctx context.Context) error {
	if _, err := c.db.NewCreateTable().
		Model((*T)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return &record.StoreError{Op: fmt.Sprintf("create table %s", c.handlers.Table), Err: err}
	}

	if _, err := c.db.NewCreateIndex().
		Model((*T)(nil)).
		Index(fmt.Sprintf("%s_%s_uq", c.handlers.Table, c.handlers.KeyColumn)).
		Unique().
		IfNotExists().
		Column(c.handlers.KeyColumn).
		Exec(ctx); err != nil {
		return &record.StoreError{Op: fmt.Sprintf("create unique index %s.%s", c.handlers.Table, c.handlers.KeyColumn), Err: err}
	}

	if _, err := c.db.NewCreateIndex().
		Model((*T)(nil)).
		Index(fmt.Sprintf("%s_title_idx", c.handlers.Table)).
		IfNotExists().
		Column("title").
		Exec(ctx); err != nil {
		return &record.StoreError{Op: fmt.Sprintf("create title index %s", c.handlers.Table), Err: err}
	}

	return nil
}
