package di

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-media-cache/internal/bunstore"
	"github.com/goliatone/go-media-cache/internal/cacheinfra"
	"github.com/goliatone/go-media-cache/record"
	"github.com/goliatone/go-media-cache/recordcache"
)

// Config aggregates the container's settings.
type Config struct {
	// Store selects and configures the document-store backend.
	Store bunstore.Config

	// Memoizer configures the in-process read-through layer. Nil disables
	// memoization and every lookup goes to the store.
	Memoizer *cacheinfra.Config
}

// DefaultConfig returns a Config backed by in-memory SQLite with memoization
// enabled.
func DefaultConfig() Config {
	memo := cacheinfra.DefaultConfig()
	return Config{
		Store:    bunstore.DefaultConfig(),
		Memoizer: &memo,
	}
}

// Container owns the store handle and the two record caches. It replaces the
// global client/connection state of earlier designs: whoever constructs the
// container owns its lifecycle and closes it when done.
type Container struct {
	db     *bun.DB
	songs  *recordcache.Cache[record.Song]
	videos *recordcache.Cache[record.Video]
	config Config
}

// NewContainer opens the store and wires the song and video caches, sharing
// one memoizer between them (cache keys are namespaced by kind).
func NewContainer(cfg Config) (*Container, error) {
	db, err := bunstore.Open(cfg.Store)
	if err != nil {
		return nil, err
	}

	var memo record.Memoizer
	if cfg.Memoizer != nil {
		m, err := cacheinfra.NewSturdycMemoizer(*cfg.Memoizer)
		if err != nil {
			db.Close()
			return nil, err
		}
		memo = m
	}

	var songOpts []recordcache.Option[record.Song]
	var videoOpts []recordcache.Option[record.Video]
	if memo != nil {
		songOpts = append(songOpts, recordcache.WithMemoizer[record.Song](memo))
		videoOpts = append(videoOpts, recordcache.WithMemoizer[record.Video](memo))
	}

	return &Container{
		db:     db,
		songs:  recordcache.NewSongCache(bunstore.NewSongCollection(db), songOpts...),
		videos: recordcache.NewVideoCache(bunstore.NewVideoCollection(db), videoOpts...),
		config: cfg,
	}, nil
}

// NewContainerWithDefaults creates a container using default configuration.
// This is a convenience constructor for examples and tests.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(DefaultConfig())
}

// Songs returns the song cache.
func (c *Container) Songs() *recordcache.Cache[record.Song] { return c.songs }

// Videos returns the video cache.
func (c *Container) Videos() *recordcache.Cache[record.Video] { return c.videos }

// DB exposes the underlying bun handle for advanced use cases.
func (c *Container) DB() *bun.DB { return c.db }

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() Config { return c.config }

// EnsureIndexes sets up both collections' schemas and indexes. Idempotent;
// run it once at startup before any cache traffic against a fresh store.
func (c *Container) EnsureIndexes(ctx context.Context) error {
	if err := c.songs.EnsureIndexes(ctx); err != nil {
		return err
	}
	return c.videos.EnsureIndexes(ctx)
}

// Close releases the store handle.
func (c *Container) Close() error {
	return c.db.Close()
}
