package di

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/goliatone/go-media-cache/internal/bunstore"
	"github.com/goliatone/go-media-cache/internal/cacheinfra"
	"github.com/goliatone/go-media-cache/record"
)

// newTestContainer wires a container against an isolated in-memory SQLite
// database and prepares the schema.
func newTestContainer(t *testing.T, memoized bool) *Container {
	t.Helper()

	cfg := Config{
		Store: bunstore.Config{
			Driver: bunstore.DriverSQLite,
			DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name()),
		},
	}
	if memoized {
		memo := cacheinfra.DefaultConfig()
		cfg.Memoizer = &memo
	}

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	t.Cleanup(func() { container.Close() })

	if err := container.EnsureIndexes(context.Background()); err != nil {
		t.Fatalf("EnsureIndexes() failed: %v", err)
	}
	return container
}

func TestEndToEndSongFlow(t *testing.T) {
	container := newTestContainer(t, false)
	ctx := context.Background()
	songs := container.Songs()

	var fetches atomic.Int64
	fetch := func(ctx context.Context, key string) (record.RawFields, error) {
		fetches.Add(1)
		return record.RawFields{"title": "Song A", "artist": "Artist X"}, nil
	}

	// First access: miss, fetch, persist.
	got, err := songs.GetOrFetch(ctx, "abc123", fetch)
	if err != nil {
		t.Fatalf("GetOrFetch() failed: %v", err)
	}
	if got.YouTubeID != "abc123" || got.Title != "Song A" || got.Singer != "Artist X" {
		t.Errorf("GetOrFetch() = %+v, want abc123/Song A/Artist X", got)
	}
	if got.ID == "" {
		t.Error("stored record has no store-assigned id")
	}
	if got.SavedAt.IsZero() {
		t.Error("stored record has zero SavedAt")
	}

	// Second access: store hit, no fetch, identical record.
	again, err := songs.GetOrFetch(ctx, "abc123", fetch)
	if err != nil {
		t.Fatalf("second GetOrFetch() failed: %v", err)
	}
	if again.ID != got.ID || !again.SavedAt.Equal(got.SavedAt) {
		t.Errorf("second GetOrFetch() returned a different record: %+v vs %+v", again, got)
	}
	if fetches.Load() != 1 {
		t.Errorf("fetcher ran %d times, want 1", fetches.Load())
	}

	// GetByKey sees the same record; a missing key is typed.
	byKey, err := songs.GetByKey(ctx, "abc123")
	if err != nil {
		t.Fatalf("GetByKey() failed: %v", err)
	}
	if byKey.ID != got.ID {
		t.Errorf("GetByKey() id = %q, want %q", byKey.ID, got.ID)
	}
	if _, err := songs.GetByKey(ctx, "nope"); !record.IsNotFound(err) {
		t.Errorf("GetByKey(nope) = %v, want NotFoundError", err)
	}
}

func TestEndToEndVideoFlow(t *testing.T) {
	container := newTestContainer(t, false)
	ctx := context.Background()
	videos := container.Videos()

	fetch := func(ctx context.Context, key string) (record.RawFields, error) {
		return record.RawFields{
			"title": "Clip",
			"url":   "https://example.com/watch?v=" + key,
		}, nil
	}

	got, err := videos.GetOrFetch(ctx, "vid1", fetch)
	if err != nil {
		t.Fatalf("GetOrFetch() failed: %v", err)
	}
	if got.VideoID != "vid1" || got.URL != "https://example.com/watch?v=vid1" || got.Type != "video" {
		t.Errorf("GetOrFetch() = %+v", got)
	}

	// Song and video collections are independent: the same key in the song
	// cache is still a miss.
	if _, err := container.Songs().GetByKey(ctx, "vid1"); !record.IsNotFound(err) {
		t.Errorf("Songs().GetByKey(vid1) = %v, want NotFoundError", err)
	}
}

func TestConcurrentFirstAccessPersistsOnce(t *testing.T) {
	container := newTestContainer(t, false)
	ctx := context.Background()
	songs := container.Songs()

	var fetches atomic.Int64
	fetch := func(ctx context.Context, key string) (record.RawFields, error) {
		fetches.Add(1)
		return record.RawFields{"title": "Hot"}, nil
	}

	const callers = 10
	var wg sync.WaitGroup
	results := make([]record.Song, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = songs.GetOrFetch(ctx, "hot", fetch)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d failed: %v", i, errs[i])
		}
		if results[i].YouTubeID != "hot" {
			t.Errorf("caller %d got key %q, want hot", i, results[i].YouTubeID)
		}
	}

	// Every caller must have converged on the single durable record.
	winner, err := songs.GetByKey(ctx, "hot")
	if err != nil {
		t.Fatalf("GetByKey() failed: %v", err)
	}
	for i := range results {
		if results[i].ID != winner.ID {
			t.Errorf("caller %d holds record id %q, want %q", i, results[i].ID, winner.ID)
		}
	}

	count, err := container.DB().NewSelect().Model((*record.Song)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("store holds %d songs, want exactly 1", count)
	}
	if fetches.Load() < 1 {
		t.Error("fetcher never ran")
	}
}

func TestMemoizedContainerServesRepeatsFromMemory(t *testing.T) {
	container := newTestContainer(t, true)
	ctx := context.Background()
	songs := container.Songs()

	var fetches atomic.Int64
	fetch := func(ctx context.Context, key string) (record.RawFields, error) {
		fetches.Add(1)
		return record.RawFields{"title": "Memoized"}, nil
	}

	first, err := songs.GetOrFetch(ctx, "memo", fetch)
	if err != nil {
		t.Fatalf("GetOrFetch() failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		got, err := songs.GetOrFetch(ctx, "memo", fetch)
		if err != nil {
			t.Fatalf("repeat GetOrFetch() failed: %v", err)
		}
		if got.ID != first.ID {
			t.Errorf("repeat %d returned id %q, want %q", i, got.ID, first.ID)
		}
	}

	if fetches.Load() != 1 {
		t.Errorf("fetcher ran %d times, want 1", fetches.Load())
	}

	// Repeat calls were served from memory: only the first call touched the
	// store, so the cache saw exactly one miss and no store hits.
	if s := songs.Stats(); s.Misses != 1 || s.Fetches != 1 {
		t.Errorf("Stats() = %+v, want Misses=1 Fetches=1", s)
	}
}

func TestContainerRejectsInvalidConfig(t *testing.T) {
	if _, err := NewContainer(Config{}); err == nil {
		t.Error("NewContainer(zero Config) succeeded, want store validation error")
	}

	bad := DefaultConfig()
	bad.Memoizer = &cacheinfra.Config{}
	if _, err := NewContainer(bad); err == nil {
		t.Error("NewContainer with zero memoizer config succeeded, want validation error")
	}
}

func BenchmarkGetOrFetch_StoreHit(b *testing.B) {
	cfg := Config{
		Store: bunstore.Config{
			Driver: bunstore.DriverSQLite,
			DSN:    "file:bench_store_hit?mode=memory&cache=shared&_busy_timeout=5000",
		},
	}
	container, err := NewContainer(cfg)
	if err != nil {
		b.Fatalf("NewContainer() failed: %v", err)
	}
	defer container.Close()

	ctx := context.Background()
	if err := container.EnsureIndexes(ctx); err != nil {
		b.Fatalf("EnsureIndexes() failed: %v", err)
	}

	fetch := func(ctx context.Context, key string) (record.RawFields, error) {
		return record.RawFields{"title": "Bench"}, nil
	}
	if _, err := container.Songs().GetOrFetch(ctx, "bench", fetch); err != nil {
		b.Fatalf("seed GetOrFetch() failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := container.Songs().GetOrFetch(ctx, "bench", fetch); err != nil {
			b.Fatalf("GetOrFetch() failed: %v", err)
		}
	}
}

func BenchmarkGetOrFetch_MemoizedHit(b *testing.B) {
	memo := cacheinfra.DefaultConfig()
	cfg := Config{
		Store: bunstore.Config{
			Driver: bunstore.DriverSQLite,
			DSN:    "file:bench_memo_hit?mode=memory&cache=shared&_busy_timeout=5000",
		},
		Memoizer: &memo,
	}
	container, err := NewContainer(cfg)
	if err != nil {
		b.Fatalf("NewContainer() failed: %v", err)
	}
	defer container.Close()

	ctx := context.Background()
	if err := container.EnsureIndexes(ctx); err != nil {
		b.Fatalf("EnsureIndexes() failed: %v", err)
	}

	fetch := func(ctx context.Context, key string) (record.RawFields, error) {
		return record.RawFields{"title": "Bench"}, nil
	}
	if _, err := container.Songs().GetOrFetch(ctx, "bench", fetch); err != nil {
		b.Fatalf("seed GetOrFetch() failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := container.Songs().GetOrFetch(ctx, "bench", fetch); err != nil {
			b.Fatalf("GetOrFetch() failed: %v", err)
		}
	}
}
