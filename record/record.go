package record

import (
	"time"

	"github.com/uptrace/bun"
)

// Kind identifies a record family. Each kind maps to one keyed collection
// with its own unique key field.
type Kind string

const (
	// KindSong is the record kind for audio tracks keyed by youtube_id.
	KindSong Kind = "song"

	// KindVideo is the record kind for videos keyed by video_id.
	KindVideo Kind = "video"
)

// Default values applied during normalization when the fetcher result is
// missing a field. See Normalize* in rawfields.go.
const (
	DefaultTitle  = "Unknown Title"
	DefaultSinger = "Unknown"
)

// Record is implemented by every stored record type. Key returns the value of
// the kind's unique key field; RecordKind identifies the collection the
// record belongs to.
type Record interface {
	Key() string
	RecordKind() Kind
}

// Song is a stored audio track, keyed by its YouTube id. Once written a Song
// is never mutated: SavedAt is set at first insert and the unique index on
// YouTubeID guarantees at most one row per id.
type Song struct {
	bun.BaseModel `bun:"table:songs"`

	ID        string    `bun:"id,pk" json:"id"`
	YouTubeID string    `bun:"youtube_id,notnull" json:"youtube_id"`
	Title     string    `bun:"title" json:"title"`
	Thumbnail string    `bun:"thumbnail" json:"thumbnail"`
	Singer    string    `bun:"singer" json:"singer"`
	Type      string    `bun:"type" json:"type"`
	SavedAt   time.Time `bun:"saved_at,notnull" json:"saved_at"`
}

// Key returns the song's YouTube id.
func (s Song) Key() string { return s.YouTubeID }

// RecordKind returns KindSong.
func (Song) RecordKind() Kind { return KindSong }

// Video is a stored video, keyed by its video id. Identical lifecycle to
// Song; it additionally carries the playback URL.
type Video struct {
	bun.BaseModel `bun:"table:videos"`

	ID        string    `bun:"id,pk" json:"id"`
	VideoID   string    `bun:"video_id,notnull" json:"video_id"`
	Title     string    `bun:"title" json:"title"`
	Thumbnail string    `bun:"thumbnail" json:"thumbnail"`
	Singer    string    `bun:"singer" json:"singer"`
	URL       string    `bun:"url" json:"url"`
	Type      string    `bun:"type" json:"type"`
	SavedAt   time.Time `bun:"saved_at,notnull" json:"saved_at"`
}

// Key returns the video's id.
func (v Video) Key() string { return v.VideoID }

// RecordKind returns KindVideo.
func (Video) RecordKind() Kind { return KindVideo }

// Interface assertions: both record types satisfy Record by value.
var (
	_ Record = Song{}
	_ Record = Video{}
)
