package record

import "time"

// RawFields is the loosely-typed field bag a Fetcher returns. Upstream
// sources (YouTube scrapers, platform APIs) disagree on field names and
// frequently omit data, so every lookup is optional and values of the wrong
// dynamic type are treated as absent rather than failing the whole fetch.
type RawFields map[string]any

// String returns the string value stored under name. The second return is
// false when the field is missing, nil, or not a string.
func (r RawFields) String(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// stringOr returns the value under name, or fallback when absent.
func (r RawFields) stringOr(name, fallback string) string {
	if s, ok := r.String(name); ok {
		return s
	}
	return fallback
}

// singer resolves the performer field: "singer" wins over "artist", and both
// missing falls back to DefaultSinger.
func (r RawFields) singer() string {
	if s, ok := r.String("singer"); ok {
		return s
	}
	return r.stringOr("artist", DefaultSinger)
}

// Normalizer converts a raw fetch result into a concrete record for one kind.
// key is the id the caller asked for; now becomes the record's SavedAt.
type Normalizer[T Record] func(key string, raw RawFields, now time.Time) T

// NormalizeSong builds a Song from raw fetcher output, applying the
// documented defaults: the key field falls back to the requested key, title
// to DefaultTitle, thumbnail to empty, singer to "singer" then "artist" then
// DefaultSinger. The store-assigned ID is left empty for the store to fill.
func NormalizeSong(key string, raw RawFields, now time.Time) Song {
	return Song{
		YouTubeID: nonEmptyOr(raw.stringOr("youtube_id", ""), key),
		Title:     raw.stringOr("title", DefaultTitle),
		Thumbnail: raw.stringOr("thumbnail", ""),
		Singer:    raw.singer(),
		Type:      string(KindSong),
		SavedAt:   now,
	}
}

// NormalizeVideo builds a Video from raw fetcher output using the same
// defaulting rules as NormalizeSong, plus url defaulting to empty.
func NormalizeVideo(key string, raw RawFields, now time.Time) Video {
	return Video{
		VideoID:   nonEmptyOr(raw.stringOr("video_id", ""), key),
		Title:     raw.stringOr("title", DefaultTitle),
		Thumbnail: raw.stringOr("thumbnail", ""),
		Singer:    raw.singer(),
		URL:       raw.stringOr("url", ""),
		Type:      string(KindVideo),
		SavedAt:   now,
	}
}

func nonEmptyOr(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
