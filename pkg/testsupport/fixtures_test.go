package testsupport

import (
	"path/filepath"
	"testing"
)

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	WriteFixture(t, path, []byte("hello"))

	if got := string(LoadFixture(t, path)); got != "hello" {
		t.Errorf("LoadFixture() = %q, want %q", got, "hello")
	}
}

func TestLoadFixtureJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	WriteFixture(t, path, []byte(`{"title":"Song A","count":2}`))

	var dest map[string]any
	LoadFixtureJSON(t, path, &dest)

	if dest["title"] != "Song A" {
		t.Errorf("title = %v, want Song A", dest["title"])
	}
}

func TestLoadRawFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.json")
	WriteFixture(t, path, []byte(`{"title":"Song A","artist":"Artist X","duration":213}`))

	raw := LoadRawFields(t, path)

	if title, ok := raw.String("title"); !ok || title != "Song A" {
		t.Errorf("raw title = %q, %v; want Song A, true", title, ok)
	}
	// JSON numbers decode as float64 and must read as absent strings.
	if _, ok := raw.String("duration"); ok {
		t.Error("numeric field should not read as a string")
	}
}

func TestFixturePath(t *testing.T) {
	if got, want := FixturePath("songs.json"), filepath.Join("testdata", "songs.json"); got != want {
		t.Errorf("FixturePath() = %q, want %q", got, want)
	}
}
