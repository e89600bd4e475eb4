package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-media-cache/record"
)

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
// The path is relative to the test package directory.
func LoadFixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// LoadRawFields loads a fetcher result fixture as a record.RawFields bag.
// JSON numbers arrive as float64 and non-string values count as absent under
// the normalization rules, which is exactly how malformed upstream data
// behaves in production.
func LoadRawFields(t *testing.T, path string) record.RawFields {
	t.Helper()

	var raw record.RawFields
	LoadFixtureJSON(t, path, &raw)
	return raw
}

// WriteFixture writes data to a fixture file, creating parent directories as
// needed. Typically only called when regenerating fixtures.
func WriteFixture(t *testing.T, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write fixture to %s: %v", path, err)
	}
}

// FixturePath constructs a path to a fixture file relative to the testdata
// directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}
