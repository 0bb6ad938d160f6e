package testsupport

import (
	"encoding/json"
	"os"
	"testing"
)

// ReadFixture returns the contents of the file at path or fails t.
func ReadFixture(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return string(data)
}

// LoadGolden decodes the JSON golden file at path or fails t.
func LoadGolden[T any](t testing.TB, path string) T {
	t.Helper()
	var out T
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden %s: %v", path, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode golden %s: %v", path, err)
	}
	return out
}
