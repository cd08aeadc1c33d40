package testsupport

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills path with size bytes of a repeating pattern, creating
// parent directories. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) string {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteJSON marshals v into path.
func WriteJSON(t testing.TB, path string, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// MediaFiles are placeholder source files for mix tests. Their content is
// never parsed.
type MediaFiles struct {
	Video    string
	Audio    string
	Subtitle string
}

// WriteMediaFiles creates a.mkv, b.mka and c.ass under dir.
func WriteMediaFiles(t testing.TB, dir string) MediaFiles {
	t.Helper()

	return MediaFiles{
		Video:    WriteFile(t, filepath.Join(dir, "a.mkv"), 16),
		Audio:    WriteFile(t, filepath.Join(dir, "b.mka"), 16),
		Subtitle: WriteFile(t, filepath.Join(dir, "c.ass"), 16),
	}
}
