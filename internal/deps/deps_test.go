package deps

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trackmix/internal/services"
)

func writeStub(t *testing.T, dir, name string, mode os.FileMode) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), mode); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func withGOOS(t *testing.T, value string) {
	t.Helper()
	prev := goos
	goos = value
	t.Cleanup(func() { goos = prev })
}

func TestDirAppliesSuffixOnlyOnWindows(t *testing.T) {
	withGOOS(t, "linux")
	if got := Dir("/opt/bin")("mkvmerge"); len(got) != 1 || got[0] != filepath.Join("/opt/bin", "mkvmerge") {
		t.Fatalf("unexpected linux candidates %v", got)
	}

	withGOOS(t, "windows")
	got := Dir("/opt/bin")("mkvmerge")
	want := []string{filepath.Join("/opt/bin", "mkvmerge.exe"), filepath.Join("/opt/bin", "mkvmerge")}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("unexpected windows candidates %v", got)
	}

	if got := Dir("  ")("mkvmerge"); got != nil {
		t.Fatalf("expected no candidates for blank dir, got %v", got)
	}
}

func TestResolvePrefersResourceDir(t *testing.T) {
	withGOOS(t, "linux")
	base := t.TempDir()
	resource := filepath.Join(base, "bin")
	dev := filepath.Join(base, "dev")
	want := writeStub(t, resource, "ffprobe", 0o755)
	writeStub(t, dev, "ffprobe", 0o755)

	locator := NewFromOptions(Options{ResourceDir: resource, DevToolsDir: dev, Development: true})
	got, err := locator.Resolve("ffprobe")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveDevDirOnlyInDevelopment(t *testing.T) {
	withGOOS(t, "linux")
	base := t.TempDir()
	dev := filepath.Join(base, "dev")
	want := writeStub(t, dev, "mkvmerge", 0o755)

	prod := NewFromOptions(Options{ResourceDir: filepath.Join(base, "bin"), DevToolsDir: dev})
	_, err := prod.Resolve("mkvmerge")
	if !errors.Is(err, services.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound outside development mode, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "mkvmerge") {
		t.Fatalf("expected error to name the tool, got %v", err)
	}

	devLocator := NewFromOptions(Options{ResourceDir: filepath.Join(base, "bin"), DevToolsDir: dev, Development: true})
	got, err := devLocator.Resolve("mkvmerge")
	if err != nil {
		t.Fatalf("Resolve in development mode: %v", err)
	}
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveSkipsDirectoriesAndCaches(t *testing.T) {
	withGOOS(t, "linux")
	base := t.TempDir()
	first := filepath.Join(base, "first")
	second := filepath.Join(base, "second")
	if err := os.MkdirAll(filepath.Join(first, "ffprobe"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	want := writeStub(t, second, "ffprobe", 0o755)

	locator := NewLocator(Dir(first), Dir(second))
	got, err := locator.Resolve("ffprobe")
	if err != nil || got != want {
		t.Fatalf("Resolve = %q, %v; want %q", got, err, want)
	}

	if err := os.Remove(want); err != nil {
		t.Fatalf("remove stub: %v", err)
	}
	got, err = locator.Resolve("ffprobe")
	if err != nil || got != want {
		t.Fatalf("expected cached resolution %q, got %q, %v", want, got, err)
	}
}

func TestResolveWindowsPrefersExe(t *testing.T) {
	withGOOS(t, "windows")
	dir := t.TempDir()
	writeStub(t, dir, "mkvmerge", 0o755)
	want := writeStub(t, dir, "mkvmerge.exe", 0o755)

	got, err := NewLocator(Dir(dir)).Resolve("mkvmerge")
	if err != nil || got != want {
		t.Fatalf("Resolve = %q, %v; want %q", got, err, want)
	}
}

func TestSystemPathFallback(t *testing.T) {
	withGOOS(t, "linux")
	binDir := t.TempDir()
	want := writeStub(t, binDir, "trackmix-test-tool", 0o755)
	t.Setenv("PATH", binDir)

	got, err := NewFromOptions(Options{ResourceDir: t.TempDir(), UseSystemPath: true}).Resolve("trackmix-test-tool")
	if err != nil || got != want {
		t.Fatalf("Resolve = %q, %v; want %q", got, err, want)
	}
}

func TestCheckTools(t *testing.T) {
	withGOOS(t, "linux")
	dir := t.TempDir()
	writeStub(t, dir, "ffprobe", 0o755)
	writeStub(t, dir, "mkvmerge", 0o644)

	statuses := CheckTools(NewLocator(Dir(dir)), []Requirement{
		{Role: RoleGenericAnalyzer, Command: "ffprobe"},
		{Role: RoleMuxer, Command: "mkvmerge"},
		{Role: RoleMatroskaAnalyzer, Command: "missing-tool"},
		{Role: "unset"},
	})
	if len(statuses) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available || !statuses[0].Executable || statuses[0].Detail != "" {
		t.Fatalf("unexpected ffprobe status %#v", statuses[0])
	}
	if !statuses[1].Available || statuses[1].Executable {
		t.Fatalf("expected non-executable mkvmerge, got %#v", statuses[1])
	}
	if statuses[2].Available || statuses[2].Detail != `binary "missing-tool" not found` {
		t.Fatalf("unexpected missing status %#v", statuses[2])
	}
	if statuses[3].Detail != "command not configured" {
		t.Fatalf("unexpected unset status %#v", statuses[3])
	}
	if AllAvailable(statuses) {
		t.Fatal("expected AllAvailable to report false")
	}
}
