package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"trackmix/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Tool lookup is confined to <base>/bin with the system PATH disabled.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.TempDir = filepath.Join(base, "mix-temp")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Tools.ResourceDir = filepath.Join(base, "bin")
	cfgVal.Tools.DevToolsDir = ""
	cfgVal.Tools.UseSystemPath = false
	cfgVal.API.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithParallelStages toggles concurrent Stage 1 builds.
func WithParallelStages(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Mix.ParallelStages = enabled
	}
}

// WithSystemPath lets tool lookup fall back to PATH.
func WithSystemPath() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tools.UseSystemPath = true
	}
}

// WithStubbedBinaries writes exit-0 stub executables for the provided names
// into the resource directory. If names is empty, ffprobe and mkvmerge are
// stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffprobe", "mkvmerge"}
		}
		for _, name := range names {
			StubTool(b.t, b.cfg.Tools.ResourceDir, name, "exit 0\n")
		}
	}
}

// StubTool writes an executable shell script named name into dir and
// returns its path. body follows the shebang line.
func StubTool(t testing.TB, dir, name, body string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
