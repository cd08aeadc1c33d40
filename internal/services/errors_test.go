package services_test

import (
	"errors"
	"strings"
	"testing"

	"trackmix/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrFilesystem, "mix", "create temp dir", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrFilesystem) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"mix", "create temp dir", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestCheckExit(t *testing.T) {
	if err := services.CheckExit("mkvmerge", nil, services.CommandResult{}); err != nil {
		t.Fatalf("expected nil for zero exit, got %v", err)
	}

	err := services.CheckExit("mkvmerge", []string{"-o", "/tmp/out dir/a.mkv"}, services.CommandResult{
		Stdout:   []byte("progress 10%\n"),
		Stderr:   []byte("Error: no tracks\n"),
		ExitCode: 2,
	})
	if !errors.Is(err, services.ErrToolExit) {
		t.Fatalf("expected ErrToolExit, got %v", err)
	}
	var exitErr *services.ToolExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ToolExitError, got %T", err)
	}
	if exitErr.ExitCode != 2 {
		t.Fatalf("unexpected exit code %d", exitErr.ExitCode)
	}
	if exitErr.CommandLine != `mkvmerge -o "/tmp/out dir/a.mkv"` {
		t.Fatalf("unexpected command line %q", exitErr.CommandLine)
	}
	msg := err.Error()
	for _, fragment := range []string{"code 2", "progress 10%", "Error: no tracks", "command: mkvmerge"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestFormatCommandLine(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"plain", []string{"-o", "out.mkv"}, "mkvmerge -o out.mkv"},
		{"space", []string{"my file.mkv"}, `mkvmerge "my file.mkv"`},
		{"tab", []string{"a\tb"}, "mkvmerge \"a\tb\""},
		{"quote", []string{`say "hi"`}, `mkvmerge "say \"hi\""`},
		{"blank track name", []string{"--track-name", "0:"}, "mkvmerge --track-name 0:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.FormatCommandLine("mkvmerge", tt.args); got != tt.expected {
				t.Errorf("FormatCommandLine = %q, want %q", got, tt.expected)
			}
		})
	}
}
