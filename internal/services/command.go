package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandResult captures the output of a finished external process.
type CommandResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner abstracts external command execution for testability.
//
// Run returns a nil error whenever the process was started and ran to
// completion, even when it exited non-zero; callers inspect ExitCode (see
// CheckExit). A non-nil error means the process could not be started
// (ErrToolSpawn), hit its deadline (ErrTimeout) or was canceled by the
// caller (ErrCanceled).
type Runner interface {
	Run(ctx context.Context, binary string, args ...string) (CommandResult, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, binary string, args ...string) (CommandResult, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, binary string, args ...string) (CommandResult, error) {
	return f(ctx, binary, args...)
}

// ExecRunner runs commands with os/exec, capturing stdout and stderr separately.
type ExecRunner struct{}

// Run executes binary with args and waits for it to finish.
func (ExecRunner) Run(ctx context.Context, binary string, args ...string) (CommandResult, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CommandResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, fmt.Errorf("%w: %s: %w", contextMarker(ctxErr), binary, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, fmt.Errorf("%w: %s: %w", ErrToolSpawn, binary, err)
}

// contextMarker classifies a context error. Only an expired deadline is a
// timeout; cancellation by the caller or a failed sibling is not.
func contextMarker(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return ErrCanceled
}

// FormatCommandLine renders a command line for diagnostics. Arguments that
// contain whitespace or double quotes are wrapped in quotes with embedded
// quotes escaped. The result is for humans only and is never re-executed.
func FormatCommandLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(name))
	for _, arg := range args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}

func quoteArg(arg string) string {
	if strings.ContainsAny(arg, " \t\"") {
		return `"` + strings.ReplaceAll(arg, `"`, `\"`) + `"`
	}
	return arg
}
