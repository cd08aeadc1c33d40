package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrToolNotFound = errors.New("tool not found")
	ErrToolSpawn    = errors.New("tool spawn failed")
	ErrToolExit     = errors.New("tool exited non-zero")
	ErrOutputParse  = errors.New("tool output parse failed")
	ErrValidation   = errors.New("validation error")
	ErrFilesystem   = errors.New("filesystem error")
	ErrTimeout      = errors.New("timeout")
	ErrCanceled     = errors.New("canceled")
)

// Wrap builds an error message that includes pipeline context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrFilesystem
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ToolExitError reports an external tool that ran to completion with a
// non-zero exit status.
type ToolExitError struct {
	Tool        string
	ExitCode    int
	Stdout      string
	Stderr      string
	CommandLine string
}

func (e *ToolExitError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s exited with code %d", e.Tool, e.ExitCode)
	output := strings.TrimSpace(strings.TrimSpace(e.Stdout) + " " + strings.TrimSpace(e.Stderr))
	if output != "" {
		b.WriteString(": ")
		b.WriteString(output)
	}
	if e.CommandLine != "" {
		b.WriteString("\ncommand: ")
		b.WriteString(e.CommandLine)
	}
	return b.String()
}

// Unwrap lets errors.Is match ErrToolExit.
func (e *ToolExitError) Unwrap() error {
	return ErrToolExit
}

// CheckExit converts a completed command result into a ToolExitError when the
// tool reported failure. It returns nil for a zero exit code.
func CheckExit(tool string, args []string, result CommandResult) error {
	if result.ExitCode == 0 {
		return nil
	}
	return &ToolExitError{
		Tool:        tool,
		ExitCode:    result.ExitCode,
		Stdout:      string(result.Stdout),
		Stderr:      string(result.Stderr),
		CommandLine: FormatCommandLine(tool, args),
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
