// Package services defines shared utilities consumed by the probe and mix
// pipelines and the surfaces that expose them.
//
// Key responsibilities:
//   - Context helpers that stamp mix job IDs, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures (tool missing, tool exited, parse failure, validation) with
//     errors.Is instead of string matching.
//   - The Runner abstraction that makes external tool execution testable,
//     and ToolExitError, which carries captured output and a readable
//     command line for diagnostics.
//
// Use these helpers when wiring new pipeline logic so error handling and
// observability stay uniform across packages.
package services
