// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video/subtitle stream properties
//   - Format: container-level metadata (format name, size)
//
// Inspect runs ffprobe through a services.Runner and returns the parsed
// Result. Optional fields are pointers so callers can tell "absent" from
// zero values.
package ffprobe
