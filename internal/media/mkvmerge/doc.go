// Package mkvmerge wraps the Matroska identification report produced by
// `mkvmerge -J`. Only the fields trackmix consumes are modeled; see the
// mkvmerge identification output schema for the full document.
package mkvmerge
