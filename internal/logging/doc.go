// Package logging assembles the slog loggers used by the trackmix CLI and API
// server.
//
// A logger writes human-oriented console lines (or JSON) to stderr and, when a
// log directory is configured, mirrors every record as JSON into a rotating
// file. Context helpers tag log lines with job IDs, pipeline stages and
// request correlation IDs so mix runs can be followed across components.
package logging
