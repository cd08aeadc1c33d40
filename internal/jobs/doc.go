// Package jobs keeps a SQLite history of mix jobs.
//
// Store implements mix.Journal: the executor calls Begin when a job is
// assigned an id, SetPaths once the output path and temp directory are
// known, and Transition for every state change. Each transition updates the
// job row and appends an event, so a job's full path through the pipeline
// can be replayed with Get. Probe results are never stored here.
//
// Schema changes bump schemaVersion in schema.go; users delete jobs.db to
// adopt the new schema.
package jobs
