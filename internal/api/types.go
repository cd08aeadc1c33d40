package api

import (
	"time"

	"trackmix/internal/deps"
	"trackmix/internal/jobs"
	"trackmix/internal/mix"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToolsResponse reports external tool availability.
type ToolsResponse struct {
	Ready bool          `json:"ready"`
	Tools []deps.Status `json:"tools"`
}

// ProbeRequest selects one file and one track kind.
type ProbeRequest struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// SizeResponse carries a formatted file size.
type SizeResponse struct {
	Size string `json:"size"`
}

// MixRequest is the body of POST /api/mix.
type MixRequest struct {
	Inputs     []mix.Selection `json:"inputs"`
	OutputPath string          `json:"outputPath"`
}

// MixResponse returns the final output location.
type MixResponse struct {
	OutputPath string `json:"outputPath"`
}

// Job is the transport form of a journal record.
type Job struct {
	ID         string     `json:"id"`
	State      string     `json:"state"`
	OutputPath string     `json:"outputPath,omitempty"`
	TempDir    string     `json:"tempDir,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  string     `json:"createdAt,omitempty"`
	UpdatedAt  string     `json:"updatedAt,omitempty"`
	FinishedAt string     `json:"finishedAt,omitempty"`
	DurationMS int64      `json:"durationMs"`
	Plan       *mix.Plan  `json:"plan,omitempty"`
	Events     []JobEvent `json:"events,omitempty"`
}

// JobEvent is one state transition of a Job.
type JobEvent struct {
	State     string `json:"state"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// JobListResponse wraps a page of jobs.
type JobListResponse struct {
	Jobs []Job `json:"jobs"`
}

// FromRecord converts a journal record. now bounds the duration of jobs
// that have not finished.
func FromRecord(rec jobs.Record, now time.Time) Job {
	job := Job{
		ID:         rec.ID,
		State:      string(rec.State),
		OutputPath: rec.OutputPath,
		TempDir:    rec.TempDir,
		Error:      rec.Error,
		CreatedAt:  formatTime(rec.CreatedAt),
		UpdatedAt:  formatTime(rec.UpdatedAt),
		DurationMS: rec.Duration(now).Milliseconds(),
		Plan:       rec.Plan,
	}
	if rec.FinishedAt != nil {
		job.FinishedAt = formatTime(*rec.FinishedAt)
	}
	if len(rec.Events) > 0 {
		job.Events = make([]JobEvent, 0, len(rec.Events))
		for _, ev := range rec.Events {
			job.Events = append(job.Events, JobEvent{
				State:     string(ev.State),
				Detail:    ev.Detail,
				CreatedAt: formatTime(ev.CreatedAt),
			})
		}
	}
	return job
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
