package jobs

import (
	"time"

	"trackmix/internal/mix"
)

// Record is one persisted mix job.
type Record struct {
	ID         string     `json:"id"`
	OutputPath string     `json:"outputPath,omitempty"`
	TempDir    string     `json:"tempDir,omitempty"`
	State      mix.State  `json:"state"`
	Error      string     `json:"error,omitempty"`
	Plan       *mix.Plan  `json:"plan,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Events     []Event    `json:"events,omitempty"`
}

// Duration reports how long the job ran, or has been running as of now.
func (r Record) Duration(now time.Time) time.Duration {
	end := now
	if r.FinishedAt != nil {
		end = *r.FinishedAt
	}
	if end.Before(r.CreatedAt) {
		return 0
	}
	return end.Sub(r.CreatedAt)
}

// Event is one recorded state transition.
type Event struct {
	State     mix.State `json:"state"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
