package mix

import (
	"context"
	"time"
)

// State is a step of the remux pipeline.
type State string

const (
	StateValidating       State = "validating"
	StateBuildingVideo    State = "building_video"
	StateBuildingAudio    State = "building_audio"
	StateBuildingSubtitle State = "building_subtitle"
	StateCombining        State = "combining"
	StateCleaningUp       State = "cleaning_up"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Job describes one mix call.
type Job struct {
	ID         string
	OutputPath string
	TempDir    string
	Plan       Plan
	StartedAt  time.Time
}

// Journal records job lifecycles. Implementations must be safe for
// concurrent use; Transition may be called from parallel stage builds.
type Journal interface {
	Begin(ctx context.Context, job Job) error
	// Prepare records the resolved output path, temp directory and plan once
	// validation has produced them.
	Prepare(ctx context.Context, job Job) error
	Transition(ctx context.Context, jobID string, state State, detail string) error
}
