package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"trackmix/internal/mix"
)

// ErrJobNotFound is returned when a transition names an unknown job.
var ErrJobNotFound = errors.New("job not found")

var _ mix.Journal = (*Store)(nil)

// Begin inserts a new job row in the validating state.
func (s *Store) Begin(ctx context.Context, job mix.Job) error {
	created := job.StartedAt.UTC()
	if job.StartedAt.IsZero() {
		created = s.now().UTC()
	}
	ts := created.Format(timeLayout)
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO mix_jobs (id, output_path, state, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		job.ID,
		nullableString(job.OutputPath),
		mix.StateValidating,
		ts,
		ts,
	); err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// Prepare stores the resolved output path, temp directory and plan.
func (s *Store) Prepare(ctx context.Context, job mix.Job) error {
	planJSON, err := json.Marshal(job.Plan)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE mix_jobs SET output_path = ?, temp_dir = ?, plan_json = ?, updated_at = ? WHERE id = ?`,
		nullableString(job.OutputPath),
		nullableString(job.TempDir),
		string(planJSON),
		s.timestamp(),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job paths: %w", err)
	}
	return requireRow(res, job.ID)
}

// Transition updates the job's current state and appends an event. A failed
// transition keeps detail as the job's error text.
func (s *Store) Transition(ctx context.Context, jobID string, state mix.State, detail string) error {
	ts := s.timestamp()
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var finished any
		if state.Terminal() {
			finished = ts
		}
		var errText any
		if state == mix.StateFailed {
			errText = detail
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE mix_jobs
             SET state = ?, updated_at = ?,
                 finished_at = COALESCE(?, finished_at),
                 error_message = COALESCE(?, error_message)
             WHERE id = ?`,
			state, ts, finished, errText, jobID,
		)
		if err != nil {
			return err
		}
		if err := requireRow(res, jobID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO mix_job_events (job_id, state, detail, created_at) VALUES (?, ?, ?, ?)`,
			jobID, state, nullableString(detail), ts,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("transition job %s to %s: %w", jobID, state, err)
	}
	return nil
}

// FailInterrupted marks jobs that never reached a terminal state as failed.
// The server calls it at startup; such jobs belong to a process that exited
// mid-mix.
func (s *Store) FailInterrupted(ctx context.Context) (int64, error) {
	ts := s.timestamp()
	res, err := s.execWithRetry(
		ctx,
		`UPDATE mix_jobs
         SET state = ?, error_message = COALESCE(error_message, ?), updated_at = ?, finished_at = ?
         WHERE state NOT IN (?, ?)`,
		mix.StateFailed,
		"interrupted",
		ts,
		ts,
		mix.StateDone,
		mix.StateFailed,
	)
	if err != nil {
		return 0, fmt.Errorf("fail interrupted jobs: %w", err)
	}
	return res.RowsAffected()
}

func requireRow(res sql.Result, jobID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	return nil
}
