package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trackmix/internal/mix"
)

const (
	// Fixed width so stored timestamps sort lexically.
	timeLayout   = "2006-01-02T15:04:05.000000000Z07:00"
	defaultLimit = 20
	jobColumns   = "id, output_path, temp_dir, state, error_message, plan_json, created_at, updated_at, finished_at"
)

// List returns the most recent jobs first. Events are not loaded. A limit
// of zero or less uses the default.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+jobColumns+` FROM mix_jobs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Get returns the job with its events in order, or nil when it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM mix_jobs WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT state, detail, created_at FROM mix_job_events WHERE job_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list job events: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			state   string
			detail  sql.NullString
			created string
		)
		if err := rows.Scan(&state, &detail, &created); err != nil {
			return nil, fmt.Errorf("scan job event: %w", err)
		}
		rec.Events = append(rec.Events, Event{
			State:     mix.State(state),
			Detail:    detail.String,
			CreatedAt: parseTime(created),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rec, nil
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id          string
		outputPath  sql.NullString
		tempDir     sql.NullString
		state       string
		errMessage  sql.NullString
		planJSON    sql.NullString
		createdRaw  string
		updatedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&outputPath,
		&tempDir,
		&state,
		&errMessage,
		&planJSON,
		&createdRaw,
		&updatedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}

	rec := &Record{
		ID:         id,
		OutputPath: outputPath.String,
		TempDir:    tempDir.String,
		State:      mix.State(state),
		Error:      errMessage.String,
		CreatedAt:  parseTime(createdRaw),
		UpdatedAt:  parseTime(updatedRaw),
	}
	if finishedRaw.Valid && finishedRaw.String != "" {
		finished := parseTime(finishedRaw.String)
		rec.FinishedAt = &finished
	}
	if planJSON.Valid && planJSON.String != "" {
		var plan mix.Plan
		if err := json.Unmarshal([]byte(planJSON.String), &plan); err != nil {
			return nil, fmt.Errorf("decode plan for %s: %w", id, err)
		}
		rec.Plan = &plan
	}
	return rec, nil
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
