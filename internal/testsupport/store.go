package testsupport

import (
	"context"
	"testing"
	"time"

	"trackmix/internal/config"
	"trackmix/internal/jobs"
	"trackmix/internal/mix"
)

// MustOpenJobs opens a jobs.Store for tests and registers cleanup.
func MustOpenJobs(t testing.TB, cfg *config.Config) *jobs.Store {
	t.Helper()

	store, err := jobs.Open(cfg)
	if err != nil {
		t.Fatalf("jobs.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// BeginJob records a new job with the given id and output path.
func BeginJob(t testing.TB, store *jobs.Store, id, output string) mix.Job {
	t.Helper()

	job := mix.Job{ID: id, OutputPath: output, StartedAt: time.Now()}
	if err := store.Begin(context.Background(), job); err != nil {
		t.Fatalf("store.Begin: %v", err)
	}
	return job
}
