package jobs_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"trackmix/internal/deps"
	"trackmix/internal/jobs"
	"trackmix/internal/media/tracks"
	"trackmix/internal/mix"
	"trackmix/internal/testsupport"
)

func TestJournalRecordsLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJobs(t, cfg)
	ctx := context.Background()

	job := testsupport.BeginJob(t, store, "job-1", "/out/final.mkv")
	job.TempDir = "/tmp/work/123"
	job.Plan = mix.Plan{Video: &mix.Consolidated{Kind: tracks.KindVideo, SourcePath: "/in/a.mkv", TrackIDs: []string{"0"}}}
	if err := store.Prepare(ctx, job); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	for _, state := range []mix.State{mix.StateValidating, mix.StateBuildingVideo, mix.StateCombining, mix.StateCleaningUp} {
		if err := store.Transition(ctx, job.ID, state, ""); err != nil {
			t.Fatalf("Transition(%s): %v", state, err)
		}
	}

	rec, err := store.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec == nil {
		t.Fatal("expected record")
	}
	if rec.State != mix.StateCleaningUp || rec.FinishedAt != nil {
		t.Fatalf("unexpected in-flight record: %+v", rec)
	}
	if rec.TempDir != "/tmp/work/123" || rec.OutputPath != "/out/final.mkv" {
		t.Fatalf("paths not stored: %+v", rec)
	}
	if rec.Plan == nil || rec.Plan.Video == nil || rec.Plan.Video.SourcePath != "/in/a.mkv" {
		t.Fatalf("plan not stored: %+v", rec.Plan)
	}
	if len(rec.Events) != 4 || rec.Events[1].State != mix.StateBuildingVideo {
		t.Fatalf("unexpected events: %+v", rec.Events)
	}

	if err := store.Transition(ctx, job.ID, mix.StateDone, "/out/final.mkv"); err != nil {
		t.Fatalf("Transition(done): %v", err)
	}
	rec, err = store.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.State != mix.StateDone || rec.FinishedAt == nil || rec.Error != "" {
		t.Fatalf("unexpected finished record: %+v", rec)
	}
	if last := rec.Events[len(rec.Events)-1]; last.Detail != "/out/final.mkv" {
		t.Fatalf("event detail = %q", last.Detail)
	}
}

func TestJournalFailureKeepsErrorText(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJobs(t, cfg)
	ctx := context.Background()

	testsupport.BeginJob(t, store, "job-f", "/out/x.mkv")
	if err := store.Transition(ctx, "job-f", mix.StateFailed, "mkvmerge exited with code 2"); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	rec, err := store.Get(ctx, "job-f")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.State != mix.StateFailed || rec.Error != "mkvmerge exited with code 2" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestTransitionUnknownJob(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJobs(t, cfg)

	err := store.Transition(context.Background(), "missing", mix.StateDone, "")
	if !errors.Is(err, jobs.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if rec, err := store.Get(context.Background(), "missing"); err != nil || rec != nil {
		t.Fatalf("Get(missing) = %v, %v", rec, err)
	}
}

func TestListNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJobs(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i := range 5 {
		job := mix.Job{ID: fmt.Sprintf("job-%d", i), StartedAt: base.Add(time.Duration(i) * time.Millisecond * 100)}
		if err := store.Begin(ctx, job); err != nil {
			t.Fatalf("Begin: %v", err)
		}
	}

	recs, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	for i, want := range []string{"job-4", "job-3", "job-2"} {
		if recs[i].ID != want {
			t.Fatalf("recs[%d] = %s, want %s", i, recs[i].ID, want)
		}
	}
	if !recs[0].CreatedAt.Equal(base.Add(400 * time.Millisecond)) {
		t.Fatalf("created_at = %v", recs[0].CreatedAt)
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("default limit should cover 5 records, got %d", len(all))
	}
}

func TestFailInterrupted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJobs(t, cfg)
	ctx := context.Background()

	testsupport.BeginJob(t, store, "running", "")
	testsupport.BeginJob(t, store, "finished", "")
	if err := store.Transition(ctx, "finished", mix.StateDone, ""); err != nil {
		t.Fatalf("Transition: %v", err)
	}

	n, err := store.FailInterrupted(ctx)
	if err != nil {
		t.Fatalf("FailInterrupted: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 interrupted job, got %d", n)
	}
	rec, _ := store.Get(ctx, "running")
	if rec.State != mix.StateFailed || rec.Error != "interrupted" || rec.FinishedAt == nil {
		t.Fatalf("unexpected record: %+v", rec)
	}
	rec, _ = store.Get(ctx, "finished")
	if rec.State != mix.StateDone {
		t.Fatalf("finished job changed: %+v", rec)
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := jobs.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	testsupport.BeginJob(t, store, "persisted", "/out/p.mkv")
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenJobs(t, cfg)
	rec, err := reopened.Get(context.Background(), "persisted")
	if err != nil || rec == nil {
		t.Fatalf("Get after reopen = %v, %v", rec, err)
	}
}

func TestConcurrentTransitions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJobs(t, cfg)
	ctx := context.Background()

	testsupport.BeginJob(t, store, "parallel", "")
	states := []mix.State{mix.StateBuildingVideo, mix.StateBuildingAudio, mix.StateBuildingSubtitle}
	var wg sync.WaitGroup
	errs := make(chan error, len(states)*4)
	for range 4 {
		for _, state := range states {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- store.Transition(ctx, "parallel", state, "")
			}()
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Transition: %v", err)
		}
	}
	rec, err := store.Get(ctx, "parallel")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(rec.Events) != len(states)*4 {
		t.Fatalf("expected %d events, got %d", len(states)*4, len(rec.Events))
	}
}

func TestConcurrentTransitionsAcrossStores(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := testsupport.MustOpenJobs(t, cfg)
	second := testsupport.MustOpenJobs(t, cfg)
	ctx := context.Background()

	const jobsPerStore = 6
	var wg sync.WaitGroup
	errs := make(chan error, jobsPerStore*2*3)
	for i, store := range []*jobs.Store{first, second} {
		for j := range jobsPerStore {
			id := fmt.Sprintf("job-%d-%d", i, j)
			testsupport.BeginJob(t, store, id, "")
			wg.Add(1)
			go func() {
				defer wg.Done()
				for _, state := range []mix.State{mix.StateBuildingVideo, mix.StateCombining, mix.StateDone} {
					errs <- store.Transition(ctx, id, state, "")
				}
			}()
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Transition: %v", err)
		}
	}

	recs, err := first.List(ctx, 100)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != jobsPerStore*2 {
		t.Fatalf("expected %d jobs, got %d", jobsPerStore*2, len(recs))
	}
	for _, rec := range recs {
		if rec.State != mix.StateDone {
			t.Fatalf("job %s state = %s", rec.ID, rec.State)
		}
		full, err := second.Get(ctx, rec.ID)
		if err != nil || full == nil {
			t.Fatalf("Get %s = %v, %v", rec.ID, full, err)
		}
		if len(full.Events) != 3 {
			t.Fatalf("job %s has %d events", rec.ID, len(full.Events))
		}
	}
}

func TestExecutorWritesJournal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJobs(t, cfg)
	files := testsupport.WriteMediaFiles(t, t.TempDir())
	testsupport.StubTool(t, cfg.Tools.ResourceDir, "mkvmerge", "exit 0\n")

	locator := deps.NewFromOptions(deps.Options{ResourceDir: cfg.Tools.ResourceDir})
	ex := mix.NewExecutor(locator, cfg.Paths.TempDir, mix.WithJournal(store))
	out, err := ex.Mix(context.Background(), []mix.Selection{
		{Path: files.Video, Kind: "video", TrackIDs: []string{"0"}},
		{Path: files.Audio, Kind: "audio", TrackIDs: []string{"1"}},
	}, filepath.Join(t.TempDir(), "final"))
	if err != nil {
		t.Fatalf("Mix: %v", err)
	}

	recs, err := store.List(context.Background(), 1)
	if err != nil || len(recs) != 1 {
		t.Fatalf("List = %v, %v", recs, err)
	}
	rec, err := store.Get(context.Background(), recs[0].ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.State != mix.StateDone || rec.OutputPath != out {
		t.Fatalf("unexpected record: %+v", rec)
	}
	got := make([]mix.State, 0, len(rec.Events))
	for _, ev := range rec.Events {
		got = append(got, ev.State)
	}
	want := []mix.State{
		mix.StateValidating,
		mix.StateBuildingVideo,
		mix.StateBuildingAudio,
		mix.StateCombining,
		mix.StateCleaningUp,
		mix.StateDone,
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
}
