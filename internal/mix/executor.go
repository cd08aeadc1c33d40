package mix

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"trackmix/internal/logging"
	"trackmix/internal/media/tracks"
	"trackmix/internal/services"
)

const (
	muxerTool          = "mkvmerge"
	maxTempDirAttempts = 1000
)

// ToolResolver maps a tool name to an executable path.
type ToolResolver interface {
	Resolve(name string) (string, error)
}

// Executor runs the staged mkvmerge pipeline.
type Executor struct {
	tools        ToolResolver
	runner       services.Runner
	muxer        string
	tempRoot     string
	parallel     bool
	stageTimeout time.Duration
	journal      Journal
	logger       *slog.Logger
	now          func() time.Time
}

// Option customizes an Executor.
type Option func(*Executor)

// WithRunner overrides the command runner.
func WithRunner(r services.Runner) Option {
	return func(e *Executor) {
		if r != nil {
			e.runner = r
		}
	}
}

// WithMuxer overrides the muxer binary name.
func WithMuxer(name string) Option {
	return func(e *Executor) {
		if strings.TrimSpace(name) != "" {
			e.muxer = strings.TrimSpace(name)
		}
	}
}

// WithParallelStages runs the per-kind builds concurrently.
func WithParallelStages(enabled bool) Option {
	return func(e *Executor) { e.parallel = enabled }
}

// WithStageTimeout bounds each mkvmerge invocation. Zero disables the bound.
func WithStageTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.stageTimeout = d
		}
	}
}

// WithJournal records state transitions.
func WithJournal(j Journal) Option {
	return func(e *Executor) { e.journal = j }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) { e.logger = logger }
}

// WithClock overrides the time source used for temp directory names.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		if now != nil {
			e.now = now
		}
	}
}

// NewExecutor builds an executor that writes intermediates below tempRoot.
func NewExecutor(tools ToolResolver, tempRoot string, opts ...Option) *Executor {
	e := &Executor{
		tools:    tools,
		runner:   services.ExecRunner{},
		muxer:    muxerTool,
		tempRoot: tempRoot,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "mix")
	return e
}

// run tracks one Mix call.
type run struct {
	e      *Executor
	job    Job
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// Mix validates selections, builds one intermediate per kind and combines
// them into outputPath. It returns the final output path.
func (e *Executor) Mix(ctx context.Context, selections []Selection, outputPath string) (string, error) {
	job := Job{ID: uuid.NewString(), OutputPath: ResolveOutputPath(outputPath), StartedAt: e.now()}
	ctx = services.WithJobID(ctx, job.ID)
	r := &run{e: e, job: job, logger: logging.WithContext(ctx, e.logger)}

	if e.journal != nil {
		if err := e.journal.Begin(ctx, job); err != nil {
			logging.WarnWithContext(r.logger, "journal begin failed", "journal_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "job history will be incomplete"),
			)
		}
	}

	final, err := r.execute(ctx, selections, outputPath)
	if err != nil {
		failedIn := r.currentState()
		r.transition(ctx, StateFailed, err.Error())
		logging.ErrorWithContext(r.logger, "mix failed", "mix_failed",
			logging.String("failed_state", string(failedIn)),
			logging.String("temp_dir", r.job.TempDir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "intermediates are kept in the temp directory"),
		)
		return "", err
	}
	return final, nil
}

func (r *run) execute(ctx context.Context, selections []Selection, outputPath string) (string, error) {
	e := r.e
	r.transition(ctx, StateValidating, "")
	if len(selections) == 0 {
		return "", ErrNoTracksProvided
	}

	output := ResolveOutputPath(outputPath)
	if output == "" {
		return "", services.Wrap(services.ErrValidation, "mix", "validate", "output path is empty", nil)
	}
	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", services.Wrap(services.ErrFilesystem, "mix", "validate", "create output directory", err)
		}
	}
	r.job.OutputPath = output

	muxer, err := e.tools.Resolve(e.muxer)
	if err != nil {
		return "", err
	}

	plan, err := BuildPlan(selections)
	if err != nil {
		return "", err
	}
	r.job.Plan = plan

	tempDir, err := createTempDir(e.tempRoot, e.now)
	if err != nil {
		return "", err
	}
	r.job.TempDir = tempDir
	if e.journal != nil {
		if err := e.journal.Prepare(ctx, r.job); err != nil {
			logging.WarnWithContext(r.logger, "journal update failed", "journal_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "job history will be incomplete"),
			)
		}
	}
	r.logger.Info("mix started",
		logging.String(logging.FieldEventType, "mix_started"),
		logging.String("output_path", output),
		logging.String("temp_dir", tempDir),
		logging.Int("stage_count", len(plan.Stages())),
		logging.Bool("parallel_stages", r.e.parallel),
	)

	intermediates, err := r.buildStages(ctx, muxer, plan)
	if err != nil {
		return "", err
	}

	r.transition(ctx, StateCombining, output)
	args := BuildCombineArgs(output, intermediates)
	if err := r.invoke(ctx, muxer, args); err != nil {
		return "", err
	}

	r.transition(ctx, StateCleaningUp, "")
	for _, path := range intermediates {
		if err := os.Remove(path); err != nil {
			r.logger.Debug("intermediate removal failed", logging.String("path", path), logging.Error(err))
		}
	}

	r.transition(ctx, StateDone, output)
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "mix_complete"),
		logging.String("output_path", output),
		logging.Duration("stage_duration", time.Since(r.job.StartedAt)),
	}
	if info, err := os.Stat(output); err == nil {
		attrs = append(attrs, logging.Int64("size_bytes", info.Size()))
	}
	r.logger.Info("mix complete", logging.Args(attrs...)...)
	return output, nil
}

// buildStages runs Stage 1 and returns the intermediates in fixed kind order.
func (r *run) buildStages(ctx context.Context, muxer string, plan Plan) ([]string, error) {
	stages := plan.Stages()
	outputs := make([]string, len(stages))
	for i, sel := range stages {
		outputs[i] = filepath.Join(r.job.TempDir, IntermediateName(sel.Kind))
	}

	if !r.e.parallel || len(stages) < 2 {
		for i, sel := range stages {
			if err := r.buildStage(ctx, muxer, sel, outputs[i]); err != nil {
				return nil, err
			}
		}
		return outputs, nil
	}

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	for i, sel := range stages {
		p.Go(func(ctx context.Context) error {
			return r.buildStage(ctx, muxer, sel, outputs[i])
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

func (r *run) buildStage(ctx context.Context, muxer string, sel *Consolidated, output string) error {
	state := buildingState(sel.Kind)
	ctx = services.WithStage(ctx, string(state))
	r.transition(ctx, state, strings.Join(sel.TrackIDs, ","))

	started := time.Now()
	if err := r.invoke(ctx, muxer, BuildStageArgs(sel, output)); err != nil {
		return err
	}
	logging.WithContext(ctx, r.e.logger).Debug("stage complete",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("kind", string(sel.Kind)),
		logging.String("source_path", sel.SourcePath),
		logging.Strings("track_ids", sel.TrackIDs),
		logging.Duration("stage_duration", time.Since(started)),
	)
	return nil
}

func (r *run) invoke(ctx context.Context, muxer string, args []string) error {
	if r.e.stageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.e.stageTimeout)
		defer cancel()
	}
	logging.WithContext(ctx, r.e.logger).Debug("executing mkvmerge",
		logging.String("tool_path", muxer),
		logging.String("command", services.FormatCommandLine(muxerTool, args)),
	)
	res, err := r.e.runner.Run(ctx, muxer, args...)
	if err != nil {
		return err
	}
	return services.CheckExit(muxerTool, args, res)
}

func (r *run) currentState() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// transition records state. Parallel builds call it concurrently.
func (r *run) transition(ctx context.Context, state State, detail string) {
	r.mu.Lock()
	if state != StateFailed {
		r.state = state
	}
	r.mu.Unlock()
	r.logger.Debug("mix state", logging.String("state", string(state)))
	if r.e.journal == nil {
		return
	}
	if err := r.e.journal.Transition(ctx, r.job.ID, state, detail); err != nil {
		logging.WarnWithContext(r.logger, "journal transition failed", "journal_failed",
			logging.String("state", string(state)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "job history will be incomplete"),
		)
	}
}

func buildingState(kind tracks.Kind) State {
	switch kind {
	case tracks.KindAudio:
		return StateBuildingAudio
	case tracks.KindSubtitle:
		return StateBuildingSubtitle
	default:
		return StateBuildingVideo
	}
}

// createTempDir makes <root>/<unix-nanos> with an exclusive mkdir, advancing
// the timestamp on collision.
func createTempDir(root string, now func() time.Time) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", services.Wrap(services.ErrValidation, "mix", "temp dir", "temp root is empty", nil)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", services.Wrap(services.ErrFilesystem, "mix", "temp dir", "create temp root", err)
	}
	stamp := now().UnixNano()
	for attempt := 0; attempt < maxTempDirAttempts; attempt++ {
		dir := filepath.Join(root, strconv.FormatInt(stamp, 10))
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", services.Wrap(services.ErrFilesystem, "mix", "temp dir", "create "+dir, err)
		}
		stamp++
	}
	return "", services.Wrap(services.ErrFilesystem, "mix", "temp dir",
		fmt.Sprintf("no free directory name after %d attempts", maxTempDirAttempts), nil)
}
