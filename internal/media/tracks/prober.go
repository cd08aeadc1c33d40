package tracks

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"trackmix/internal/logging"
	"trackmix/internal/media/ffprobe"
	"trackmix/internal/media/mkvmerge"
	"trackmix/internal/services"
)

// Backend names the analyzer used for a file.
type Backend string

const (
	BackendGeneric  Backend = "generic"
	BackendMatroska Backend = "matroska"
)

// SelectBackend routes mkv/mka/mks (any case) to the Matroska analyzer and
// everything else to ffprobe.
func SelectBackend(path string) Backend {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "mkv", "mka", "mks":
		return BackendMatroska
	default:
		return BackendGeneric
	}
}

// ToolResolver maps a tool name to an executable path.
type ToolResolver interface {
	Resolve(name string) (string, error)
}

// Prober runs the analyzers. The zero value is not usable; construct with
// NewProber.
type Prober struct {
	tools       ToolResolver
	runner      services.Runner
	ffprobe     string
	mkvIdentify string
	timeout     time.Duration
	logger      *slog.Logger
}

// ProberOption customizes a Prober.
type ProberOption func(*Prober)

// WithRunner overrides the command runner.
func WithRunner(r services.Runner) ProberOption {
	return func(p *Prober) {
		if r != nil {
			p.runner = r
		}
	}
}

// WithToolNames overrides the analyzer binary names.
func WithToolNames(ffprobeName, mkvIdentifyName string) ProberOption {
	return func(p *Prober) {
		if ffprobeName != "" {
			p.ffprobe = ffprobeName
		}
		if mkvIdentifyName != "" {
			p.mkvIdentify = mkvIdentifyName
		}
	}
}

// WithTimeout bounds each analyzer invocation. Zero disables the bound.
func WithTimeout(d time.Duration) ProberOption {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ProberOption {
	return func(p *Prober) {
		p.logger = logger
	}
}

// NewProber builds a Prober that resolves analyzers through tools.
func NewProber(tools ToolResolver, opts ...ProberOption) *Prober {
	p := &Prober{
		tools:       tools,
		runner:      services.ExecRunner{},
		ffprobe:     "ffprobe",
		mkvIdentify: "mkvmerge",
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, "probe")
	return p
}

// Probe lists the tracks of kind inside path.
func (p *Prober) Probe(ctx context.Context, path, kind string) (Result, error) {
	if strings.TrimSpace(path) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "tracks", "probe", "path is empty", nil)
	}
	k := ParseKind(kind)
	backend := SelectBackend(path)

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	logger := logging.WithContext(ctx, p.logger)
	started := time.Now()

	var tracks []Track
	var sizeBytes uint64
	switch backend {
	case BackendMatroska:
		binary, err := p.tools.Resolve(p.mkvIdentify)
		if err != nil {
			return Result{}, err
		}
		report, err := mkvmerge.Identify(ctx, p.runner, binary, path)
		if err != nil {
			logger.Debug("matroska identification failed", logging.String("source_path", path), logging.Error(err))
			return Result{}, err
		}
		tracks = FromMatroska(report, k)
		sizeBytes, _ = report.FileSize()
	default:
		binary, err := p.tools.Resolve(p.ffprobe)
		if err != nil {
			return Result{}, err
		}
		report, err := ffprobe.Inspect(ctx, p.runner, binary, path)
		if err != nil {
			logger.Debug("ffprobe inspection failed", logging.String("source_path", path), logging.Error(err))
			return Result{}, err
		}
		tracks = FromFFprobe(report, k)
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "probe_complete"),
		logging.String("backend", string(backend)),
		logging.String("kind", string(k)),
		logging.String("source_path", path),
		logging.Int("track_count", len(tracks)),
		logging.Duration("stage_duration", time.Since(started)),
	}
	if sizeBytes > 0 {
		attrs = append(attrs, slog.Uint64("size_bytes", sizeBytes))
	}
	logger.Debug("probe complete", logging.Args(attrs...)...)
	return Result{Tracks: tracks}, nil
}
