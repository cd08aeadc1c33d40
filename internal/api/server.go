package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"trackmix/internal/deps"
	"trackmix/internal/jobs"
	"trackmix/internal/logging"
	"trackmix/internal/media/tracks"
	"trackmix/internal/mix"
	"trackmix/internal/watchlist"
)

const shutdownTimeout = 10 * time.Second

// Prober inspects one kind of track in a file.
type Prober interface {
	Probe(ctx context.Context, path, kind string) (tracks.Result, error)
}

// Mixer runs the remux pipeline.
type Mixer interface {
	Mix(ctx context.Context, selections []mix.Selection, outputPath string) (string, error)
}

// JobStore reads the mix journal.
type JobStore interface {
	List(ctx context.Context, limit int) ([]jobs.Record, error)
	Get(ctx context.Context, id string) (*jobs.Record, error)
}

// WatchlistStore reads and updates the watchlist.
type WatchlistStore interface {
	List(ctx context.Context) ([]watchlist.Subject, error)
	Save(ctx context.Context, subject watchlist.Subject) ([]watchlist.Subject, error)
}

var (
	_ Prober         = (*tracks.Prober)(nil)
	_ Mixer          = (*mix.Executor)(nil)
	_ JobStore       = (*jobs.Store)(nil)
	_ WatchlistStore = (*watchlist.Store)(nil)
)

// Services are the collaborators behind the routes. Jobs may be nil when the
// journal is disabled. Limiter, when set, gates the routes that spawn tools.
type Services struct {
	Prober    Prober
	Mixer     Mixer
	Jobs      JobStore
	Watchlist WatchlistStore
	Tools     func() []deps.Status
	FileSize  func(path string) (string, error)
	Now       func() time.Time
	Limiter   *rate.Limiter
}

// Handler serves the API routes.
type Handler struct {
	svc    Services
	logger *slog.Logger
	router *mux.Router
}

// NewHandler wires routes for svc.
func NewHandler(svc Services, logger *slog.Logger) *Handler {
	if svc.FileSize == nil {
		svc.FileSize = tracks.FileSize
	}
	if svc.Now == nil {
		svc.Now = time.Now
	}
	h := &Handler{svc: svc, logger: logging.NewComponentLogger(logger, "api")}

	r := mux.NewRouter()
	r.Use(h.withRequestID, h.withAccessLog)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tools", h.Tools).Methods(http.MethodGet)
	api.Handle("/probe", h.limited(h.Probe)).Methods(http.MethodPost)
	api.HandleFunc("/size", h.Size).Methods(http.MethodGet)
	api.Handle("/mix", h.limited(h.Mix)).Methods(http.MethodPost)
	api.HandleFunc("/jobs", h.ListJobs).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}", h.GetJob).Methods(http.MethodGet)
	api.HandleFunc("/watchlist", h.ListWatchlist).Methods(http.MethodGet)
	api.HandleFunc("/watchlist", h.SaveWatchlist).Methods(http.MethodPost)
	// Both routers need the fallbacks: mismatches under /api are resolved by
	// the subrouter.
	notFound := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, "not found", http.StatusNotFound)
	})
	notAllowed := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
	})
	for _, router := range []*mux.Router{r, api} {
		router.NotFoundHandler = notFound
		router.MethodNotAllowedHandler = notAllowed
	}
	h.router = r
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Server owns the listener lifecycle.
type Server struct {
	bind    string
	handler http.Handler
	logger  *slog.Logger
}

// NewServer prepares a server bound to bind.
func NewServer(bind string, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{bind: bind, handler: handler, logger: logging.NewComponentLogger(logger, "api")}
}

// Serve listens until ctx is canceled, then drains in-flight requests.
// ready, when non-nil, receives the bound address once listening.
func (s *Server) Serve(ctx context.Context, ready func(addr string)) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.bind, err)
	}
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	addr := listener.Addr().String()
	s.logger.Info("api listening",
		logging.String(logging.FieldEventType, "api_listening"),
		logging.String("bind", addr),
	)
	if ready != nil {
		ready(addr)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.WarnWithContext(s.logger, "api shutdown incomplete", "api_shutdown_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "in-flight requests were dropped"),
		)
		return err
	}
	s.logger.Info("api stopped", logging.String(logging.FieldEventType, "api_stopped"))
	return nil
}
