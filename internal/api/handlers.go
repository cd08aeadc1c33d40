package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"trackmix/internal/deps"
	"trackmix/internal/logging"
	"trackmix/internal/media/tracks"
	"trackmix/internal/services"
	"trackmix/internal/watchlist"
)

const maxBodyBytes = 1 << 20

var errJournalDisabled = errors.New("job journal is disabled")

// Tools reports external tool availability.
func (h *Handler) Tools(w http.ResponseWriter, r *http.Request) {
	var statuses []deps.Status
	if h.svc.Tools != nil {
		statuses = h.svc.Tools()
	}
	if statuses == nil {
		statuses = []deps.Status{}
	}
	writeJSON(w, http.StatusOK, ToolsResponse{Ready: deps.AllAvailable(statuses), Tools: statuses})
}

// Probe lists the tracks of one kind in a file.
func (h *Handler) Probe(w http.ResponseWriter, r *http.Request) {
	var req ProbeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Kind) == "" {
		h.fail(w, r, services.Wrap(services.ErrValidation, "api", "probe", "kind is required", nil))
		return
	}
	result, err := h.svc.Prober.Probe(r.Context(), req.Path, req.Kind)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if result.Tracks == nil {
		result.Tracks = []tracks.Track{}
	}
	writeJSON(w, http.StatusOK, result)
}

// Size reports the human-readable size of ?path=.
func (h *Handler) Size(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	size, err := h.svc.FileSize(path)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SizeResponse{Size: size})
}

// Mix runs the remux pipeline synchronously.
func (h *Handler) Mix(w http.ResponseWriter, r *http.Request) {
	var req MixRequest
	if !h.decode(w, r, &req) {
		return
	}
	output, err := h.svc.Mixer.Mix(r.Context(), req.Inputs, req.OutputPath)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MixResponse{OutputPath: output})
}

// ListJobs returns recent jobs, newest first.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	if h.svc.Jobs == nil {
		writeJSONError(w, errJournalDisabled.Error(), http.StatusServiceUnavailable)
		return
	}
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.fail(w, r, services.Wrap(services.ErrValidation, "api", "jobs", fmt.Sprintf("invalid limit %q", raw), nil))
			return
		}
		limit = n
	}
	records, err := h.svc.Jobs.List(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	now := h.svc.Now()
	resp := JobListResponse{Jobs: make([]Job, 0, len(records))}
	for _, rec := range records {
		resp.Jobs = append(resp.Jobs, FromRecord(rec, now))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetJob returns one job with its events.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	if h.svc.Jobs == nil {
		writeJSONError(w, errJournalDisabled.Error(), http.StatusServiceUnavailable)
		return
	}
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		writeJSONError(w, "job id is required", http.StatusBadRequest)
		return
	}
	rec, err := h.svc.Jobs.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if rec == nil {
		writeJSONError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, FromRecord(*rec, h.svc.Now()))
}

// ListWatchlist returns the watchlist ordered by id.
func (h *Handler) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Watchlist.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

// SaveWatchlist inserts, replaces or removes one subject.
func (h *Handler) SaveWatchlist(w http.ResponseWriter, r *http.Request) {
	var subject watchlist.Subject
	if !h.decode(w, r, &subject) {
		return
	}
	list, err := h.svc.Watchlist.Save(r.Context(), subject)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func nonNil(list []watchlist.Subject) []watchlist.Subject {
	if list == nil {
		return []watchlist.Subject{}
	}
	return list
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		h.fail(w, r, services.Wrap(services.ErrValidation, "api", "decode", "invalid request body", err))
		return false
	}
	return true
}

// fail maps err to a status code and writes it.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	logger := logging.WithContext(r.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		logging.ErrorWithContext(logger, "request failed", "request_failed",
			logging.String("path", r.URL.Path),
			logging.Int("status", status),
			logging.Error(err),
		)
	} else {
		logger.Debug("request rejected",
			logging.String("path", r.URL.Path),
			logging.Int("status", status),
			logging.Error(err),
		)
	}
	writeJSONError(w, err.Error(), status)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrToolNotFound):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeJSONError writes a JSON error response
func writeJSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
