package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"trackmix/internal/api"
	"trackmix/internal/logging"
	"trackmix/internal/media/tracks"
)

func TestRateLimitGatesToolRoutes(t *testing.T) {
	prober := &fakeProber{result: tracks.Result{Tracks: []tracks.Track{}}}
	handler := api.NewHandler(api.Services{
		Prober:  prober,
		Mixer:   &fakeMixer{},
		Limiter: rate.NewLimiter(rate.Every(time.Hour), 1),
	}, logging.NewNop())

	probe := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/probe", strings.NewReader(`{"path":"a.mkv","kind":"audio"}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := probe(); rec.Code != http.StatusOK {
		t.Fatalf("first probe status = %d body=%s", rec.Code, rec.Body.String())
	}
	rec := probe()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second probe status = %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
	if !strings.Contains(rec.Body.String(), "rate limit exceeded") {
		t.Fatalf("body = %s", rec.Body.String())
	}

	// The limiter is shared between probe and mix.
	req := httptest.NewRequest(http.MethodPost, "/api/mix", strings.NewReader(`{"inputs":[],"outputPath":"x"}`))
	mixRec := httptest.NewRecorder()
	handler.ServeHTTP(mixRec, req)
	if mixRec.Code != http.StatusTooManyRequests {
		t.Fatalf("mix status = %d", mixRec.Code)
	}
}

func TestNoLimiterLeavesRoutesOpen(t *testing.T) {
	handler := api.NewHandler(api.Services{
		Prober: &fakeProber{},
		Mixer:  &fakeMixer{},
	}, logging.NewNop())
	for range 5 {
		req := httptest.NewRequest(http.MethodPost, "/api/probe", strings.NewReader(`{"path":"a.mkv","kind":"audio"}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	}
}
