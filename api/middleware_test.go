package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/garnizeh/talentflow/api"
	"github.com/garnizeh/talentflow/internal/simulate"
)

func TestLoggingMiddleware(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = api.RequestID(r.Context())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	handler := api.LoggingMiddleware(next)
	req := httptest.NewRequest(http.MethodGet, "/log", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)
	res := w.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if string(b) != "ok" {
		t.Fatalf("unexpected body: %q", string(b))
	}
	if seen == "" || res.Header.Get("X-Request-ID") != seen {
		t.Fatalf("expected generated request id in context and header, got %q / %q", seen, res.Header.Get("X-Request-ID"))
	}

	// a caller supplied id is kept
	req2 := httptest.NewRequest(http.MethodGet, "/log", nil)
	req2.Header.Set("X-Request-ID", "abc-123")
	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, req2)
	if seen != "abc-123" || w2.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("expected request id to be propagated, got %q", seen)
	}
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := api.CORSMiddleware(next)

	// OPTIONS should return 204 and not call next
	reqOpt := httptest.NewRequest(http.MethodOptions, "/cors", nil)
	wOpt := httptest.NewRecorder()
	handler.ServeHTTP(wOpt, reqOpt)
	resOpt := wOpt.Result()
	defer resOpt.Body.Close()
	if resOpt.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for OPTIONS, got %d", resOpt.StatusCode)
	}
	if got := resOpt.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected CORS header set, got %q", got)
	}

	// GET should pass through and set headers
	reqGet := httptest.NewRequest(http.MethodGet, "/cors", nil)
	wGet := httptest.NewRecorder()
	handler.ServeHTTP(wGet, reqGet)
	resGet := wGet.Result()
	defer resGet.Body.Close()
	if resGet.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for GET, got %d", resGet.StatusCode)
	}
	allow := resGet.Header.Get("Access-Control-Allow-Methods")
	for _, m := range []string{"GET", "PATCH", "PUT", "DELETE"} {
		if !strings.Contains(allow, m) {
			t.Fatalf("expected Allow-Methods to include %s, got %q", m, allow)
		}
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	// handler that panics
	pan := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := api.RecoveryMiddleware(pan)
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	res := w.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 from panic recovery, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "Internal Server Error") {
		t.Fatalf("unexpected body for recovery: %s", string(b))
	}

	// normal handler should pass through
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler2 := api.RecoveryMiddleware(ok)
	w2 := httptest.NewRecorder()
	handler2.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w2.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for normal path, got %d", w2.Result().StatusCode)
	}
}

func TestSimulate(t *testing.T) {
	cases := []struct {
		name       string
		policy     *simulate.Policy
		wantStatus int
		wantCalled bool
	}{
		{name: "NilPolicy", policy: nil, wantStatus: http.StatusTeapot, wantCalled: true},
		{name: "Disabled", policy: simulate.Disabled(), wantStatus: http.StatusTeapot, wantCalled: true},
		{name: "AlwaysFail", policy: simulate.AlwaysFail(), wantStatus: http.StatusInternalServerError, wantCalled: false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			called := false
			next := func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusTeapot)
			}
			w := httptest.NewRecorder()
			api.Simulate(c.policy, "jobs.create", next)(w, httptest.NewRequest(http.MethodPost, "/jobs", nil))
			if w.Code != c.wantStatus || called != c.wantCalled {
				t.Fatalf("%s: want %d (called=%v) got %d (called=%v)", c.name, c.wantStatus, c.wantCalled, w.Code, called)
			}
		})
	}
}

func TestSimulate_ClientGoneDuringDelay(t *testing.T) {
	policy := simulate.New(simulate.Options{MinDelay: time.Hour, MaxDelay: time.Hour, Seed: 1})
	called := false
	h := api.Simulate(policy, "jobs.create", func(w http.ResponseWriter, r *http.Request) { called = true })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/jobs", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	h(w, req)

	if called {
		t.Fatalf("handler must not run after the client went away")
	}
	if w.Body.Len() != 0 {
		t.Fatalf("expected no response body, got %q", w.Body.String())
	}
}

func TestSimulate_HandlerContextDetached(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := api.Simulate(simulate.Disabled(), "jobs.create", func(w http.ResponseWriter, r *http.Request) {
		cancel()
		if err := r.Context().Err(); err != nil {
			t.Errorf("handler context should survive client cancellation, got %v", err)
		}
	})
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/jobs", nil).WithContext(ctx))
}
