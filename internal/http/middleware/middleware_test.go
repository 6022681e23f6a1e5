package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
	"github.com/preston-bernstein/scoreboard-service/internal/testutil"
)

func TestLoggingMiddlewareSetsRequestIDAndLogger(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	rec := metrics.NewRecorder()
	nextCalled := false

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		if got := RequestIDFromContext(r.Context()); got == "" {
			t.Fatalf("expected request id in context")
		}
		if logging.FromContext(r.Context(), nil) == nil {
			t.Fatalf("expected request logger in context")
		}
		w.WriteHeader(http.StatusTeapot)
	})

	handler := LoggingMiddleware(logger, rec, next)
	rr := testutil.Serve(handler, http.MethodGet, "/matches", nil)

	if !nextCalled {
		t.Fatalf("expected next handler to be called")
	}
	testutil.AssertStatus(t, rr, http.StatusTeapot)
	if got := rr.Header().Get(HeaderRequestID); got == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
	if !strings.Contains(buf.String(), "status_code=418") {
		t.Fatalf("expected status in log, got %q", buf.String())
	}
}

func TestLoggingMiddlewareKeepsValidIncomingRequestID(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	handler := LoggingMiddleware(logger, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := RequestIDFromContext(r.Context()); got != "abc-123" {
			t.Fatalf("expected incoming id, got %s", got)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/matches", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rr := testutil.ServeRequest(handler, req)

	if got := rr.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("expected echoed id, got %s", got)
	}
}

func TestLoggingMiddlewareNilLoggerFallsBack(t *testing.T) {
	handler := LoggingMiddleware(nil, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rr := testutil.Serve(handler, http.MethodDelete, "/matches/x", nil)
	testutil.AssertStatus(t, rr, http.StatusNoContent)
}

func TestLoggingAdapterWrapsChiRoutes(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()

	r := chi.NewRouter()
	r.Use(Logging(logger, metrics.NewRecorder()))
	r.Get("/matches/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := testutil.Serve(r, http.MethodGet, "/matches/abc", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if rr.Header().Get(HeaderRequestID) == "" {
		t.Fatalf("expected request id header")
	}
	if !strings.Contains(buf.String(), "path=/matches/abc") {
		t.Fatalf("expected request path logged, got %q", buf.String())
	}
}

func TestRoutePatternPrefersChiPattern(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/matches/abc", nil)
	rctx := chi.NewRouteContext()
	rctx.RoutePatterns = []string{"/matches/{id}"}
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	if got := routePattern(req); got != "/matches/{id}" {
		t.Fatalf("expected chi pattern, got %s", got)
	}

	plain := httptest.NewRequest(http.MethodPut, "/matches/abc/score", nil)
	if got := routePattern(plain); got != "/matches/{id}/score" {
		t.Fatalf("expected normalized fallback, got %s", got)
	}
}

func TestSanitizeRequestID(t *testing.T) {
	if got := SanitizeRequestID("valid-123"); got != "valid-123" {
		t.Fatalf("expected pass-through, got %s", got)
	}
	if got := SanitizeRequestID("bad id"); got == "" || got == "bad id" {
		t.Fatalf("expected sanitized id, got %s", got)
	}
	if got := SanitizeRequestID(strings.Repeat("a", 65)); len(got) != 16 {
		t.Fatalf("expected generated id for oversized input, got %s", got)
	}
}

func TestClientIP(t *testing.T) {
	if got := ClientIP(nil); got != "" {
		t.Fatalf("expected empty for nil request, got %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	if got := ClientIP(req); got != "1.2.3.4" {
		t.Fatalf("expected first forwarded address, got %s", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "9.9.9.9:1234"
	if got := ClientIP(req); got != "9.9.9.9:1234" {
		t.Fatalf("expected remote addr fallback, got %s", got)
	}
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/matches":           "/matches",
		"/matches/stream":    "/matches/stream",
		"/matches/abc":       "/matches/{id}",
		"/matches/abc/score": "/matches/{id}/score",
		"/health?verbose=1":  "/health",
	}
	for in, want := range cases {
		if got := normalizePath(in); got != want {
			t.Fatalf("normalizePath(%q): expected %s, got %s", in, want, got)
		}
	}
}
