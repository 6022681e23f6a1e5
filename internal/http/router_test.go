package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/preston-bernstein/scoreboard-service/internal/http/handlers"
	"github.com/preston-bernstein/scoreboard-service/internal/http/middleware"
	"github.com/preston-bernstein/scoreboard-service/internal/testutil"
)

func newRouter(t *testing.T, opts RouterOptions) http.Handler {
	t.Helper()
	svc, _ := testutil.NewServiceWithMatches(t, testutil.WorldCupFixtures)
	logger, _ := testutil.NewBufferLogger()
	if opts.Logger == nil {
		opts.Logger = logger
	}
	return NewRouter(handlers.NewHandler(svc, logger), opts)
}

func TestRouterRoutesKnownPaths(t *testing.T) {
	router := newRouter(t, RouterOptions{})

	cases := map[string]int{
		"/health":       http.StatusOK,
		"/ready":        http.StatusOK,
		"/matches":      http.StatusOK,
		"/matches/foo":  http.StatusNotFound,
		"/does-not-fit": http.StatusNotFound,
	}

	for path, expected := range cases {
		rr := testutil.Serve(router, http.MethodGet, path, nil)
		if rr.Code != expected {
			t.Fatalf("route %s expected status %d, got %d", path, expected, rr.Code)
		}
	}
}

func TestRouterSetsRequestIDHeader(t *testing.T) {
	router := newRouter(t, RouterOptions{})

	rr := testutil.Serve(router, http.MethodGet, "/health", nil)
	if rr.Header().Get(middleware.HeaderRequestID) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestRouterStreamRoute(t *testing.T) {
	stream := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	router := newRouter(t, RouterOptions{Stream: stream})

	rr := testutil.Serve(router, http.MethodGet, "/matches/stream", nil)
	testutil.AssertStatus(t, rr, http.StatusTeapot)

	withoutStream := newRouter(t, RouterOptions{})
	rr = testutil.Serve(withoutStream, http.MethodGet, "/matches/stream", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newRouter(t, RouterOptions{AllowedOrigins: []string{"https://board.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/matches", nil)
	req.Header.Set("Origin", "https://board.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := testutil.ServeRequest(router, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://board.example" {
		t.Fatalf("expected allowed origin echoed, got %q", got)
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost) {
		t.Fatalf("expected POST in allowed methods, got %q", rr.Header().Get("Access-Control-Allow-Methods"))
	}
}

func TestRouterCORSRejectsUnknownOrigin(t *testing.T) {
	router := newRouter(t, RouterOptions{AllowedOrigins: []string{"https://board.example"}})

	req := httptest.NewRequest(http.MethodGet, "/matches", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr := testutil.ServeRequest(router, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin header, got %q", got)
	}
}
