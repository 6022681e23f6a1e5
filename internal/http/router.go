package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/preston-bernstein/scoreboard-service/internal/http/handlers"
	"github.com/preston-bernstein/scoreboard-service/internal/http/middleware"
	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
)

// RouterOptions carries the collaborators NewRouter wires around the handlers.
type RouterOptions struct {
	Logger         *slog.Logger
	Recorder       *metrics.Recorder
	AllowedOrigins []string
	// Stream serves the live feed. The route is omitted when nil.
	Stream nethttp.Handler
}

// NewRouter registers HTTP routes on a chi router.
func NewRouter(h *handlers.Handler, opts RouterOptions) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(opts.AllowedOrigins),
		AllowedMethods: []string{nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodPut, nethttp.MethodDelete, nethttp.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.HeaderRequestID},
		ExposedHeaders: []string{middleware.HeaderRequestID, "Location"},
		MaxAge:         300,
	}))
	r.Use(middleware.Logging(opts.Logger, opts.Recorder))

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Route("/matches", func(r chi.Router) {
		r.Get("/", h.ListMatches)
		r.Post("/", h.CreateMatch)
		if opts.Stream != nil {
			r.Handle("/stream", opts.Stream)
		}
		r.Get("/{id}", h.GetMatch)
		r.Delete("/{id}", h.EndMatch)
		r.Put("/{id}/score", h.UpdateScore)
	})
	return r
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
