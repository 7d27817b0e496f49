// Package server exposes mind maps over HTTP.
//
// Routes:
//
//	GET  /healthz                               build info
//	GET  /help[?command=name]                   command table or one entry
//	POST /render?format=png                     render a posted record
//	GET  /users/{user}/maps                     map summaries
//	GET  /users/{user}/maps/{mapID}             stored record
//	GET  /users/{user}/maps/{mapID}/image       rendered map
//
// Errors are JSON objects {"code": ..., "message": ...}. Invalid input maps
// to 400, the not-found codes to 404 and everything else to 500.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mindmap/pkg/help"
	"github.com/matzehuels/mindmap/pkg/notes"
	"github.com/matzehuels/mindmap/pkg/pipeline"
)

// MaxBodySize limits the size of posted records.
const MaxBodySize = 8 << 20

const shutdownTimeout = 10 * time.Second

// Server serves the HTTP API.
type Server struct {
	notes   *notes.Service
	runner  *pipeline.Runner
	help    *help.Registry
	logger  *log.Logger
	options pipeline.Options
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithHelp sets the registry served at /help.
func WithHelp(r *help.Registry) Option { return func(s *Server) { s.help = r } }

// WithRenderOptions sets the defaults for watermark and concurrency.
// Formats are always taken from the request.
func WithRenderOptions(o pipeline.Options) Option { return func(s *Server) { s.options = o } }

// New returns a server backed by svc and runner.
func New(svc *notes.Service, runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		notes:  svc,
		runner: runner,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.help == nil {
		s.help = help.NewRegistry("mindmap", nil)
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hooks)

	r.Get("/healthz", s.handleHealth)
	r.Get("/help", s.handleHelp)
	r.Post("/render", s.handleRender)

	r.Route("/users/{user}/maps", func(r chi.Router) {
		r.Get("/", s.handleListMaps)
		r.Get("/{mapID}", s.handleGetMap)
		r.Get("/{mapID}/image", s.handleMapImage)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
