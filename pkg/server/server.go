// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz              liveness and build version
//	GET  /metrics              Prometheus metrics
//	POST /v1/layout            {"graph": ..., "options": ...} → layout JSON
//	POST /v1/render?format=svg same body → rendered artifact
//
// Request options are applied over the configured defaults with
// [pipeline.Options.Overlay]. Identical requests that arrive while one is
// being computed share its result.
//
// Errors are returned as JSON with the error code, a message and the
// request ID. Input errors map to 4xx statuses, everything else to 5xx.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/sankey/pkg/config"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

// shutdownTimeout bounds graceful shutdown after the context is cancelled.
const shutdownTimeout = 10 * time.Second

// Options configures a [Server].
type Options struct {
	// Config holds listen address, timeouts and the body size limit.
	// Zero values fall back to the config package defaults.
	Config config.Server

	// Defaults are the pipeline options requests are applied over.
	Defaults pipeline.Options

	// Logger receives request logs. Nil discards them.
	Logger *log.Logger

	// Gatherer backs /metrics. Nil uses prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// Server serves layout and render requests from a shared [pipeline.Runner].
type Server struct {
	runner   *pipeline.Runner
	cfg      config.Server
	defaults pipeline.Options
	logger   *log.Logger
	gatherer prometheus.Gatherer

	group  singleflight.Group
	router chi.Router
}

// New builds a server and its routes.
func New(runner *pipeline.Runner, opts Options) *Server {
	s := &Server{
		runner:   runner,
		cfg:      withDefaults(opts.Config),
		defaults: opts.Defaults,
		logger:   opts.Logger,
		gatherer: opts.Gatherer,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	s.router = s.routes()
	return s
}

func withDefaults(c config.Server) config.Server {
	if c.Addr == "" {
		c.Addr = config.DefaultAddr
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = config.DefaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = config.DefaultWriteTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = config.DefaultRequestTimeout
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = config.DefaultMaxBodyBytes
	}
	return c
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound(r))
	})
	r.MethodNotAllowed(writeMethodNotAllowed)
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
