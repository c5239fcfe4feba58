// Package server exposes the documentation site over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/b-editor/docsite/internal/apiref"
	"github.com/b-editor/docsite/internal/config"
	"github.com/b-editor/docsite/internal/content"
	"github.com/b-editor/docsite/internal/metrics"
	"github.com/b-editor/docsite/internal/render"
	"github.com/b-editor/docsite/internal/store"
)

// documentCompiler is the slice of the render compiler the handlers consume.
type documentCompiler interface {
	Compile(source, sourcePath string) (*render.Document, error)
}

// Server serves documentation pages and, optionally, Prometheus metrics on a
// separate listener.
type Server struct {
	cfg      *config.Config
	store    store.Store
	resolver *content.Resolver
	compiler documentCompiler
	library  *apiref.Library
	locale   *localeMatcher
	registry *prometheus.Registry

	docsServer    *http.Server
	metricsServer *http.Server

	// middleware chain
	mchain func(http.Handler) http.Handler
}

// New constructs a server over the given store and API reference library.
// registry may be nil when no metrics listener is configured.
func New(cfg *config.Config, st store.Store, library *apiref.Library, recorder metrics.Recorder, registry *prometheus.Registry) *Server {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	return &Server{
		cfg:      cfg,
		store:    st,
		resolver: content.NewResolver(st).WithRecorder(recorder),
		compiler: render.NewCompiler(cfg.Store.RawBaseURL()).WithRecorder(recorder),
		library:  library,
		locale:   newLocaleMatcher(cfg.Languages.Available, cfg.Languages.Default),
		registry: registry,
		mchain:   Chain(slog.Default()),
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /{lang}", s.handleDocs)
	mux.HandleFunc("GET /{lang}/{slug...}", s.handleDocs)
	mux.HandleFunc("GET /{lang}/api-reference", s.handleAPIIndex)
	mux.HandleFunc("GET /{lang}/api-reference/{uid}", s.handleAPIPage)
	return s.mchain(mux)
}

// Start binds the configured listeners and begins serving. Bind failures are
// reported before any server starts so a half-started process never lingers.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}

	docsListener, err := lc.Listen(ctx, "tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("bind docs listener on %s: %w", s.cfg.Server.Addr, err)
	}

	var metricsListener net.Listener
	if s.cfg.Server.MetricsAddr != "" && s.registry != nil {
		metricsListener, err = lc.Listen(ctx, "tcp", s.cfg.Server.MetricsAddr)
		if err != nil {
			_ = docsListener.Close()
			return fmt.Errorf("bind metrics listener on %s: %w", s.cfg.Server.MetricsAddr, err)
		}
	}

	s.docsServer = &http.Server{
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		if err := s.docsServer.Serve(docsListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Docs server stopped", "error", err)
		}
	}()
	slog.Info("Docs server listening", "addr", docsListener.Addr().String())

	if metricsListener != nil {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
		s.metricsServer = &http.Server{
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}
		go func() {
			if err := s.metricsServer.Serve(metricsListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server stopped", "error", err)
			}
		}()
		slog.Info("Metrics server listening", "addr", metricsListener.Addr().String())
	}

	return nil
}

// Shutdown stops the listeners gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.docsServer != nil {
		if err := s.docsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("docs server shutdown: %w", err))
		}
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.routes()
}
