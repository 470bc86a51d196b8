package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/krau/SaveFolio/core/archive"
	"github.com/krau/SaveFolio/core/extract"
	"github.com/krau/SaveFolio/core/relay"
)

type Options struct {
	Extract *extract.Service
	Archive *archive.Builder
	Relay   *relay.Relay
	// Limiter throttles /extract per client. Nil disables it.
	Limiter     *RateLimiter
	CORSOrigins []string
}

type Server struct {
	extract *extract.Service
	archive *archive.Builder
	relay   *relay.Relay
	limiter *RateLimiter
	handler http.Handler
}

func New(ctx context.Context, opts Options) *Server {
	s := &Server{
		extract: opts.Extract,
		archive: opts.Archive,
		relay:   opts.Relay,
		limiter: opts.Limiter,
	}
	logger := log.FromContext(ctx).WithPrefix("api")

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.handler = loggingMiddleware(logger)(
		recoveryMiddleware(
			corsMiddleware(opts.CORSOrigins)(mux)))
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /extract", s.rateLimited(s.handleExtract))
	mux.HandleFunc("POST /download-zip", s.handleDownloadZip)
	mux.HandleFunc("GET /proxy", s.handleProxy)
	mux.HandleFunc("POST /cache", s.handleCache)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	logger := log.FromContext(ctx).WithPrefix("api")
	server := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 15 * time.Second,
		// archives stream for as long as their assets take
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Failed to shutdown API server: %v", err)
		} else {
			logger.Info("API server stopped")
		}
	}()

	logger.Infof("Starting API server on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
