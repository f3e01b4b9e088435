// SPDX-License-Identifier: MIT

// Package server exposes decompositions over HTTP.
//
// Routes:
//
//	GET  /health        liveness plus the loaded dataset's identity
//	GET  /v1/catalog    sorted stressors, regions and sectors
//	POST /v1/decompose  {stressor, region, sector, policy?, top?}
//	POST /v1/reload     drop the cached dataset; the next request reloads
//	GET  /metrics       Prometheus exposition
//
// Errors are JSON {"error", "kind", "request_id"} with the underlying message
// verbatim: unknown stressor or target → 404, invalid policy or malformed
// request → 400, alignment gap → 422 (with the missing-producer sample),
// anything else → 500.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/katalvlaran/mrio/config"
	"github.com/katalvlaran/mrio/dataset"
	"github.com/katalvlaran/mrio/decomp"
)

// Datasets is the server's view of the dataset cache. *dataset.Cache implements it.
type Datasets interface {
	Get(ctx context.Context) (*dataset.Snapshot, error)
	Current() *dataset.Snapshot
	Invalidate()
}

// Server is the HTTP front end.
type Server struct {
	data    Datasets
	cfg     config.ServerConfig
	policy  decomp.Policy
	service string
	logger  *zap.Logger
	metrics http.Handler
	engine  *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger; nil panics.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("server: WithLogger(nil)")
	}
	return func(s *Server) { s.logger = l }
}

// WithConfig sets listen address, timeouts, gin mode and the top-N cap.
func WithConfig(c config.ServerConfig) Option {
	return func(s *Server) { s.cfg = c }
}

// WithDefaultPolicy sets the policy used when a request omits one.
func WithDefaultPolicy(p decomp.Policy) Option {
	if err := p.Validate(); err != nil {
		panic(err)
	}
	return func(s *Server) { s.policy = p }
}

// WithServiceName names the otelgin spans.
func WithServiceName(name string) Option {
	return func(s *Server) { s.service = name }
}

// WithMetricsHandler replaces promhttp.Handler() on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// New builds a Server and its routes.
func New(data Datasets, opts ...Option) *Server {
	s := &Server{
		data:    data,
		cfg:     config.Default().Server,
		policy:  decomp.DefaultPolicy,
		service: "mrio",
		logger:  zap.NewNop(),
		metrics: promhttp.Handler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()

	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	if s.cfg.Mode != "" {
		gin.SetMode(s.cfg.Mode)
	}
	r := gin.New()
	r.Use(
		requestID(),
		accessLog(s.logger),
		recovery(s.logger),
		otelgin.Middleware(s.service),
	)

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(s.metrics))
	v1 := r.Group("/v1")
	{
		v1.GET("/catalog", s.catalog)
		v1.POST("/decompose", s.decompose)
		v1.POST("/reload", s.reload)
	}

	return r
}

// Run serves on the configured address until ctx is done, then shuts down
// gracefully within ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.cfg.Addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("http server listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	s.logger.Info("http server stopped")

	return nil
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.cfg.ShutdownTimeout > 0 {
		return s.cfg.ShutdownTimeout
	}
	return 10 * time.Second
}
