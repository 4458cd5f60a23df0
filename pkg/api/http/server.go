package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/aescanero/kdpniche/internal/application/analysis"
	"github.com/aescanero/kdpniche/internal/application/health"
	"github.com/aescanero/kdpniche/pkg/ports"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server represents the HTTP API server
type Server struct {
	router   *gin.Engine
	server   *http.Server
	analysis *analysis.Service
	health   *health.Monitor
	logger   *zap.Logger
}

// Config holds HTTP server configuration
type Config struct {
	Addr           string
	AllowedOrigins []string
	Analysis       *analysis.Service
	Health         *health.Monitor
	Metrics        ports.MetricsCollector
	Gatherer       prometheus.Gatherer
	Logger         *zap.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(requestMetrics(cfg.Metrics))
	}
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	s := &Server{
		router:   router,
		analysis: cfg.Analysis,
		health:   cfg.Health,
		logger:   cfg.Logger,
	}

	s.setupRoutes(cfg.Gatherer)

	s.server = &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	return s
}

// setupRoutes configures API routes
func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	s.router.GET("/", s.handleRoot)
	s.router.GET("/analyze", s.handleAnalyze)

	s.router.GET("/health", s.handleHealth)

	if gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}

// SetupWebSocket adds the analysis stream handler to the server
func (s *Server) SetupWebSocket(handler interface {
	HandleAnalysisStream(*gin.Context)
}) {
	s.router.GET("/analyze/stream", handler.HandleAnalysisStream)
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listening port and serves until Shutdown is called
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}

	s.logger.Info("server is listening", zap.String("addr", listener.Addr().String()))

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}
