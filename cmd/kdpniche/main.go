package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aescanero/kdpniche/internal/application/analysis"
	"github.com/aescanero/kdpniche/internal/application/health"
	"github.com/aescanero/kdpniche/internal/config"
	"github.com/aescanero/kdpniche/pkg/adapters/events/memory"
	redisevents "github.com/aescanero/kdpniche/pkg/adapters/events/redis"
	metrics "github.com/aescanero/kdpniche/pkg/adapters/metrics/prometheus"
	"github.com/aescanero/kdpniche/pkg/adapters/provider"
	"github.com/aescanero/kdpniche/pkg/api/grpc"
	"github.com/aescanero/kdpniche/pkg/api/http"
	"github.com/aescanero/kdpniche/pkg/api/websocket"
	"github.com/aescanero/kdpniche/pkg/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting KDP niche backend",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsCollector := metrics.NewCollector(registry)

	// Event bus
	var (
		eventBus    ports.EventBus
		redisClient *goredis.Client
	)
	if cfg.UseRedis() {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

		eventBus = redisevents.NewStreamsEventBus(redisClient, cfg.Events.StreamPrefix, cfg.Events.StreamMaxLen, logger)
	} else {
		logger.Info("REDIS_ADDR not set, analysis events stay in process")
		eventBus = memory.NewInMemoryEventBus()
	}

	// Metrics provider
	metricsProvider, err := provider.NewProvider(&provider.Config{
		Name:   cfg.MetricsProvider,
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("failed to create metrics provider", zap.Error(err))
	}

	// Application components
	analysisService := analysis.NewService(
		metricsProvider,
		eventBus,
		metricsCollector,
		analysis.NewValidator(),
		cfg.Events.PublishTimeout,
		logger,
	)

	healthMonitor := health.NewMonitor(
		cfg.Timeouts.HealthCheckInterval,
		cfg.Timeouts.HealthCheckTimeout,
		metricsCollector,
		logger,
	)
	healthMonitor.Register("events", eventBus)
	healthMonitor.Start()

	// API servers
	httpServer := http.NewServer(&http.Config{
		Addr:           cfg.GetHTTPAddr(),
		AllowedOrigins: cfg.AllowedOrigins,
		Analysis:       analysisService,
		Health:         healthMonitor,
		Metrics:        metricsCollector,
		Gatherer:       registry,
		Logger:         logger,
	})
	httpServer.SetupWebSocket(websocket.NewHandler(eventBus, logger))

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	var grpcServer *grpc.Server
	if cfg.GRPCPort > 0 {
		grpcServer, err = grpc.NewServer(&grpc.Config{
			Addr:   cfg.GetGRPCAddr(),
			Logger: logger,
		})
		if err != nil {
			logger.Fatal("failed to create gRPC server", zap.Error(err))
		}

		go func() {
			if err := grpcServer.Start(); err != nil {
				logger.Fatal("gRPC server failed", zap.Error(err))
			}
		}()
	}

	logger.Info("KDP niche backend started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("grpc_port", cfg.GRPCPort),
		zap.String("metrics_provider", metricsProvider.Name()),
		zap.Bool("redis_events", cfg.UseRedis()))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if grpcServer != nil {
		if err := grpcServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("gRPC server shutdown error", zap.Error(err))
		}
	}

	healthMonitor.Stop()

	// Let in-flight analysis events reach the bus before it closes.
	analysisService.Wait()

	if err := eventBus.Close(); err != nil {
		logger.Error("event bus close error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	logger.Info("KDP niche backend shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
