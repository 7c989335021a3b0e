package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/campushq/catalog/internal/config"
	logpkg "github.com/campushq/catalog/internal/logger"
	"github.com/campushq/catalog/internal/metrics"
	catalogrepo "github.com/campushq/catalog/internal/repository/catalog"
	chiTransport "github.com/campushq/catalog/internal/transport/chi"
	cataloguc "github.com/campushq/catalog/internal/usecase/catalog"
	healthuc "github.com/campushq/catalog/internal/usecase/health"
	searchuc "github.com/campushq/catalog/internal/usecase/search"
	transferuc "github.com/campushq/catalog/internal/usecase/transfer"
	"github.com/campushq/catalog/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting catalogd API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
	)

	// In-memory store seeded with the sample datasets
	repo, err := catalogrepo.NewSeeded()
	if err != nil {
		logger.Fatal("Failed to load seed datasets", zap.Error(err))
	}

	// Register engine metrics explicitly (no init())
	metrics.RegisterEngineMetrics()

	// Build the evaluator chain — composition root
	var evaluator searchuc.Evaluator = searchuc.New(repo, repo)
	if ttl := cfg.Cache.TTL(); ttl > 0 {
		cache := gocache.New(ttl, 2*ttl)
		evaluator = searchuc.NewCached(evaluator, repo, cache, metrics.SearchCacheTotal, logger)
		logger.Info("Search result cache enabled", zap.Duration("ttl", ttl))
	}
	evaluator = searchuc.NewInstrumented(evaluator, metrics.SearchesTotal)

	catalogSvc := cataloguc.New(repo)

	transferSvc := transferuc.New(transferuc.Config{
		TickInterval: cfg.Transfer.TickInterval(),
		LingerDelay:  cfg.Transfer.LingerDelay(),
		Increment:    incrementFunc(cfg.Transfer.MinIncrement, cfg.Transfer.MaxIncrement),
	}, logger).WithMetrics(metrics.TransfersStartedTotal, metrics.TransfersCompletedTotal)
	defer transferSvc.Close()

	healthSvc := healthuc.New(repo)

	server := chiTransport.NewServer(catalogSvc, evaluator, transferSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// incrementFunc returns a random progress increment in [min, max).
func incrementFunc(min, max float64) func() float64 {
	return func() float64 {
		return min + rand.Float64()*(max-min) //nolint:gosec // simulation only
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
