package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/config"
	dbRedis "github.com/kailas-cloud/shopsearch/internal/db/redis"
	"github.com/kailas-cloud/shopsearch/internal/domain"
	logpkg "github.com/kailas-cloud/shopsearch/internal/logger"
	"github.com/kailas-cloud/shopsearch/internal/metrics"
	analyticsrepo "github.com/kailas-cloud/shopsearch/internal/repository/analytics"
	productrepo "github.com/kailas-cloud/shopsearch/internal/repository/product"
	"github.com/kailas-cloud/shopsearch/internal/repository/searchcache"
	"github.com/kailas-cloud/shopsearch/internal/repository/shopconfig"
	chiTransport "github.com/kailas-cloud/shopsearch/internal/transport/chi"
	openaiClient "github.com/kailas-cloud/shopsearch/internal/transport/openai"
	healthuc "github.com/kailas-cloud/shopsearch/internal/usecase/health"
	rankinguc "github.com/kailas-cloud/shopsearch/internal/usecase/ranking"
	searchuc "github.com/kailas-cloud/shopsearch/internal/usecase/search"
	"github.com/kailas-cloud/shopsearch/internal/version"
)

func main() {
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

	logger.Info("Starting shopsearch API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register Prometheus metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	embedder := openaiClient.NewEmbedder(&openaiClient.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})

	rankingSvc := buildRankingService(cfg.Ranking, logger)

	// The query parser shares the primary ranking provider's endpoint.
	parser := openaiClient.NewQueryParser(&openaiClient.ParserConfig{
		APIKey:  cfg.Ranking.Primary.APIKey,
		BaseURL: cfg.Ranking.Primary.BaseURL,
		Model:   cfg.Ranking.Primary.Model,
		Logger:  logger,
	})

	productRepo := productrepo.New(store)
	shopRepo := shopconfig.New(store, logger)
	cache := searchcache.New(
		store,
		time.Duration(cfg.Cache.TTLSec)*time.Second,
		cfg.Cache.Enabled,
		metrics.CacheTotal,
		logger,
	)

	sink, err := analyticsrepo.New(
		store, cfg.Analytics.Workers, cfg.Analytics.QueueSize, cfg.Analytics.Enabled, logger)
	if err != nil {
		logger.Fatal("Failed to create analytics sink", zap.Error(err))
	}
	defer sink.Close()

	searchSvc := searchuc.New(
		productRepo, embedder, rankingSvc, cache, shopRepo, parser, sink,
		searchuc.Options{
			VectorWeight:    cfg.Search.VectorWeight,
			KeywordWeight:   cfg.Search.KeywordWeight,
			RRFConstant:     cfg.Search.RRFConstant,
			OverFetchFactor: cfg.Search.OverFetchFactor,
			AITimeout:       time.Duration(cfg.Search.AITimeoutMs) * time.Millisecond,
		},
	)

	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(embedder))

	server := chiTransport.NewServer(searchSvc, cache, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

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

// buildRankingService wires the primary/secondary LLM providers. Secondary
// is optional; with no providers configured every ranking run is heuristic.
func buildRankingService(cfg config.RankingConfig, logger *zap.Logger) *rankinguc.Service {
	var primary, secondary rankinguc.Provider

	if cfg.Primary.Model != "" {
		primary = openaiClient.NewRanker(&openaiClient.RankerConfig{
			APIKey:  cfg.Primary.APIKey,
			BaseURL: cfg.Primary.BaseURL,
			Model:   cfg.Primary.Model,
			Logger:  logger,
		})
	}
	if cfg.Secondary.Model != "" {
		secondary = openaiClient.NewRanker(&openaiClient.RankerConfig{
			APIKey:  cfg.Secondary.APIKey,
			BaseURL: cfg.Secondary.BaseURL,
			Model:   cfg.Secondary.Model,
			Logger:  logger,
		})
	}

	return rankinguc.New(
		primary, secondary,
		cfg.MaxCandidates,
		time.Duration(cfg.TimeoutSec)*time.Second,
		logger,
	)
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
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

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
