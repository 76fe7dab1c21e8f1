package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/NeilARaman/Echo/internal/chunker"
	"github.com/NeilARaman/Echo/internal/config"
	"github.com/NeilARaman/Echo/internal/db"
	dbRedis "github.com/NeilARaman/Echo/internal/db/redis"
	"github.com/NeilARaman/Echo/internal/domain"
	logpkg "github.com/NeilARaman/Echo/internal/logger"
	"github.com/NeilARaman/Echo/internal/metrics"
	"github.com/NeilARaman/Echo/internal/repository/draftcache"
	"github.com/NeilARaman/Echo/internal/repository/embcache"
	"github.com/NeilARaman/Echo/internal/repository/passage"
	chiTransport "github.com/NeilARaman/Echo/internal/transport/chi"
	openaiTransport "github.com/NeilARaman/Echo/internal/transport/openai"
	"github.com/NeilARaman/Echo/internal/usecase/evaluate"
	healthuc "github.com/NeilARaman/Echo/internal/usecase/health"
	"github.com/NeilARaman/Echo/internal/usecase/ingest"
	"github.com/NeilARaman/Echo/internal/usecase/invoke"
	"github.com/NeilARaman/Echo/internal/usecase/persona"
	"github.com/NeilARaman/Echo/internal/usecase/retrieve"
	"github.com/NeilARaman/Echo/internal/version"
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

	logger.Info("Starting echo API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("store_dir", cfg.Store.Dir),
		zap.Strings("cache_addrs", cfg.Cache.Addrs),
	)

	// Register metrics explicitly (no init())
	metrics.Register()

	// Optional KV cache. Empty addrs means no Redis: the embedding cache is
	// skipped and drafts are held in process memory.
	var store db.Store
	if len(cfg.Cache.Addrs) > 0 {
		kv, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer kv.Close()

		ctx := context.Background()
		if err := kv.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to KV cache")
		store = kv
	}

	// Embedder chain: OpenAI -> Cached (when a KV store is configured)
	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	var embedder batchEmbedder = baseEmbedder
	if store != nil {
		embedder = embcache.New(baseEmbedder, store, cfg.Embedding.Model, cfg.Embedding.Dimensions, metrics.EmbeddingCacheTotal, logger)
	}
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	chatClient := openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Logger:  logger,
	})
	invoker := invoke.New(chatClient, cfg.LLM.ModelFallbacks, cfg.LLM.RatePerSec, cfg.LLM.RateBurst, logger)

	passages, err := passage.Open(cfg.Store.Dir, cfg.Embedding.Dimensions, logger)
	if err != nil {
		logger.Fatal("Failed to open passage store", zap.Error(err))
	}
	logger.Info("Passage store opened", zap.Int("passages", passages.Len()))

	// Use case services
	ch := chunker.New(
		chunker.WithSize(cfg.Review.ChunkSize),
		chunker.WithOverlap(cfg.Review.ChunkOverlap),
	)
	ingestSvc := ingest.New(ch, embedder, passages, cfg.Store.DataDir, logger)
	retrieveSvc := retrieve.New(embedder, passages, logger)
	personaGen := persona.NewGenerator(invoker, logger)
	evaluateSvc := evaluate.New(retrieveSvc, invoker, personaGen, evaluate.Options{
		TopK:        cfg.Review.TopK,
		AudienceN:   cfg.Review.AudienceN,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		MaxParallel: cfg.Review.MaxParallel,
	}, logger)

	// Pass nil interface (not typed nil pointer!) when the cache is absent.
	// Go gotcha: a typed nil wrapped in an interface != nil.
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(passages, cachePinger, baseEmbedder)

	draftTTL := time.Duration(cfg.Drafts.TTLSec) * time.Second
	var drafts draftcache.Cache
	if store != nil {
		drafts = draftcache.NewKV(store, draftTTL, metrics.DraftCacheTotal)
	} else {
		drafts = draftcache.NewMemory(draftTTL, cfg.Drafts.Capacity, metrics.DraftCacheTotal)
	}

	server := chiTransport.NewServer(
		ingestSvc, retrieveSvc, evaluateSvc, healthSvc,
		drafts, persona.Roster(),
		filepath.Join(cfg.Store.DataDir, "*.*"),
		logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.RegisterRoutes(r)

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

// batchEmbedder is what the ingest and retrieve services need from the
// embedder chain. Both the base provider and the cached decorator satisfy it.
type batchEmbedder interface {
	domain.Embedder
	domain.BatchEmbedder
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

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
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
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
