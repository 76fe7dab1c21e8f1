package echo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/NeilARaman/Echo/internal/chunker"
	"github.com/NeilARaman/Echo/internal/domain"
	"github.com/NeilARaman/Echo/internal/repository/passage"
	openaiTransport "github.com/NeilARaman/Echo/internal/transport/openai"
	"github.com/NeilARaman/Echo/internal/usecase/evaluate"
	healthuc "github.com/NeilARaman/Echo/internal/usecase/health"
	"github.com/NeilARaman/Echo/internal/usecase/ingest"
	"github.com/NeilARaman/Echo/internal/usecase/invoke"
	"github.com/NeilARaman/Echo/internal/usecase/persona"
	"github.com/NeilARaman/Echo/internal/usecase/retrieve"
)

// Internal interfaces so tests can substitute the services.
type ingestUseCase interface {
	Seed(ctx context.Context) (ingest.Stats, error)
	IngestGlob(ctx context.Context, pattern string) (ingest.Stats, error)
	IngestDocs(ctx context.Context, docs []domain.SourceDoc) (ingest.Stats, error)
}

type retrieveUseCase interface {
	Retrieve(ctx context.Context, query string, k int) ([]domain.Hit, error)
}

type evaluateUseCase interface {
	Analyze(ctx context.Context, req evaluate.Request) (*evaluate.Analysis, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the echo SDK entry point.
type Client struct {
	ingestSvc   ingestUseCase
	retrieveSvc retrieveUseCase
	evaluateSvc evaluateUseCase
	healthSvc   healthUseCase
	obs         *observer
}

// New creates an echo Client over a local passage store.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		storeDir:     "./store",
		dataDir:      "./data/docs",
		embedModel:   "text-embedding-3-small",
		dimensions:   384,
		temperature:  0.3,
		maxTokens:    900,
		topK:         8,
		audienceN:    5,
		maxParallel:  4,
		chunkSize:    900,
		chunkOverlap: 140,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.apiKey == "" {
		return nil, errors.New("echo: API key required (use WithOpenAI)")
	}
	if len(cfg.models) == 0 {
		return nil, errors.New("echo: at least one chat model required (use WithModels)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	return wireClient(cfg, obs)
}

func wireClient(cfg *clientConfig, obs *observer) (*Client, error) {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.apiKey,
		BaseURL:    cfg.baseURL,
		Model:      cfg.embedModel,
		Dimensions: cfg.dimensions,
		Provider:   "openai",
		Logger:     logger,
	})
	chatClient := openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
		APIKey:  cfg.apiKey,
		BaseURL: cfg.baseURL,
		Logger:  logger,
	})
	invoker := invoke.New(chatClient, cfg.models, cfg.ratePerSec, cfg.rateBurst, logger)

	passages, err := passage.Open(cfg.storeDir, cfg.dimensions, logger)
	if err != nil {
		return nil, fmt.Errorf("echo: open passage store: %w", err)
	}

	ch := chunker.New(
		chunker.WithSize(cfg.chunkSize),
		chunker.WithOverlap(cfg.chunkOverlap),
	)
	ingestSvc := ingest.New(ch, embedder, passages, cfg.dataDir, logger)
	retrieveSvc := retrieve.New(embedder, passages, logger)
	personaGen := persona.NewGenerator(invoker, logger)
	evaluateSvc := evaluate.New(retrieveSvc, invoker, personaGen, evaluate.Options{
		TopK:        cfg.topK,
		AudienceN:   cfg.audienceN,
		Temperature: cfg.temperature,
		MaxTokens:   cfg.maxTokens,
		MaxParallel: cfg.maxParallel,
	}, logger)
	healthSvc := healthuc.New(passages, nil, embedder)

	return &Client{
		ingestSvc:   ingestSvc,
		retrieveSvc: retrieveSvc,
		evaluateSvc: evaluateSvc,
		healthSvc:   healthSvc,
		obs:         obs,
	}, nil
}

// Seed writes the bundled demo corpus to the data directory, resets the
// store, and indexes it.
func (c *Client) Seed(ctx context.Context) (stats Stats, err error) {
	start := time.Now()
	defer func() { c.obs.observe("seed", start, err) }()

	return c.ingestSvc.Seed(ctx)
}

// Ingest indexes every readable file matching the glob pattern.
func (c *Client) Ingest(ctx context.Context, pattern string) (stats Stats, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ingest", start, err) }()

	return c.ingestSvc.IngestGlob(ctx, pattern)
}

// IngestDocs indexes documents supplied directly, bypassing the filesystem.
func (c *Client) IngestDocs(ctx context.Context, docs []domain.SourceDoc) (stats Stats, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ingest_docs", start, err) }()

	return c.ingestSvc.IngestDocs(ctx, docs)
}

// Search retrieves the top k passages for a query.
func (c *Client) Search(ctx context.Context, query string, k int) (hits []Hit, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	return c.retrieveSvc.Retrieve(ctx, query, k)
}

// Analyze runs the full multi-persona review of a draft.
func (c *Client) Analyze(ctx context.Context, req Request) (analysis *Analysis, err error) {
	start := time.Now()
	defer func() { c.obs.observe("analyze", start, err) }()

	return c.evaluateSvc.Analyze(ctx, req)
}

// Personas returns the fixed editorial roster.
func (c *Client) Personas() []EvaluatorSpec {
	return persona.Roster()
}

// SampleDraft returns the bundled demo draft.
func (c *Client) SampleDraft() string {
	return ingest.SampleDraft
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status   string            // "ok", "degraded", "error"
	Checks   map[string]string // component -> "ok"/"error"
	Passages int
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:   string(report.Status),
		Checks:   checks,
		Passages: report.Passages,
	}
}
