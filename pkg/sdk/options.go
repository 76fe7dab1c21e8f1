package echo

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	storeDir string
	dataDir  string

	apiKey     string
	baseURL    string
	embedModel string
	dimensions int

	models      []string
	temperature float32
	maxTokens   int
	ratePerSec  float64
	rateBurst   int

	topK         int
	audienceN    int
	maxParallel  int
	chunkSize    int
	chunkOverlap int

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithOpenAI sets the API key and optional base URL for the
// OpenAI-compatible embedding and chat endpoints. Required.
func WithOpenAI(apiKey, baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = apiKey
		c.baseURL = baseURL
	})
}

// WithModels sets the chat model fallback chain, tried in order. Required.
func WithModels(models ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.models = models
	})
}

// WithEmbeddingModel sets the embedding model and vector dimension.
// Defaults: text-embedding-3-small, 384 dimensions.
func WithEmbeddingModel(model string, dimensions int) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedModel = model
		c.dimensions = dimensions
	})
}

// WithStoreDir sets the passage store directory. Default: ./store.
func WithStoreDir(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.storeDir = dir
	})
}

// WithDataDir sets the directory Seed writes the bundled corpus to.
// Default: ./data/docs.
func WithDataDir(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dataDir = dir
	})
}

// WithGeneration sets the chat sampling parameters.
// Defaults: temperature 0.3, 900 max tokens.
func WithGeneration(temperature float32, maxTokens int) Option {
	return optionFunc(func(c *clientConfig) {
		c.temperature = temperature
		c.maxTokens = maxTokens
	})
}

// WithRateLimit caps outbound chat completions per second. perSec <= 0
// disables limiting (default).
func WithRateLimit(perSec float64, burst int) Option {
	return optionFunc(func(c *clientConfig) {
		c.ratePerSec = perSec
		c.rateBurst = burst
	})
}

// WithReview sets the retrieval depth and generated audience size.
// Defaults: top_k 8, 5 audience personas.
func WithReview(topK, audienceN int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topK = topK
		c.audienceN = audienceN
	})
}

// WithMaxParallel bounds concurrent persona evaluations. Default: 4.
func WithMaxParallel(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxParallel = n
	})
}

// WithChunking sets the character chunk size and overlap used at ingest.
// Defaults: 900 and 140.
func WithChunking(size, overlap int) Option {
	return optionFunc(func(c *clientConfig) {
		c.chunkSize = size
		c.chunkOverlap = overlap
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
