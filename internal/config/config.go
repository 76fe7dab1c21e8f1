package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the echo API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Store     StoreConfig     `yaml:"store"`
	Cache     CacheConfig     `yaml:"cache"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Review    ReviewConfig    `yaml:"review"`
	Drafts    DraftsConfig    `yaml:"drafts"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// StoreConfig holds the passage store location.
type StoreConfig struct {
	Dir     string `yaml:"dir"`
	DataDir string `yaml:"data_dir"` // default ingestion root
}

// CacheConfig holds optional Redis cache settings. Empty addrs disable the
// KV-backed caches; the service runs fully without them.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// LLMConfig holds chat model settings for persona evaluation.
type LLMConfig struct {
	APIKey         string   `yaml:"api_key"`
	BaseURL        string   `yaml:"base_url"`
	ModelFallbacks []string `yaml:"model_fallbacks"`
	Temperature    float32  `yaml:"temperature"`
	MaxTokens      int      `yaml:"max_tokens"`
	RatePerSec     float64  `yaml:"rate_per_sec"`
	RateBurst      int      `yaml:"rate_burst"`
}

// ReviewConfig holds evaluation pipeline settings.
type ReviewConfig struct {
	TopK         int `yaml:"top_k"`
	AudienceN    int `yaml:"audience_n"`
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
	MaxParallel  int `yaml:"max_parallel"`
}

// DraftsConfig holds the draft handoff cache settings.
type DraftsConfig struct {
	TTLSec   int `yaml:"ttl_sec"`
	Capacity int `yaml:"capacity"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Evaluation holds the response open across many model calls.
		c.HTTP.WriteTimeoutSec = 300
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Store.Dir == "" {
		c.Store.Dir = "./store"
	}
	if c.Store.DataDir == "" {
		c.Store.DataDir = "./data/docs"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 384
	}
	if c.LLM.Temperature <= 0 {
		c.LLM.Temperature = 0.3
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 900
	}
	if c.LLM.RatePerSec <= 0 {
		c.LLM.RatePerSec = 2
	}
	if c.LLM.RateBurst <= 0 {
		c.LLM.RateBurst = 4
	}
	if c.Review.TopK <= 0 {
		c.Review.TopK = 8
	}
	if c.Review.AudienceN <= 0 {
		c.Review.AudienceN = 5
	}
	if c.Review.ChunkSize <= 0 {
		c.Review.ChunkSize = 900
	}
	if c.Review.ChunkOverlap <= 0 {
		c.Review.ChunkOverlap = 140
	}
	if c.Review.MaxParallel <= 0 {
		c.Review.MaxParallel = 4
	}
	if c.Drafts.TTLSec <= 0 {
		c.Drafts.TTLSec = 3600
	}
	if c.Drafts.Capacity <= 0 {
		c.Drafts.Capacity = 256
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if len(c.LLM.ModelFallbacks) == 0 {
		return fmt.Errorf("llm.model_fallbacks is required")
	}
	if c.Review.ChunkOverlap >= c.Review.ChunkSize {
		return fmt.Errorf(
			"review.chunk_overlap (%d) must be smaller than review.chunk_size (%d)",
			c.Review.ChunkOverlap, c.Review.ChunkSize,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
