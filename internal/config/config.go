package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMinConns  int32  `envconfig:"DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"8"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:""`

	// Dedicated batch translation API. Without a key the generative backend is used alone.
	TranslationAPIURL string `envconfig:"TRANSLATION_API_URL" default:""`
	TranslationAPIKey string `envconfig:"TRANSLATION_API_KEY" default:""`

	GenerativeProvider  string `envconfig:"GENERATIVE_PROVIDER" default:"openai"`
	OpenAIAPIKey        string `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIBaseURL       string `envconfig:"OPENAI_BASE_URL" default:""`
	OpenAIModel         string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	AnthropicAPIKey     string `envconfig:"ANTHROPIC_API_KEY" default:""`
	AnthropicBaseURL    string `envconfig:"ANTHROPIC_BASE_URL" default:""`
	AnthropicModel      string `envconfig:"ANTHROPIC_MODEL" default:"claude-3-5-haiku-latest"`
	TranslationEndpoint string `envconfig:"TRANSLATION_ENDPOINT" default:"http://127.0.0.1:8845/v1"`
	TranslationModel    string `envconfig:"TRANSLATION_MODEL" default:"tencent/HY-MT1.5-7B"`

	TranslationMaxAttempts      int           `envconfig:"TRANSLATION_MAX_ATTEMPTS" default:"3"`
	TranslationDefaultRetryWait time.Duration `envconfig:"TRANSLATION_DEFAULT_RETRY_WAIT" default:"30s"`
	TranslationRetryBuffer      time.Duration `envconfig:"TRANSLATION_RETRY_BUFFER" default:"2s"`
	TranslationMaxRetryWait     time.Duration `envconfig:"TRANSLATION_MAX_RETRY_WAIT" default:"60s"`
	TranslationSyncTimeout      time.Duration `envconfig:"TRANSLATION_SYNC_TIMEOUT" default:"25s"`
	TranslationQPS              float64       `envconfig:"TRANSLATION_QPS" default:"5"`

	BackfillMaxItems    int           `envconfig:"BACKFILL_MAX_ITEMS" default:"10"`
	BackfillCallDelay   time.Duration `envconfig:"BACKFILL_CALL_DELAY" default:"500ms"`
	BackfillWorkers     int           `envconfig:"BACKFILL_WORKERS" default:"2"`
	BackfillQueueSize   int           `envconfig:"BACKFILL_QUEUE_SIZE" default:"64"`
	BackfillTaskTimeout time.Duration `envconfig:"BACKFILL_TASK_TIMEOUT" default:"5m"`

	CachePath string        `envconfig:"CACHE_PATH" default:"data/translation-cache.db"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"24h"`

	LanguageDetector string `envconfig:"LANGUAGE_DETECTOR" default:"heuristic"`

	BulkWindow      int `envconfig:"BULK_WINDOW" default:"500"`
	BulkBatchSize   int `envconfig:"BULK_BATCH_SIZE" default:"10"`
	BulkConcurrency int `envconfig:"BULK_CONCURRENCY" default:"3"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) cannot exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	switch strings.ToLower(strings.TrimSpace(c.GenerativeProvider)) {
	case "openai", "anthropic", "local":
	default:
		return fmt.Errorf("GENERATIVE_PROVIDER must be one of openai, anthropic, local")
	}
	switch strings.ToLower(strings.TrimSpace(c.LanguageDetector)) {
	case "heuristic", "lingua", "whatlang":
	default:
		return fmt.Errorf("LANGUAGE_DETECTOR must be one of heuristic, lingua, whatlang")
	}
	if c.TranslationMaxAttempts < 1 {
		return fmt.Errorf("TRANSLATION_MAX_ATTEMPTS must be >= 1")
	}
	if c.TranslationSyncTimeout <= 0 {
		return fmt.Errorf("TRANSLATION_SYNC_TIMEOUT must be > 0")
	}
	if c.TranslationQPS < 0 {
		return fmt.Errorf("TRANSLATION_QPS must be >= 0")
	}
	if c.BackfillMaxItems < 0 {
		return fmt.Errorf("BACKFILL_MAX_ITEMS must be >= 0")
	}
	if c.BackfillWorkers < 1 {
		return fmt.Errorf("BACKFILL_WORKERS must be >= 1")
	}
	if c.BackfillQueueSize < 1 {
		return fmt.Errorf("BACKFILL_QUEUE_SIZE must be >= 1")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be > 0")
	}
	if c.BulkWindow < 1 || c.BulkBatchSize < 1 || c.BulkConcurrency < 1 {
		return fmt.Errorf("BULK_WINDOW, BULK_BATCH_SIZE and BULK_CONCURRENCY must be >= 1")
	}
	return nil
}

func (c *Config) CORSAllowedOriginsList() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		if _, exists := seen[origin]; exists {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	return origins
}
