package config

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port      string `envconfig:"PORT" default:"8000"`
	Debug     bool   `envconfig:"DEBUG" default:"false"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// Catalog documents. Relative names resolve against DataDir, or are object keys when S3 is set.
	DataDir      string   `envconfig:"DATA_DIR" default:"data"`
	OrdersFile   string   `envconfig:"ORDERS_FILE" default:"pedidos.json"`
	ProductsFile string   `envconfig:"PRODUCTS_FILE" default:"produtos.json"`
	PolicyFiles  []string `envconfig:"POLICY_FILES" default:"politicas.md"`
	StaticDir    string   `envconfig:"STATIC_DIR" default:"static"`

	OpenAIAPIKey    string  `envconfig:"OPENAI_API_KEY"`
	ChatModel       string  `envconfig:"CHAT_MODEL" default:"o4-mini"`
	ChatTemperature float32 `envconfig:"CHAT_TEMPERATURE" default:"1"`
	EmbeddingModel  string  `envconfig:"EMBEDDING_MODEL" default:"text-embedding-ada-002"`

	GenerationTimeout time.Duration `envconfig:"GENERATION_TIMEOUT" default:"30s"`
	RetrievalTimeout  time.Duration `envconfig:"RETRIEVAL_TIMEOUT" default:"10s"`

	ProductTopN  int `envconfig:"PRODUCT_TOP_N" default:"3"`
	PolicyTopK   int `envconfig:"POLICY_TOP_K" default:"3"`
	ChunkSize    int `envconfig:"CHUNK_SIZE" default:"1000"`
	ChunkOverlap int `envconfig:"CHUNK_OVERLAP" default:"200"`

	// Optional pgvector index; the in-memory index is used when unset.
	DatabaseURL             string `envconfig:"DATABASE_URL"`
	MigrationsDir           string `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	DatabaseMaxConns        int32  `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseConnectAttempts int    `envconfig:"DATABASE_CONNECT_ATTEMPTS" default:"5"`

	// Optional query-embedding cache; an in-process LRU is used when unset.
	RedisAddr          string        `envconfig:"REDIS_ADDR"`
	RedisPassword      string        `envconfig:"REDIS_PASSWORD"`
	RedisDB            int           `envconfig:"REDIS_DB" default:"0"`
	EmbeddingCacheSize int           `envconfig:"EMBEDDING_CACHE_SIZE" default:"1000"`
	EmbeddingCacheTTL  time.Duration `envconfig:"EMBEDDING_CACHE_TTL" default:"24h"`

	// Optional S3-compatible bucket holding the catalog documents.
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"vitrine-catalog"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("VITRINE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.ProductTopN <= 0 {
		return fmt.Errorf("PRODUCT_TOP_N must be positive, got %d", c.ProductTopN)
	}
	if c.PolicyTopK <= 0 {
		return fmt.Errorf("POLICY_TOP_K must be positive, got %d", c.PolicyTopK)
	}
	if c.ChunkSize <= 0 || c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be within [0, CHUNK_SIZE), got %d/%d", c.ChunkOverlap, c.ChunkSize)
	}
	if c.GenerationTimeout <= 0 || c.RetrievalTimeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT and RETRIEVAL_TIMEOUT must be positive")
	}
	return nil
}

// DocumentPath resolves a catalog document name. S3 keys are returned unchanged.
func (c *Config) DocumentPath(name string) string {
	if c.HasS3() || filepath.IsAbs(name) || c.DataDir == "" {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) HasRedis() bool {
	return c.RedisAddr != ""
}
