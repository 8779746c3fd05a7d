package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	OpenAIAPIKey   string `envconfig:"OPENAI_API_KEY"`
	ChatModel      string `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL"`

	WikiLanguage           string `envconfig:"WIKI_LANGUAGE" default:"en"`
	WikiSearchResultsCount int    `envconfig:"WIKI_SEARCH_RESULTS_COUNT" default:"3"`
	ChunkSize              int    `envconfig:"CHUNK_SIZE" default:"1000"`
	ChunkOverlap           int    `envconfig:"CHUNK_OVERLAP" default:"200"`
	SimilaritySearchK      int    `envconfig:"SIMILARITY_SEARCH_K" default:"5"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Optional article snapshot archive
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"askwiki-articles"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("ASKWIKI", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
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

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}
