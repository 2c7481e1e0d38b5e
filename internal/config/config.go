// Package config loads settings from an optional YAML file and environment
// variables, with validation and defaults. Environment variables win over the
// file; the file wins over defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the working directory
const DefaultFileName = "codequery.yaml"

// Config holds all settings for indexing and querying
type Config struct {
	// OpenAI settings
	OpenAIKey      string        `yaml:"-"`
	ChatModel      string        `yaml:"chat_model"`
	EmbeddingModel string        `yaml:"embedding_model"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryDelay     time.Duration `yaml:"retry_delay"`

	// Embedding batch settings
	RequestTokenCeiling int `yaml:"request_token_ceiling"`

	// Pipeline settings
	MaxChunkTokens int    `yaml:"max_chunk_tokens"`
	ContextBudget  int    `yaml:"context_budget"`
	DataDir        string `yaml:"data_dir"`

	// Feedback side-store
	FeedbackDB string `yaml:"feedback_db"`
}

// Load reads configuration from the optional YAML file at path (may be "")
// and the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{
		ChatModel:           "gpt-4o-mini",
		EmbeddingModel:      "text-embedding-3-small",
		MaxRetries:          3,
		RetryDelay:          2 * time.Second,
		RequestTokenCeiling: 100000,
		MaxChunkTokens:      7000,
		ContextBudget:       12000,
		DataDir:             ".codequery",
		FeedbackDB:          "feedback.db",
	}

	if path == "" {
		if _, err := os.Stat(DefaultFileName); err == nil {
			path = DefaultFileName
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.ChatModel = getEnv("CODEQUERY_CHAT_MODEL", cfg.ChatModel)
	cfg.EmbeddingModel = getEnv("CODEQUERY_EMBEDDING_MODEL", cfg.EmbeddingModel)
	cfg.DataDir = getEnv("CODEQUERY_DATA_DIR", cfg.DataDir)
	cfg.MaxChunkTokens = getEnvInt("CODEQUERY_MAX_CHUNK_TOKENS", cfg.MaxChunkTokens)
	cfg.ContextBudget = getEnvInt("CODEQUERY_CONTEXT_BUDGET", cfg.ContextBudget)
	cfg.RequestTokenCeiling = getEnvInt("CODEQUERY_REQUEST_TOKEN_CEILING", cfg.RequestTokenCeiling)

	return cfg, cfg.Validate()
}

// Validate checks settings for internal consistency
func (c *Config) Validate() error {
	if c.MaxChunkTokens < 1 {
		return fmt.Errorf("max_chunk_tokens must be positive, got %d", c.MaxChunkTokens)
	}
	if c.ContextBudget < 1 {
		return fmt.Errorf("context_budget must be positive, got %d", c.ContextBudget)
	}
	if c.RequestTokenCeiling < 1 {
		return fmt.Errorf("request_token_ceiling must be positive, got %d", c.RequestTokenCeiling)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("max_retries must be 0-10, got %d", c.MaxRetries)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
