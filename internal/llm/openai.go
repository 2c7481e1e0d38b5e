package llm

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default completion model
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default embedding model
	DefaultEmbeddingModel = openai.SmallEmbedding3
	// DefaultRequestTokenCeiling is the provider's stated per-request token
	// ceiling for embedding calls; batches fill at most 80% of it
	DefaultRequestTokenCeiling = 100000
	// DefaultCacheSize bounds the embedding cache
	DefaultCacheSize = 10000
)

// ClientConfig holds configuration for the OpenAI-backed collaborator
type ClientConfig struct {
	APIKey              string
	ChatModel           string
	EmbeddingModel      openai.EmbeddingModel
	MaxRetries          int
	RetryDelay          time.Duration
	RequestTokenCeiling int
	CacheSize           int
}

// Client implements Completer and Embedder against the OpenAI API with retry
// and an LRU embedding cache keyed by content hash.
type Client struct {
	api                 *openai.Client
	chatModel           string
	embeddingModel      openai.EmbeddingModel
	maxRetries          int
	retryDelay          time.Duration
	requestTokenCeiling int
	cache               *lru.Cache[string, []float32]
}

// NewClient creates a collaborator client. Zero-valued config fields fall
// back to defaults; a missing API key is an error.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.RequestTokenCeiling <= 0 {
		cfg.RequestTokenCeiling = DefaultRequestTokenCeiling
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}

	cache, err := lru.New[string, []float32](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding cache: %w", err)
	}

	return &Client{
		api:                 openai.NewClient(cfg.APIKey),
		chatModel:           cfg.ChatModel,
		embeddingModel:      cfg.EmbeddingModel,
		maxRetries:          cfg.MaxRetries,
		retryDelay:          cfg.RetryDelay,
		requestTokenCeiling: cfg.RequestTokenCeiling,
		cache:               cache,
	}, nil
}

// EmbeddingModel returns the configured embedding model name
func (c *Client) EmbeddingModel() string {
	return string(c.embeddingModel)
}

// Complete sends one chat completion with the given system prompt and a user
// message built from the context text and question.
func (c *Client) Complete(ctx context.Context, systemPrompt, contextText, question string) (string, error) {
	user := question
	if contextText != "" {
		user = contextText + "\n\n" + question
	}

	return withRetry(ctx, c.maxRetries, c.retryDelay, func() (string, error) {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
			Temperature: 0.2,
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no completion choices returned")
		}
		return resp.Choices[0].Message.Content, nil
	})
}

// Embed generates a single embedding vector
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	hash := ContentHash(text)
	if v, ok := c.cache.Get(hash); ok {
		return append([]float32(nil), v...), nil
	}

	vectors, err := c.callEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	c.cache.Add(hash, vectors[0])
	return vectors[0], nil
}

// EmbedBatch embeds the items in request-sized batches, keeping each request
// under 80% of the configured per-request token ceiling.
func (c *Client) EmbedBatch(ctx context.Context, items []EmbedItem) ([]EmbedResult, error) {
	results := make([]EmbedResult, 0, len(items))

	for _, batch := range PlanBatches(items, c.requestTokenCeiling) {
		texts := make([]string, len(batch))
		for i, item := range batch {
			texts[i] = item.Content
		}

		vectors, err := c.callEmbeddings(ctx, texts)
		if err != nil {
			return nil, err
		}
		for i, item := range batch {
			c.cache.Add(ContentHash(item.Content), vectors[i])
			results = append(results, EmbedResult{ID: item.ID, Vector: vectors[i]})
		}
	}

	return results, nil
}

func (c *Client) callEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	return withRetry(ctx, c.maxRetries, c.retryDelay, func() ([][]float32, error) {
		resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: c.embeddingModel,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Data) != len(texts) {
			return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
		}

		vectors := make([][]float32, len(resp.Data))
		for i, d := range resp.Data {
			vectors[i] = d.Embedding
		}
		return vectors, nil
	})
}
