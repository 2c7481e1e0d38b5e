// Package llm defines the narrow call contracts for the language-model and
// embedding collaborators, plus the OpenAI-backed implementation of both.
package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// Common errors
var (
	ErrEmptyText      = errors.New("text cannot be empty")
	ErrNoAPIKey       = errors.New("no API key configured")
	ErrProviderFailed = errors.New("provider request failed")
)

// Completer is the language-model collaborator contract, used uniformly for
// synthesis, query expansion, keyword extraction, and reranking.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, contextText, question string) (string, error)
}

// EmbedItem is one unit of a batch embedding request
type EmbedItem struct {
	ID      string
	Content string
}

// EmbedResult is one unit of a batch embedding response
type EmbedResult struct {
	ID     string
	Vector []float32
}

// Embedder is the embedding collaborator contract
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, items []EmbedItem) ([]EmbedResult, error)
}

// ContentHash computes the cache key for a piece of embedded text
func ContentHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
