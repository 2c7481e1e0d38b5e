// Package searcher runs the multi-stage retrieval fusion pipeline: vector
// search and keyword search feed a merged candidate set, which is reranked by
// the language model in small batches and truncated to the final top-K.
package searcher

import (
	"context"
	"errors"

	"codequery/internal/llm"
	"codequery/internal/planner"
	"codequery/internal/vectorindex"
	"codequery/pkg/types"
)

// NotFoundAnswer is the fixed response for an empty fused retrieval set.
// It is data, not a fault: callers return it without invoking synthesis.
const NotFoundAnswer = "No relevant code found for this question."

// ErrNoResults signals that both retrieval legs came back empty
var ErrNoResults = errors.New("no relevant code found")

// Options are the fusion stage limits. They are explicit parameters rather
// than package globals so tests can vary them independently.
type Options struct {
	VectorTopK      int // candidates taken from vector search
	KeywordTopK     int // candidates taken from keyword search
	MergeLimit      int // size cap on the merged candidate set
	RerankBatchSize int // chunks per rerank completion
	PreviewChars    int // content preview length sent to the reranker
	FinalTopK       int // candidates returned to the assembler
}

// DefaultOptions returns the standard fusion limits
func DefaultOptions() Options {
	return Options{
		VectorTopK:      20,
		KeywordTopK:     15,
		MergeLimit:      30,
		RerankBatchSize: 5,
		PreviewChars:    500,
		FinalTopK:       20,
	}
}

// Fusion coordinates retrieval over a loaded vector index
type Fusion struct {
	planner   *planner.Planner
	embedder  llm.Embedder
	completer llm.Completer
	index     *vectorindex.Index
	opts      Options
}

// New creates a Fusion over the given index and collaborators
func New(p *planner.Planner, embedder llm.Embedder, completer llm.Completer, index *vectorindex.Index, opts Options) *Fusion {
	return &Fusion{
		planner:   p,
		embedder:  embedder,
		completer: completer,
		index:     index,
		opts:      opts,
	}
}

// Retrieve runs the full fusion pipeline for a question. With the
// collaborator outputs held fixed, merging, reranking order, and truncation
// are deterministic. An empty fused set returns ErrNoResults.
func (f *Fusion) Retrieve(ctx context.Context, question string) ([]types.RankedCandidate, error) {
	expanded := f.planner.Expand(ctx, question)

	var vectorResults []types.RankedCandidate
	if queryVector, err := f.embedder.Embed(ctx, expanded); err == nil {
		vectorResults = f.index.Search(queryVector, f.opts.VectorTopK)
	}

	// Keywords come from the original question, not the expanded one
	keywords := f.planner.ExtractKeywords(ctx, question)
	keywordResults := f.planner.KeywordSearch(keywords, f.index.Chunks())
	if len(keywordResults) > f.opts.KeywordTopK {
		keywordResults = keywordResults[:f.opts.KeywordTopK]
	}

	if len(vectorResults) == 0 && len(keywordResults) == 0 {
		return nil, ErrNoResults
	}

	merged := merge(vectorResults, keywordResults, f.opts.MergeLimit)
	reranked := f.rerank(ctx, merged)

	if len(reranked) > f.opts.FinalTopK {
		reranked = reranked[:f.opts.FinalTopK]
	}
	return reranked, nil
}

// merge starts from vector results in order and appends keyword results not
// already present, until the combined set reaches the limit.
func merge(vector, keyword []types.RankedCandidate, limit int) []types.RankedCandidate {
	merged := make([]types.RankedCandidate, 0, limit)
	seen := make(map[string]bool)

	for _, cand := range vector {
		if len(merged) == limit {
			return merged
		}
		if !seen[cand.Chunk.ID] {
			seen[cand.Chunk.ID] = true
			merged = append(merged, cand)
		}
	}
	for _, cand := range keyword {
		if len(merged) == limit {
			break
		}
		if !seen[cand.Chunk.ID] {
			seen[cand.Chunk.ID] = true
			merged = append(merged, cand)
		}
	}
	return merged
}
