// Package vectorindex holds indexed chunks with their embedding vectors and
// serves exact nearest-neighbor search over them. The linear cosine scan is
// specified behavior: identical index contents and query always produce the
// same ranking, which keeps answers reproducible.
package vectorindex

import (
	"math"
	"sort"

	"codequery/pkg/types"
)

// Index associates chunk records with aligned embedding vectors by chunk id.
// It is single-writer during a build; query serving only reads.
type Index struct {
	order   []string // insertion order, the stable tie-break for search
	chunks  map[string]types.Chunk
	vectors map[string][]float32

	// Model records which embedding model produced the vectors. Carried in
	// the snapshot so a query process can detect a mismatch.
	Model string
}

// New creates an empty Index
func New() *Index {
	return &Index{
		chunks:  make(map[string]types.Chunk),
		vectors: make(map[string][]float32),
	}
}

// Add bulk-associates chunks with their vectors by id. A repeated id
// overwrites the stored record and vector without disturbing its original
// position in iteration order.
func (x *Index) Add(chunks []types.Chunk, vectors map[string][]float32) {
	for _, c := range chunks {
		if _, exists := x.chunks[c.ID]; !exists {
			x.order = append(x.order, c.ID)
		}
		x.chunks[c.ID] = c
		if v, ok := vectors[c.ID]; ok {
			x.vectors[c.ID] = v
		}
	}
}

// Reset clears all state
func (x *Index) Reset() {
	x.order = nil
	x.chunks = make(map[string]types.Chunk)
	x.vectors = make(map[string][]float32)
	x.Model = ""
}

// Len returns the number of stored chunks
func (x *Index) Len() int {
	return len(x.chunks)
}

// Chunks returns all stored chunks in insertion order
func (x *Index) Chunks() []types.Chunk {
	out := make([]types.Chunk, 0, len(x.order))
	for _, id := range x.order {
		if c, ok := x.chunks[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Get resolves a chunk by id
func (x *Index) Get(id string) (types.Chunk, bool) {
	c, ok := x.chunks[id]
	return c, ok
}

// Search computes cosine similarity between the query vector and every stored
// vector, sorts descending with insertion order as the stable tie-break, and
// returns the first k chunks. Ids without a resolvable chunk record are
// silently dropped.
func (x *Index) Search(query []float32, k int) []types.RankedCandidate {
	if k <= 0 {
		return nil
	}

	type scored struct {
		id    string
		score float64
	}
	candidates := make([]scored, 0, len(x.order))
	for _, id := range x.order {
		v, ok := x.vectors[id]
		if !ok {
			continue
		}
		candidates = append(candidates, scored{id: id, score: CosineSimilarity(query, v)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	results := make([]types.RankedCandidate, 0, k)
	for _, cand := range candidates {
		if len(results) == k {
			break
		}
		chunk, ok := x.chunks[cand.id]
		if !ok {
			continue
		}
		results = append(results, types.RankedCandidate{Chunk: chunk, Score: cand.score})
	}
	return results
}

// CosineSimilarity computes the cosine similarity between two vectors.
// A zero magnitude on either side yields 0, never a division fault.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
