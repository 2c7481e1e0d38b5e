package types

// RankedCandidate pairs a chunk with a relevance score for the duration of a
// single retrieval call. Candidates are never persisted.
type RankedCandidate struct {
	Chunk Chunk
	Score float64
}

// Chunks extracts the chunk slice from a ranked candidate list, preserving order
func Chunks(candidates []RankedCandidate) []Chunk {
	out := make([]Chunk, len(candidates))
	for i, c := range candidates {
		out[i] = c.Chunk
	}
	return out
}
