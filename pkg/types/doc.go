// Package types provides shared type definitions for the codequery pipeline.
//
// The central type is Chunk, a semantically meaningful contiguous source span
// with a stable content-addressed identifier:
//
//	id := types.ChunkID("internal/server.go", 10, 42, body)
//	chunk := types.Chunk{
//	    ID:        id,
//	    Content:   body,
//	    Path:      "internal/server.go",
//	    StartLine: 10,
//	    EndLine:   42,
//	    Kind:      types.KindFunction,
//	    Name:      "server.Listen",
//	}
//
// Chunk kinds form a closed set (file, module, type, function, group) with a
// total-order priority used when rendering assembled context. Oversized chunks
// are replaced by ordered parts carrying a (part_index, part_total, origin_id)
// triple; concatenating the parts by part index reproduces the original
// content byte for byte.
//
// Token estimates use a uniform 3-characters-per-token convention via
// EstimateTokens; both the segmenter and the context assembler rely on it.
package types
