package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ChunkKind identifies what kind of source construct a chunk covers
type ChunkKind string

const (
	// KindFile is the whole-file fallback chunk, emitted for every file
	KindFile ChunkKind = "file"
	// KindModule covers the package clause and import block
	KindModule ChunkKind = "module"
	// KindType covers a type declaration
	KindType ChunkKind = "type"
	// KindFunction covers a function or method declaration
	KindFunction ChunkKind = "function"
	// KindGroup covers a const or var declaration group
	KindGroup ChunkKind = "group"
)

// Priority returns the display ordering for a chunk kind. Lower sorts first.
func (k ChunkKind) Priority() int {
	switch k {
	case KindFile:
		return 0
	case KindModule:
		return 1
	case KindType:
		return 2
	case KindFunction:
		return 3
	case KindGroup:
		return 4
	default:
		return 5
	}
}

// Valid reports whether k is one of the known chunk kinds
func (k ChunkKind) Valid() bool {
	switch k {
	case KindFile, KindModule, KindType, KindFunction, KindGroup:
		return true
	default:
		return false
	}
}

// IDLength is the fixed length of a chunk ID in hex characters
const IDLength = 16

// ChunkID computes the content-addressed identifier for a chunk.
// Identical (path, start, end, content) always produce the same ID.
func ChunkID(path string, startLine, endLine int, content string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s:%d:%d:", path, startLine, endLine)
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))[:IDLength]
}

// Chunk represents a semantically meaningful contiguous source span with metadata.
// Content and ID never change after creation; parent and dependency fields may
// be attached during traversal, before the chunk is handed to the index.
type Chunk struct {
	ID      string `json:"id"`
	Content string `json:"content"`

	// Location
	Path      string `json:"source_path"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`

	// Identity
	Kind         ChunkKind `json:"kind"`
	Name         string    `json:"name"`
	ContextLabel string    `json:"context_label,omitempty"`

	// Linkage. ParentID is a weak back-reference resolved through the
	// hierarchy index, never a live pointer.
	ParentID     string   `json:"parent_id,omitempty"`
	Dependencies []string `json:"dependency_refs,omitempty"`

	// Split triple: present together or absent together. PartIndex is 1-based.
	PartIndex int    `json:"part_index,omitempty"`
	PartTotal int    `json:"part_total,omitempty"`
	OriginID  string `json:"origin_id,omitempty"`
}

// TokensPerChar is the character-to-token estimation convention used
// uniformly across segmentation and context assembly.
const TokensPerChar = 3

// EstimateTokens returns ceil(len(text)/3), the uniform token estimate.
func EstimateTokens(text string) int {
	return (len(text) + TokensPerChar - 1) / TokensPerChar
}

// TokenEstimate returns the estimated token count of the chunk content
func (c *Chunk) TokenEstimate() int {
	return EstimateTokens(c.Content)
}

// IsSplit reports whether the chunk is a part of a split original
func (c *Chunk) IsSplit() bool {
	return c.PartTotal > 0
}

// Validate performs basic integrity checks on the chunk
func (c *Chunk) Validate() error {
	if len(c.ID) != IDLength {
		return ErrInvalidChunkID
	}
	if c.Content == "" {
		return ErrEmptyContent
	}
	if !c.Kind.Valid() {
		return fmt.Errorf("invalid chunk kind %q", c.Kind)
	}
	if c.StartLine <= 0 || c.EndLine < c.StartLine {
		return fmt.Errorf("invalid line range %d-%d", c.StartLine, c.EndLine)
	}
	if c.IsSplit() {
		if c.PartIndex < 1 || c.PartIndex > c.PartTotal {
			return fmt.Errorf("part index %d out of range 1-%d", c.PartIndex, c.PartTotal)
		}
		if len(c.OriginID) != IDLength {
			return fmt.Errorf("split chunk missing origin id")
		}
	}
	return nil
}
