package segmenter

import (
	"fmt"
	"go/parser"
	"go/token"
	"log"
	"os"
	"path/filepath"
	"strings"

	"codequery/internal/scanner"
	"codequery/pkg/types"
)

// DefaultMaxChunkTokens is the token estimate above which a chunk is split
const DefaultMaxChunkTokens = 7000

// Segmenter extracts hierarchical chunks from source files
type Segmenter struct {
	maxChunkTokens int
}

// New creates a Segmenter. maxChunkTokens controls oversized-chunk splitting;
// values <= 0 fall back to DefaultMaxChunkTokens.
func New(maxChunkTokens int) *Segmenter {
	if maxChunkTokens <= 0 {
		maxChunkTokens = DefaultMaxChunkTokens
	}
	return &Segmenter{maxChunkTokens: maxChunkTokens}
}

// SegmentFile reads and segments one file. relPath is the path recorded on
// the emitted chunks, relative to the source root. Go files are parsed into
// module/type/function/group chunks; every file, parsed or not, yields a
// whole-file fallback chunk last. A parse failure is recoverable: it is
// logged and the fallback chunk still covers the file.
func (s *Segmenter) SegmentFile(path, relPath string) ([]types.Chunk, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	text := string(content)

	var chunks []types.Chunk
	if scanner.IsGoSource(path) {
		chunks = s.segmentGoFile(relPath, text)
	}

	// Whole-file fallback, always emitted, always last
	if text != "" {
		chunks = append(chunks, s.fileChunk(relPath, text))
	}

	out := make([]types.Chunk, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, s.splitOversized(c)...)
	}
	return out, nil
}

// segmentGoFile parses Go source and extracts declaration chunks in document
// order: the module chunk first, then types, functions, and groups.
func (s *Segmenter) segmentGoFile(relPath, text string) []types.Chunk {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, relPath, text, parser.ParseComments)
	if err != nil {
		// Syntax errors are non-fatal: parser.ParseFile may still return a
		// partial AST, and the file keeps its fallback chunk either way.
		log.Printf("segmenter: parse error in %s: %v", relPath, err)
	}
	if file == nil {
		return nil
	}

	ex := &extractor{
		fset:    fset,
		relPath: relPath,
		lines:   strings.Split(text, "\n"),
	}
	return ex.extract(file)
}

// fileChunk builds the whole-file fallback chunk
func (s *Segmenter) fileChunk(relPath, text string) types.Chunk {
	endLine := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		endLine++
	}
	if endLine < 1 {
		endLine = 1
	}
	return types.Chunk{
		ID:        types.ChunkID(relPath, 1, endLine, text),
		Content:   text,
		Path:      relPath,
		StartLine: 1,
		EndLine:   endLine,
		Kind:      types.KindFile,
		Name:      filepath.Base(relPath),
	}
}
