// Package indexer is the build entry point: it walks the source tree,
// segments every eligible file, embeds the chunks, and writes the snapshot,
// hierarchy exports, and build metadata into the output directory. The
// pipeline is stepwise: segmentation finishes before embedding starts.
package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"codequery/internal/hierarchy"
	"codequery/internal/llm"
	"codequery/internal/scanner"
	"codequery/internal/segmenter"
	"codequery/internal/vectorindex"
	"codequery/pkg/types"
)

// Output file names inside the data directory
const (
	HierarchyTextFile = "hierarchy.txt"
	HierarchyJSONFile = "hierarchy.json"
	MetadataFile      = "metadata.json"
)

// Metadata describes one completed build
type Metadata struct {
	SourceRoot string    `json:"source_root"`
	CreatedAt  time.Time `json:"created_at"`
	FileCount  int       `json:"file_count"`
	ChunkCount int       `json:"chunk_count"`
	Model      string    `json:"model,omitempty"`
}

// Stats summarizes a build for the caller
type Stats struct {
	FilesScanned  int
	ChunksCreated int
	Duration      time.Duration
}

// Indexer coordinates the build pipeline
type Indexer struct {
	scanner   *scanner.Scanner
	segmenter *segmenter.Segmenter
	embedder  llm.Embedder
	model     string
}

// New creates an Indexer. model is recorded in the snapshot for mismatch
// detection at query time; it may be empty.
func New(embedder llm.Embedder, maxChunkTokens int, model string) *Indexer {
	return &Indexer{
		scanner:   scanner.New(),
		segmenter: segmenter.New(maxChunkTokens),
		embedder:  embedder,
		model:     model,
	}
}

// Build indexes sourceRoot and writes all artifacts into outputDir. A missing
// or unreadable source root is fatal; a file that fails to segment is logged
// and skipped.
func (ix *Indexer) Build(ctx context.Context, sourceRoot, outputDir string) (*Stats, error) {
	start := time.Now()

	files, err := ix.scanner.Discover(sourceRoot)
	if err != nil {
		return nil, err
	}

	chunks, err := ix.segmentFiles(ctx, sourceRoot, files)
	if err != nil {
		return nil, err
	}

	vectors, err := ix.embedChunks(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}

	index := vectorindex.New()
	index.Model = ix.model
	index.Add(chunks, vectors)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := index.Save(filepath.Join(outputDir, vectorindex.SnapshotFile)); err != nil {
		return nil, err
	}
	if err := ix.writeHierarchy(outputDir, chunks); err != nil {
		return nil, err
	}
	if err := ix.writeMetadata(outputDir, sourceRoot, len(files), len(chunks)); err != nil {
		return nil, err
	}

	return &Stats{
		FilesScanned:  len(files),
		ChunksCreated: len(chunks),
		Duration:      time.Since(start),
	}, nil
}

// segmentFiles segments the discovered files concurrently. Results are
// collected per file position so chunk order matches discovery order
// regardless of scheduling; a file that fails to segment is logged and
// skipped.
func (ix *Indexer) segmentFiles(ctx context.Context, sourceRoot string, files []string) ([]types.Chunk, error) {
	perFile := make([][]types.Chunk, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			relPath, err := filepath.Rel(sourceRoot, path)
			if err != nil {
				relPath = path
			}
			fileChunks, err := ix.segmenter.SegmentFile(path, relPath)
			if err != nil {
				log.Printf("indexer: skipping %s: %v", relPath, err)
				return nil
			}
			perFile[i] = fileChunks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var chunks []types.Chunk
	for _, fc := range perFile {
		chunks = append(chunks, fc...)
	}
	return chunks, nil
}

// embedChunks embeds all chunk contents through the batching collaborator
func (ix *Indexer) embedChunks(ctx context.Context, chunks []types.Chunk) (map[string][]float32, error) {
	items := make([]llm.EmbedItem, 0, len(chunks))
	for _, c := range chunks {
		items = append(items, llm.EmbedItem{ID: c.ID, Content: c.Content})
	}

	results, err := ix.embedder.EmbedBatch(ctx, items)
	if err != nil {
		return nil, err
	}

	vectors := make(map[string][]float32, len(results))
	for _, r := range results {
		vectors[r.ID] = r.Vector
	}
	return vectors, nil
}

// writeHierarchy writes the tree text and its structured mirror
func (ix *Indexer) writeHierarchy(outputDir string, chunks []types.Chunk) error {
	idx := hierarchy.Build(chunks)

	if err := os.WriteFile(filepath.Join(outputDir, HierarchyTextFile), []byte(idx.RenderText()), 0o644); err != nil {
		return fmt.Errorf("failed to write hierarchy text: %w", err)
	}

	data, err := json.MarshalIndent(idx.Export(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode hierarchy export: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, HierarchyJSONFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write hierarchy export: %w", err)
	}
	return nil
}

func (ix *Indexer) writeMetadata(outputDir, sourceRoot string, fileCount, chunkCount int) error {
	meta := Metadata{
		SourceRoot: sourceRoot,
		CreatedAt:  time.Now().UTC(),
		FileCount:  fileCount,
		ChunkCount: chunkCount,
		Model:      ix.model,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, MetadataFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// ReadMetadata loads build metadata from a data directory
func ReadMetadata(dataDir string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, MetadataFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return &meta, nil
}
