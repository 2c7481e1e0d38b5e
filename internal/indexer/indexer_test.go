package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codequery/internal/llm"
	"codequery/internal/vectorindex"
	"codequery/pkg/types"
)

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, items []llm.EmbedItem) ([]llm.EmbedResult, error) {
	f.calls++
	out := make([]llm.EmbedResult, len(items))
	for i, it := range items {
		out[i] = llm.EmbedResult{ID: it.ID, Vector: []float32{float32(len(it.Content)), 1}}
	}
	return out, nil
}

func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	source := `package demo

import "fmt"

type Greeter struct{}

func (g Greeter) Greet(name string) {
	fmt.Println("hi " + name)
}
`
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "demo.go"), []byte(source), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# Demo\n"), 0o644))
	return root
}

func TestBuild_WritesAllArtifacts(t *testing.T) {
	root := writeTree(t)
	outputDir := filepath.Join(t.TempDir(), "data")

	ix := New(&fakeEmbedder{}, 0, "test-model")
	stats, err := ix.Build(context.Background(), root, outputDir)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FilesScanned)
	assert.Greater(t, stats.ChunksCreated, 2)

	for _, name := range []string{vectorindex.SnapshotFile, HierarchyTextFile, HierarchyJSONFile, MetadataFile} {
		_, err := os.Stat(filepath.Join(outputDir, name))
		assert.NoError(t, err, name)
	}
}

func TestBuild_SnapshotIsLoadable(t *testing.T) {
	root := writeTree(t)
	outputDir := filepath.Join(t.TempDir(), "data")

	ix := New(&fakeEmbedder{}, 0, "test-model")
	stats, err := ix.Build(context.Background(), root, outputDir)
	require.NoError(t, err)

	loaded := vectorindex.New()
	require.NoError(t, loaded.Load(filepath.Join(outputDir, vectorindex.SnapshotFile)))

	assert.Equal(t, stats.ChunksCreated, loaded.Len())
	assert.Equal(t, "test-model", loaded.Model)

	// Chunk records carry paths relative to the source root
	for _, c := range loaded.Chunks() {
		assert.False(t, filepath.IsAbs(c.Path), c.Path)
	}
}

func TestBuild_MetadataRoundTrip(t *testing.T) {
	root := writeTree(t)
	outputDir := filepath.Join(t.TempDir(), "data")

	ix := New(&fakeEmbedder{}, 0, "test-model")
	stats, err := ix.Build(context.Background(), root, outputDir)
	require.NoError(t, err)

	meta, err := ReadMetadata(outputDir)
	require.NoError(t, err)

	assert.Equal(t, root, meta.SourceRoot)
	assert.Equal(t, stats.FilesScanned, meta.FileCount)
	assert.Equal(t, stats.ChunksCreated, meta.ChunkCount)
	assert.Equal(t, "test-model", meta.Model)
	assert.False(t, meta.CreatedAt.IsZero())
}

func TestBuild_MissingRoot(t *testing.T) {
	ix := New(&fakeEmbedder{}, 0, "")
	_, err := ix.Build(context.Background(), filepath.Join(t.TempDir(), "absent"), t.TempDir())
	assert.ErrorIs(t, err, types.ErrMissingRoot)
}

func TestReadMetadata_Missing(t *testing.T) {
	_, err := ReadMetadata(t.TempDir())
	assert.Error(t, err)
}
