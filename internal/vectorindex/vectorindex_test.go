package vectorindex

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codequery/pkg/types"
)

func chunk(id, name string) types.Chunk {
	return types.Chunk{
		ID: id, Content: "func " + name + "() {}", Path: name + ".go",
		StartLine: 1, EndLine: 1, Kind: types.KindFunction, Name: name,
	}
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)

	// Zero magnitude and mismatched lengths never fault
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 1}, []float32{1}))
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
}

func TestSearch_RanksBySimilarity(t *testing.T) {
	x := New()
	x.Add([]types.Chunk{chunk("a000000000000000", "alpha"), chunk("b000000000000000", "beta"), chunk("c000000000000000", "gamma")},
		map[string][]float32{
			"a000000000000000": {1, 0, 0},
			"b000000000000000": {0, 1, 0},
			"c000000000000000": {0.9, 0.1, 0},
		})

	results := x.Search([]float32{1, 0, 0}, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "alpha", results[0].Chunk.Name)
	assert.Equal(t, "gamma", results[1].Chunk.Name)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearch_TieBreakIsInsertionOrder(t *testing.T) {
	x := New()
	x.Add([]types.Chunk{chunk("1000000000000000", "first"), chunk("2000000000000000", "second")},
		map[string][]float32{
			"1000000000000000": {1, 0},
			"2000000000000000": {2, 0}, // same direction, same cosine
		})

	results := x.Search([]float32{3, 0}, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].Chunk.Name)
	assert.Equal(t, "second", results[1].Chunk.Name)
}

func TestSearch_Limits(t *testing.T) {
	x := New()
	x.Add([]types.Chunk{chunk("a000000000000000", "alpha")}, map[string][]float32{"a000000000000000": {1}})

	assert.Nil(t, x.Search([]float32{1}, 0))
	assert.Len(t, x.Search([]float32{1}, 10), 1)
}

func TestAdd_OverwriteKeepsPosition(t *testing.T) {
	x := New()
	x.Add([]types.Chunk{chunk("a000000000000000", "alpha"), chunk("b000000000000000", "beta")},
		map[string][]float32{"a000000000000000": {1}, "b000000000000000": {1}})

	updated := chunk("a000000000000000", "alpha")
	updated.Content = "updated"
	x.Add([]types.Chunk{updated}, map[string][]float32{"a000000000000000": {1}})

	assert.Equal(t, 2, x.Len())
	chunks := x.Chunks()
	require.Len(t, chunks, 2)
	assert.Equal(t, "updated", chunks[0].Content)
	assert.Equal(t, "beta", chunks[1].Name)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), SnapshotFile)

	x := New()
	x.Model = "text-embedding-3-small"
	x.Add([]types.Chunk{chunk("a000000000000000", "alpha"), chunk("b000000000000000", "beta")},
		map[string][]float32{
			"a000000000000000": {0.1, 0.2},
			"b000000000000000": {0.3, 0.4},
		})
	require.NoError(t, x.Save(path))

	loaded := New()
	require.NoError(t, loaded.Load(path))

	assert.Equal(t, "text-embedding-3-small", loaded.Model)
	assert.Equal(t, 2, loaded.Len())

	results := loaded.Search([]float32{0.3, 0.4}, 1)
	require.Len(t, results, 1)
	assert.Equal(t, "beta", results[0].Chunk.Name)
}

func TestLoad_ReplacesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), SnapshotFile)

	saved := New()
	saved.Add([]types.Chunk{chunk("a000000000000000", "alpha")}, map[string][]float32{"a000000000000000": {1}})
	require.NoError(t, saved.Save(path))

	x := New()
	x.Add([]types.Chunk{chunk("z000000000000000", "stale")}, map[string][]float32{"z000000000000000": {1}})
	require.NoError(t, x.Load(path))

	assert.Equal(t, 1, x.Len())
	_, ok := x.Get("z000000000000000")
	assert.False(t, ok)
	_, ok = x.Get("a000000000000000")
	assert.True(t, ok)
}

func TestLoad_MissingSnapshot(t *testing.T) {
	err := New().Load(filepath.Join(t.TempDir(), SnapshotFile))
	assert.ErrorIs(t, err, types.ErrMissingSnapshot)
}
