package segmenter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codequery/pkg/types"
)

func segmentSource(t *testing.T, name, content string, maxTokens int) []types.Chunk {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	chunks, err := New(maxTokens).SegmentFile(path, name)
	require.NoError(t, err)
	return chunks
}

func findChunk(chunks []types.Chunk, kind types.ChunkKind, name string) *types.Chunk {
	for i := range chunks {
		if chunks[i].Kind == kind && chunks[i].Name == name {
			return &chunks[i]
		}
	}
	return nil
}

func TestSegmentFile_StructWithMethods(t *testing.T) {
	content := `package store

import (
	"fmt"
	"strings"
)

// User is a stored account
type User struct {
	ID   int
	Name string
}

func (u *User) Describe() string {
	return fmt.Sprintf("%d: %s", u.ID, strings.ToUpper(u.Name))
}

func (u *User) Rename(name string) {
	u.Name = name
}

func NewUser(name string) *User {
	return &User{Name: name}
}
`
	chunks := segmentSource(t, "store.go", content, 0)

	module := findChunk(chunks, types.KindModule, "store")
	require.NotNil(t, module)
	assert.Equal(t, []string{"fmt", "strings"}, module.Dependencies)
	assert.Contains(t, module.Content, "package store")

	user := findChunk(chunks, types.KindType, "store.User")
	require.NotNil(t, user)
	assert.Equal(t, module.ID, user.ParentID)

	// Methods parent to their receiver's type chunk, not the module
	describe := findChunk(chunks, types.KindFunction, "store.User.Describe")
	require.NotNil(t, describe)
	assert.Equal(t, user.ID, describe.ParentID)
	assert.Equal(t, "type store.User", describe.ContextLabel)
	assert.Contains(t, describe.Dependencies, "ToUpper")

	rename := findChunk(chunks, types.KindFunction, "store.User.Rename")
	require.NotNil(t, rename)
	assert.Equal(t, user.ID, rename.ParentID)

	ctor := findChunk(chunks, types.KindFunction, "store.NewUser")
	require.NotNil(t, ctor)
	assert.Equal(t, module.ID, ctor.ParentID)

	// Whole-file fallback is always last
	last := chunks[len(chunks)-1]
	assert.Equal(t, types.KindFile, last.Kind)
	assert.Equal(t, content, last.Content)
	assert.Equal(t, 1, last.StartLine)
}

func TestSegmentFile_ConstGroup(t *testing.T) {
	content := `package limits

const (
	MaxItems = 100
	MinItems = 1
)

var defaultName = "limits"
`
	chunks := segmentSource(t, "limits.go", content, 0)

	group := findChunk(chunks, types.KindGroup, "limits.MaxItems")
	require.NotNil(t, group)
	assert.Contains(t, group.Content, "MinItems")

	vars := findChunk(chunks, types.KindGroup, "limits.defaultName")
	require.NotNil(t, vars)
}

func TestSegmentFile_ParseFailureKeepsFallback(t *testing.T) {
	content := "package broken\n\nfunc Incomplete( {\n"
	chunks := segmentSource(t, "broken.go", content, 0)

	require.NotEmpty(t, chunks)
	last := chunks[len(chunks)-1]
	assert.Equal(t, types.KindFile, last.Kind)
	assert.Equal(t, content, last.Content)
}

func TestSegmentFile_NonGoFile(t *testing.T) {
	content := "# Notes\n\nSome documentation text.\n"
	chunks := segmentSource(t, "notes.md", content, 0)

	require.Len(t, chunks, 1)
	assert.Equal(t, types.KindFile, chunks[0].Kind)
	assert.Equal(t, "notes.md", chunks[0].Name)
	assert.Equal(t, content, chunks[0].Content)
}

func TestSegmentFile_IDsAreContentAddressed(t *testing.T) {
	content := "package a\n\nfunc F() {}\n"
	first := segmentSource(t, "a.go", content, 0)
	second := segmentSource(t, "a.go", content, 0)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestSplitOversized_ReconstructsExactly(t *testing.T) {
	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, strings.Repeat("x", 30))
	}
	content := strings.Join(lines, "\n") + "\n"
	chunks := segmentSource(t, "big.txt", content, 100)

	require.Greater(t, len(chunks), 1)

	var rebuilt strings.Builder
	origin := chunks[0].OriginID
	for i, part := range chunks {
		assert.Equal(t, i+1, part.PartIndex)
		assert.Equal(t, chunks[0].PartTotal, part.PartTotal)
		assert.Equal(t, origin, part.OriginID)
		assert.LessOrEqual(t, part.EndLine, 40)
		rebuilt.WriteString(part.Content)
	}
	assert.Equal(t, content, rebuilt.String())
}

func TestSplitOversized_UnderLimitUntouched(t *testing.T) {
	content := "short file\n"
	chunks := segmentSource(t, "small.txt", content, 7000)

	require.Len(t, chunks, 1)
	assert.False(t, chunks[0].IsSplit())
	assert.Zero(t, chunks[0].PartIndex)
	assert.Empty(t, chunks[0].OriginID)
}

func TestSegmentFile_MissingFile(t *testing.T) {
	_, err := New(0).SegmentFile(filepath.Join(t.TempDir(), "nope.go"), "nope.go")
	assert.Error(t, err)
}
