package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codequery/pkg/types"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("content\n"), 0o644))
}

func TestDiscover_CollectsEligibleFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"))
	writeFile(t, filepath.Join(root, "README.md"))
	writeFile(t, filepath.Join(root, "internal", "service.go"))
	writeFile(t, filepath.Join(root, "image.png"))
	writeFile(t, filepath.Join(root, "binary.exe"))

	files, err := New().Discover(root)
	require.NoError(t, err)

	names := make([]string, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		names[i] = rel
	}
	assert.ElementsMatch(t, []string{"main.go", "README.md", filepath.Join("internal", "service.go")}, names)
}

func TestDiscover_PrunesDeniedAndHiddenDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.go"))
	writeFile(t, filepath.Join(root, "node_modules", "dep.js"))
	writeFile(t, filepath.Join(root, "vendor", "lib.go"))
	writeFile(t, filepath.Join(root, "__pycache__", "mod.py"))
	writeFile(t, filepath.Join(root, ".git", "hooks.go"))
	writeFile(t, filepath.Join(root, ".idea", "workspace.md"))

	files, err := New().Discover(root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(root, "keep.go"), files[0])
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := New().Discover(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.ErrorIs(t, err, types.ErrMissingRoot)
}

func TestDiscover_RootIsFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "file.go")
	writeFile(t, path)

	_, err := New().Discover(path)
	assert.ErrorIs(t, err, types.ErrMissingRoot)
}

func TestEligible(t *testing.T) {
	assert.True(t, Eligible("a/b/c.go"))
	assert.True(t, Eligible("doc.MD"))
	assert.True(t, Eligible("notes.txt"))
	assert.True(t, Eligible("lib.rs"))
	assert.False(t, Eligible("photo.jpg"))
	assert.False(t, Eligible("Makefile"))
}

func TestIsGoSource(t *testing.T) {
	assert.True(t, IsGoSource("pkg/util.go"))
	assert.False(t, IsGoSource("pkg/util.py"))
	assert.False(t, IsGoSource("golang.md"))
}
