package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codequery/pkg/types"
)

func testChunks() []types.Chunk {
	module := types.Chunk{
		ID: "m000000000000000", Path: "svc/svc.go", StartLine: 1, EndLine: 3,
		Kind: types.KindModule, Name: "svc", Content: "package svc",
	}
	typ := types.Chunk{
		ID: "t000000000000000", Path: "svc/svc.go", StartLine: 5, EndLine: 8,
		Kind: types.KindType, Name: "svc.Server", ParentID: module.ID, Content: "type Server struct{}",
	}
	method := types.Chunk{
		ID: "f000000000000000", Path: "svc/svc.go", StartLine: 10, EndLine: 12,
		Kind: types.KindFunction, Name: "svc.Server.Run", ParentID: typ.ID, Content: "func (s *Server) Run() {}",
	}
	file := types.Chunk{
		ID: "d000000000000000", Path: "svc/svc.go", StartLine: 1, EndLine: 12,
		Kind: types.KindFile, Name: "svc.go", Content: "package svc ...",
	}
	other := types.Chunk{
		ID: "o000000000000000", Path: "svc/other.go", StartLine: 1, EndLine: 2,
		Kind: types.KindFile, Name: "other.go", Content: "package svc",
	}
	return []types.Chunk{module, typ, method, file, other}
}

func TestBuild_Linkage(t *testing.T) {
	idx := Build(testChunks())

	assert.Equal(t, []string{"svc/svc.go", "svc/other.go"}, idx.Files())

	parent, ok := idx.Parent("f000000000000000")
	require.True(t, ok)
	assert.Equal(t, "svc.Server", parent.Name)

	children := idx.Children("m000000000000000")
	require.Len(t, children, 1)
	assert.Equal(t, "svc.Server", children[0].Name)

	_, ok = idx.Parent("m000000000000000")
	assert.False(t, ok)

	_, ok = idx.Get("missing")
	assert.False(t, ok)
}

func TestExport_TreeShape(t *testing.T) {
	idx := Build(testChunks())
	export := idx.Export()

	require.Len(t, export, 2)
	assert.Equal(t, "svc/svc.go", export[0].Path)

	// Roots for svc.go: the file fallback and the module chunk, file kind first
	require.Len(t, export[0].Chunks, 2)
	assert.Equal(t, "file", export[0].Chunks[0].Kind)
	assert.Equal(t, "module", export[0].Chunks[1].Kind)

	module := export[0].Chunks[1]
	require.Len(t, module.Children, 1)
	assert.Equal(t, "svc.Server", module.Children[0].Name)
	require.Len(t, module.Children[0].Children, 1)
	assert.Equal(t, "svc.Server.Run", module.Children[0].Children[0].Name)
}

func TestRenderText(t *testing.T) {
	text := Build(testChunks()).RenderText()

	assert.Contains(t, text, "svc/svc.go\n")
	assert.Contains(t, text, "module svc (1-3)")
	assert.Contains(t, text, "type svc.Server (5-8)")
	assert.Contains(t, text, "function svc.Server.Run (10-12)")
}
