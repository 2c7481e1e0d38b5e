// Package hierarchy is the read-model over segmenter output: an id-keyed
// index of chunks with per-file trees built from the weak parent references.
// Traversal is a map lookup, never pointer-chasing between chunks.
package hierarchy

import (
	"fmt"
	"sort"
	"strings"

	"codequery/pkg/types"
)

// Index holds chunks keyed by id with per-file parent/child linkage
type Index struct {
	files    []string                 // first-appearance order
	byFile   map[string][]types.Chunk // emission order per file
	byID     map[string]types.Chunk
	children map[string][]string // parent id -> child ids, emission order
}

// Build constructs the index from chunks in emission order
func Build(chunks []types.Chunk) *Index {
	idx := &Index{
		byFile:   make(map[string][]types.Chunk),
		byID:     make(map[string]types.Chunk),
		children: make(map[string][]string),
	}
	for _, c := range chunks {
		if _, seen := idx.byFile[c.Path]; !seen {
			idx.files = append(idx.files, c.Path)
		}
		idx.byFile[c.Path] = append(idx.byFile[c.Path], c)
		idx.byID[c.ID] = c
		if c.ParentID != "" {
			idx.children[c.ParentID] = append(idx.children[c.ParentID], c.ID)
		}
	}
	return idx
}

// Get resolves a chunk by id
func (x *Index) Get(id string) (types.Chunk, bool) {
	c, ok := x.byID[id]
	return c, ok
}

// Parent resolves a chunk's parent through the index
func (x *Index) Parent(id string) (types.Chunk, bool) {
	c, ok := x.byID[id]
	if !ok || c.ParentID == "" {
		return types.Chunk{}, false
	}
	return x.Get(c.ParentID)
}

// Children returns a chunk's children in emission order
func (x *Index) Children(id string) []types.Chunk {
	ids := x.children[id]
	out := make([]types.Chunk, 0, len(ids))
	for _, cid := range ids {
		if c, ok := x.byID[cid]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Files returns indexed file paths in first-appearance order
func (x *Index) Files() []string {
	return x.files
}

// NodeExport mirrors one chunk in the structured hierarchy export
type NodeExport struct {
	ID        string       `json:"id"`
	Kind      string       `json:"kind"`
	Name      string       `json:"name"`
	StartLine int          `json:"start_line"`
	EndLine   int          `json:"end_line"`
	Children  []NodeExport `json:"children,omitempty"`
}

// FileExport mirrors one file's chunk tree
type FileExport struct {
	Path   string       `json:"path"`
	Chunks []NodeExport `json:"chunks"`
}

// Export produces the structured mirror of the hierarchy, one entry per file
func (x *Index) Export() []FileExport {
	out := make([]FileExport, 0, len(x.files))
	for _, path := range x.files {
		fe := FileExport{Path: path}
		for _, c := range x.roots(path) {
			fe.Chunks = append(fe.Chunks, x.exportNode(c))
		}
		out = append(out, fe)
	}
	return out
}

// RenderText produces the human-readable tree, one block per file
func (x *Index) RenderText() string {
	var b strings.Builder
	for _, path := range x.files {
		fmt.Fprintf(&b, "%s\n", path)
		for _, c := range x.roots(path) {
			x.renderNode(&b, c, 1)
		}
	}
	return b.String()
}

// roots returns a file's chunks whose parent is absent or lives outside the
// file, ordered by kind priority then start line.
func (x *Index) roots(path string) []types.Chunk {
	var roots []types.Chunk
	for _, c := range x.byFile[path] {
		if c.ParentID == "" {
			roots = append(roots, c)
			continue
		}
		if parent, ok := x.byID[c.ParentID]; !ok || parent.Path != path {
			roots = append(roots, c)
		}
	}
	sort.SliceStable(roots, func(i, j int) bool {
		if roots[i].Kind.Priority() != roots[j].Kind.Priority() {
			return roots[i].Kind.Priority() < roots[j].Kind.Priority()
		}
		return roots[i].StartLine < roots[j].StartLine
	})
	return roots
}

func (x *Index) exportNode(c types.Chunk) NodeExport {
	node := NodeExport{
		ID:        c.ID,
		Kind:      string(c.Kind),
		Name:      c.Name,
		StartLine: c.StartLine,
		EndLine:   c.EndLine,
	}
	for _, child := range x.Children(c.ID) {
		node.Children = append(node.Children, x.exportNode(child))
	}
	return node
}

func (x *Index) renderNode(b *strings.Builder, c types.Chunk, depth int) {
	indent := strings.Repeat("  ", depth)
	label := c.Name
	if label == "" {
		label = c.ID
	}
	fmt.Fprintf(b, "%s%s %s (%d-%d)", indent, c.Kind, label, c.StartLine, c.EndLine)
	if c.IsSplit() {
		fmt.Fprintf(b, " [part %d/%d]", c.PartIndex, c.PartTotal)
	}
	b.WriteString("\n")
	for _, child := range x.Children(c.ID) {
		x.renderNode(b, child, depth+1)
	}
}
