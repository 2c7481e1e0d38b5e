package segmenter

import (
	"strings"

	"codequery/pkg/types"
)

// splitOversized replaces a chunk whose token estimate exceeds the limit with
// N ordered parts, N = ceil(estimate/limit). Lines are grouped into runs of
// ceil(lines/N). Every part except the last keeps its trailing newline, so
// concatenating the parts by part index reproduces the original content byte
// for byte. Part line ranges are clipped to the original end line.
//
// The part count is derived from the token estimate while the grouping is by
// line count, so a final part can still exceed the limit when line lengths are
// very uneven. That asymmetry is intentional, observable behavior.
func (s *Segmenter) splitOversized(c types.Chunk) []types.Chunk {
	estimate := c.TokenEstimate()
	if estimate <= s.maxChunkTokens {
		return []types.Chunk{c}
	}

	n := (estimate + s.maxChunkTokens - 1) / s.maxChunkTokens
	lines := strings.Split(c.Content, "\n")
	run := (len(lines) + n - 1) / n
	if run < 1 {
		run = 1
	}

	parts := make([]types.Chunk, 0, n)
	for offset := 0; offset < len(lines); offset += run {
		last := offset+run >= len(lines)
		hi := offset + run
		if hi > len(lines) {
			hi = len(lines)
		}

		content := strings.Join(lines[offset:hi], "\n")
		if !last {
			content += "\n"
		}

		startLine := c.StartLine + offset
		endLine := startLine + (hi - offset) - 1
		if endLine > c.EndLine {
			endLine = c.EndLine
		}

		part := types.Chunk{
			ID:           types.ChunkID(c.Path, startLine, endLine, content),
			Content:      content,
			Path:         c.Path,
			StartLine:    startLine,
			EndLine:      endLine,
			Kind:         c.Kind,
			Name:         c.Name,
			ContextLabel: c.ContextLabel,
			ParentID:     c.ParentID,
			Dependencies: c.Dependencies,
			PartIndex:    len(parts) + 1,
			PartTotal:    n,
			OriginID:     c.ID,
		}
		parts = append(parts, part)
	}

	return parts
}
