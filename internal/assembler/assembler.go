// Package assembler packs ranked chunks plus a file overview into one text
// blob under a token budget, using the uniform ceil(chars/3) estimate.
package assembler

import (
	"fmt"
	"sort"
	"strings"

	"codequery/pkg/types"
)

const (
	// DefaultBudget is the standard context token budget
	DefaultBudget = 12000
	// overviewShare caps the overview at a tenth of the budget
	overviewShare = 10
	// truncationFloor is the minimum remaining budget for which a truncation
	// notice is still emitted instead of stopping outright
	truncationFloor = 100
	// overviewFunctionLimit caps function names on an overview line
	overviewFunctionLimit = 3
)

// Assembler builds the context blob handed to answer synthesis
type Assembler struct{}

// New creates an Assembler
func New() *Assembler {
	return &Assembler{}
}

// Assemble packs the ranked chunks under the token budget. The file overview
// is considered first and included only if its own estimate fits within a
// tenth of the budget. Chunks are grouped by file in first-appearance order;
// within a file they are ordered by kind priority, then start line. A unit
// that would exceed the budget truncates its file with a one-line notice when
// more than 100 estimated tokens remain, otherwise assembly stops.
func (a *Assembler) Assemble(candidates []types.RankedCandidate, budget int) string {
	if budget <= 0 {
		budget = DefaultBudget
	}

	var b strings.Builder
	used := 0

	if overview := buildOverview(candidates); overview != "" {
		if est := types.EstimateTokens(overview); est <= budget/overviewShare {
			b.WriteString(overview)
			used += est
		}
	}

	files, byFile := groupByFile(candidates)
	for _, path := range files {
		chunks := byFile[path]
		sort.SliceStable(chunks, func(i, j int) bool {
			if chunks[i].Kind.Priority() != chunks[j].Kind.Priority() {
				return chunks[i].Kind.Priority() < chunks[j].Kind.Priority()
			}
			return chunks[i].StartLine < chunks[j].StartLine
		})

		headerPending := fmt.Sprintf("\n## %s\n", path)
		for _, chunk := range chunks {
			unit := headerPending + renderChunk(chunk)
			est := types.EstimateTokens(unit)

			if used+est > budget {
				remaining := budget - used
				if remaining > truncationFloor {
					notice := fmt.Sprintf("\n[truncated: omitted %s %s and the rest of %s]\n",
						chunk.Kind, chunk.Name, path)
					b.WriteString(notice)
					used += types.EstimateTokens(notice)
					break // next file
				}
				return b.String()
			}

			b.WriteString(unit)
			used += est
			headerPending = ""
		}
	}

	return b.String()
}

// buildOverview renders one line per distinct file: its declared types and
// modules, else up to three function names, else just the path.
func buildOverview(candidates []types.RankedCandidate) string {
	files, byFile := groupByFile(candidates)
	if len(files) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Files\n")
	for _, path := range files {
		var prominent, functions []string
		for _, c := range byFile[path] {
			switch c.Kind {
			case types.KindType, types.KindModule:
				prominent = append(prominent, c.Name)
			case types.KindFunction:
				if len(functions) < overviewFunctionLimit {
					functions = append(functions, c.Name)
				}
			}
		}

		switch {
		case len(prominent) > 0:
			fmt.Fprintf(&b, "%s: %s\n", path, strings.Join(prominent, ", "))
		case len(functions) > 0:
			fmt.Fprintf(&b, "%s: %s\n", path, strings.Join(functions, ", "))
		default:
			fmt.Fprintf(&b, "%s\n", path)
		}
	}
	return b.String()
}

// groupByFile splits candidates by file, keeping first-appearance order among
// the ranked chunks.
func groupByFile(candidates []types.RankedCandidate) ([]string, map[string][]types.Chunk) {
	var files []string
	byFile := make(map[string][]types.Chunk)
	for _, cand := range candidates {
		path := cand.Chunk.Path
		if _, seen := byFile[path]; !seen {
			files = append(files, path)
		}
		byFile[path] = append(byFile[path], cand.Chunk)
	}
	return files, byFile
}

// renderChunk formats one chunk: kind/name, line range, split-part indicator,
// parent annotation, then the literal content in a fence.
func renderChunk(c types.Chunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s %s (lines %d-%d)", c.Kind, c.Name, c.StartLine, c.EndLine)
	if c.IsSplit() {
		fmt.Fprintf(&b, " [part %d/%d]", c.PartIndex, c.PartTotal)
	}
	if c.ContextLabel != "" {
		fmt.Fprintf(&b, " (in %s)", c.ContextLabel)
	}
	b.WriteString("\n```\n")
	b.WriteString(c.Content)
	if !strings.HasSuffix(c.Content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n")
	return b.String()
}
