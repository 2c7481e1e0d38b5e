// Package planner expands a question and extracts search keywords through
// one-shot language-model calls, with local fallbacks when the response is
// too short to use. It also scores chunks against keywords for the keyword
// leg of retrieval fusion.
package planner

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"codequery/internal/llm"
	"codequery/pkg/types"
)

const expandPrompt = `You rewrite code-search questions to improve retrieval.
Respond with exactly two lines:
line 1: the question, unchanged
line 2: additional search terms, space-separated (synonyms, likely identifier names, related concepts)`

const keywordPrompt = `Extract search keywords from a question about a codebase.
Respond with one keyword per line: identifiers, function or type names, domain terms.
No numbering, no commentary.`

// identifierPattern matches alphanumeric/underscore runs longer than 2
// characters, the local fallback source of keywords.
var identifierPattern = regexp.MustCompile(`[A-Za-z0-9_]{3,}`)

// minKeywords is the threshold under which local supplementation kicks in
const minKeywords = 3

// Planner prepares a question for retrieval
type Planner struct {
	completer llm.Completer
}

// New creates a Planner backed by the given language-model collaborator
func New(completer llm.Completer) *Planner {
	return &Planner{completer: completer}
}

// Expand asks the model for additional search terms. The reply is expected to
// be two lines: the echoed question, then space-separated terms. Anything
// shorter leaves the question unchanged; a longer reply contributes all lines
// after the first.
func (p *Planner) Expand(ctx context.Context, question string) string {
	resp, err := p.completer.Complete(ctx, expandPrompt, "", question)
	if err != nil {
		return question
	}

	lines := nonEmptyLines(resp)
	if len(lines) < 2 {
		return question
	}
	return question + " " + strings.Join(lines[1:], " ")
}

// ExtractKeywords asks the model for newline-separated keywords. If fewer
// than three non-empty lines come back, the question itself is scanned for
// identifier-like runs. The result is deduplicated, order preserved.
func (p *Planner) ExtractKeywords(ctx context.Context, question string) []string {
	var keywords []string
	if resp, err := p.completer.Complete(ctx, keywordPrompt, "", question); err == nil {
		keywords = nonEmptyLines(resp)
	}

	if len(keywords) < minKeywords {
		keywords = append(keywords, identifierPattern.FindAllString(question, -1)...)
	}

	return dedupe(keywords)
}

// KeywordSearch scores every chunk against the keywords: one point per
// case-insensitive occurrence in the content, two per occurrence in the
// "path name kind" metadata string. Chunks scoring zero are dropped; the rest
// are sorted descending, stable.
func (p *Planner) KeywordSearch(keywords []string, chunks []types.Chunk) []types.RankedCandidate {
	if len(keywords) == 0 {
		return nil
	}

	var results []types.RankedCandidate
	for _, chunk := range chunks {
		content := strings.ToLower(chunk.Content)
		meta := strings.ToLower(chunk.Path + " " + chunk.Name + " " + string(chunk.Kind))

		score := 0
		for _, kw := range keywords {
			k := strings.ToLower(kw)
			if k == "" {
				continue
			}
			score += strings.Count(content, k)
			score += 2 * strings.Count(meta, k)
		}
		if score > 0 {
			results = append(results, types.RankedCandidate{Chunk: chunk, Score: float64(score)})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func dedupe(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		key := strings.ToLower(kw)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, kw)
	}
	return out
}
