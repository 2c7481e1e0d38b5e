package searcher

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"codequery/pkg/types"
)

const rerankPrompt = `You rank code chunks by relevance to a question.
For each chunk, respond with a line of the form:
position N: <score> - <one-line justification>
where <score> is 0-10 and N is the chunk's position in the list.`

// neutralScore is assigned when a chunk's score cannot be parsed from the
// rerank response.
const neutralScore = 5

// scoreLine matches "position N: score" with an optional fractional part
var scoreLine = regexp.MustCompile(`(?i)position\s+(\d+)\s*:\s*(\d+(?:\.\d+)?)`)

// rerank scores the merged candidates in batches. Each batch is sorted
// descending by parsed score with a stable tie-break; batches are then
// concatenated in their original order.
func (f *Fusion) rerank(ctx context.Context, candidates []types.RankedCandidate) []types.RankedCandidate {
	batchSize := f.opts.RerankBatchSize
	if batchSize <= 0 {
		return candidates
	}

	out := make([]types.RankedCandidate, 0, len(candidates))
	for start := 0; start < len(candidates); start += batchSize {
		end := start + batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		out = append(out, f.rerankBatch(ctx, candidates[start:end])...)
	}
	return out
}

func (f *Fusion) rerankBatch(ctx context.Context, batch []types.RankedCandidate) []types.RankedCandidate {
	scores := make([]float64, len(batch))
	for i := range scores {
		scores[i] = neutralScore
	}

	resp, err := f.completer.Complete(ctx, rerankPrompt, f.batchContext(batch), "Score each chunk.")
	if err == nil {
		// An unparseable response leaves the uniform neutral scores in place
		for pos, score := range ParseRerankScores(resp, len(batch)) {
			scores[pos] = score
		}
	}

	ranked := make([]types.RankedCandidate, len(batch))
	for i, cand := range batch {
		ranked[i] = types.RankedCandidate{Chunk: cand.Chunk, Score: scores[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// batchContext renders the per-chunk previews sent to the reranker
func (f *Fusion) batchContext(batch []types.RankedCandidate) string {
	var b strings.Builder
	for i, cand := range batch {
		c := cand.Chunk
		preview := c.Content
		if len(preview) > f.opts.PreviewChars {
			preview = preview[:f.opts.PreviewChars]
		}
		fmt.Fprintf(&b, "position %d: %s %s (%s lines %d-%d)\n%s\n\n",
			i+1, c.Kind, c.Name, c.Path, c.StartLine, c.EndLine, preview)
	}
	return b.String()
}

// ParseRerankScores extracts "position N: score" lines from a rerank
// response. Positions are 1-based in the response and 0-based in the result;
// out-of-range positions are ignored. The function never fails: an
// unparseable response simply yields an empty map.
func ParseRerankScores(response string, batchLen int) map[int]float64 {
	scores := make(map[int]float64)
	for _, match := range scoreLine.FindAllStringSubmatch(response, -1) {
		pos, err := strconv.Atoi(match[1])
		if err != nil || pos < 1 || pos > batchLen {
			continue
		}
		score, err := strconv.ParseFloat(match[2], 64)
		if err != nil {
			continue
		}
		scores[pos-1] = score
	}
	return scores
}
