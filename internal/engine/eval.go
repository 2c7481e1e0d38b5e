package engine

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"codequery/internal/feedback"
)

const evalPrompt = `You score an answer about a codebase against the code context it was built from.
Respond with exactly three lines:
groundedness: <0-10>
completeness: <0-10>
relevance: <0-10>`

// evalNeutral fills in for any dimension the response does not yield
const evalNeutral = 5

var evalLine = regexp.MustCompile(`(?i)(groundedness|completeness|relevance)\s*:\s*(\d+(?:\.\d+)?)`)

// evaluate asks the model to score the answer. Parsing never fails: missing
// dimensions keep a neutral score.
func (e *Engine) evaluate(ctx context.Context, contextText, question, answer string) feedback.Evaluation {
	prompt := "Question: " + question + "\n\nAnswer:\n" + answer
	resp, err := e.completer.Complete(ctx, evalPrompt, contextText, prompt)
	if err != nil {
		return feedback.Evaluation{Groundedness: evalNeutral, Completeness: evalNeutral, Relevance: evalNeutral}
	}
	return ParseEvaluation(resp)
}

// ParseEvaluation extracts the three dimension scores from an evaluation
// response, substituting a neutral 5 for anything unparseable.
func ParseEvaluation(response string) feedback.Evaluation {
	eval := feedback.Evaluation{
		Groundedness: evalNeutral,
		Completeness: evalNeutral,
		Relevance:    evalNeutral,
	}
	for _, match := range evalLine.FindAllStringSubmatch(response, -1) {
		score, err := strconv.ParseFloat(match[2], 64)
		if err != nil {
			continue
		}
		switch strings.ToLower(match[1]) {
		case "groundedness":
			eval.Groundedness = score
		case "completeness":
			eval.Completeness = score
		case "relevance":
			eval.Relevance = score
		}
	}
	return eval
}
