// Package synth sends assembled context and a question to the language-model
// collaborator and returns its raw answer. It is the single outermost fault
// boundary: collaborator errors become descriptive text, never a propagated
// failure.
package synth

import (
	"context"

	"codequery/internal/llm"
)

const answerPrompt = `You answer questions about a codebase using the provided code context.
Ground every claim in the context; cite file paths and names where relevant.
If the context does not contain the answer, say so plainly.`

// Synthesizer produces the final answer text
type Synthesizer struct {
	completer llm.Completer
}

// New creates a Synthesizer backed by the language-model collaborator
func New(completer llm.Completer) *Synthesizer {
	return &Synthesizer{completer: completer}
}

// Synthesize asks the model for an answer. Any collaborator fault is absorbed
// here and converted to a descriptive string result.
func (s *Synthesizer) Synthesize(ctx context.Context, contextText, question string) string {
	answer, err := s.completer.Complete(ctx, answerPrompt, contextText, question)
	if err != nil {
		return "error occurred: " + err.Error()
	}
	return answer
}
