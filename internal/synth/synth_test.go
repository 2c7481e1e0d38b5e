package synth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubCompleter struct {
	response string
	err      error
}

func (s *stubCompleter) Complete(ctx context.Context, systemPrompt, contextText, question string) (string, error) {
	return s.response, s.err
}

func TestSynthesize_ReturnsAnswer(t *testing.T) {
	s := New(&stubCompleter{response: "The retry logic lives in internal/llm/retry.go."})
	answer := s.Synthesize(context.Background(), "code context", "where is retry?")
	assert.Equal(t, "The retry logic lives in internal/llm/retry.go.", answer)
}

func TestSynthesize_FaultBecomesText(t *testing.T) {
	s := New(&stubCompleter{err: errors.New("rate limit exceeded")})
	answer := s.Synthesize(context.Background(), "code context", "where is retry?")
	assert.Equal(t, "error occurred: rate limit exceeded", answer)
}
