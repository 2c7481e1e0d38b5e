package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEvaluation_AllDimensions(t *testing.T) {
	eval := ParseEvaluation("groundedness: 8\ncompleteness: 6.5\nrelevance: 9")
	assert.Equal(t, 8.0, eval.Groundedness)
	assert.Equal(t, 6.5, eval.Completeness)
	assert.Equal(t, 9.0, eval.Relevance)
}

func TestParseEvaluation_CaseAndSpacing(t *testing.T) {
	eval := ParseEvaluation("Groundedness : 7\nRELEVANCE:3")
	assert.Equal(t, 7.0, eval.Groundedness)
	assert.Equal(t, 3.0, eval.Relevance)
}

func TestParseEvaluation_MissingDimensionsStayNeutral(t *testing.T) {
	eval := ParseEvaluation("relevance: 10")
	assert.Equal(t, float64(evalNeutral), eval.Groundedness)
	assert.Equal(t, float64(evalNeutral), eval.Completeness)
	assert.Equal(t, 10.0, eval.Relevance)
}

func TestParseEvaluation_UnparseableIsAllNeutral(t *testing.T) {
	eval := ParseEvaluation("I decline to score this.")
	assert.Equal(t, float64(evalNeutral), eval.Groundedness)
	assert.Equal(t, float64(evalNeutral), eval.Completeness)
	assert.Equal(t, float64(evalNeutral), eval.Relevance)
}
