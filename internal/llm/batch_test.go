package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id string, chars int) EmbedItem {
	return EmbedItem{ID: id, Content: strings.Repeat("x", chars)}
}

func TestPlanBatches_Empty(t *testing.T) {
	assert.Nil(t, PlanBatches(nil, 100))
	assert.Nil(t, PlanBatches([]EmbedItem{}, 100))
}

func TestPlanBatches_SingleBatchUnderBudget(t *testing.T) {
	// ceiling 100 -> budget 80; two items of 30 tokens each fit together
	batches := PlanBatches([]EmbedItem{item("a", 90), item("b", 90)}, 100)
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 2)
}

func TestPlanBatches_FlushesBeforeOverflow(t *testing.T) {
	// ceiling 100 -> budget 80; 30-token items, third would reach 90
	items := []EmbedItem{item("a", 90), item("b", 90), item("c", 90)}
	batches := PlanBatches(items, 100)

	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 1)
	assert.Equal(t, "c", batches[1][0].ID)
}

func TestPlanBatches_OversizedItemShipsAlone(t *testing.T) {
	items := []EmbedItem{item("small", 30), item("huge", 1000), item("tail", 30)}
	batches := PlanBatches(items, 100)

	require.Len(t, batches, 3)
	assert.Equal(t, "small", batches[0][0].ID)
	assert.Equal(t, "huge", batches[1][0].ID)
	assert.Equal(t, "tail", batches[2][0].ID)
}

func TestPlanBatches_PreservesOrder(t *testing.T) {
	items := []EmbedItem{item("1", 90), item("2", 90), item("3", 90), item("4", 90)}
	var flat []string
	for _, batch := range PlanBatches(items, 100) {
		for _, it := range batch {
			flat = append(flat, it.ID)
		}
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, flat)
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, ContentHash("abc"), ContentHash("abc"))
	assert.NotEqual(t, ContentHash("abc"), ContentHash("abd"))
	assert.Len(t, ContentHash("abc"), 64)
}
