package llm

import "codequery/pkg/types"

// batchBudgetRatio is the share of the per-request token ceiling a single
// embedding batch may fill.
const batchBudgetRatio = 0.8

// PlanBatches groups embed items so each batch's cumulative estimated token
// count stays under 80% of the per-request ceiling, flushing whenever the next
// item would exceed the budget. An item too large for an empty batch still
// ships alone; the provider, not the planner, owns that rejection.
func PlanBatches(items []EmbedItem, requestTokenCeiling int) [][]EmbedItem {
	if len(items) == 0 {
		return nil
	}

	budget := int(float64(requestTokenCeiling) * batchBudgetRatio)
	if budget < 1 {
		budget = 1
	}

	var batches [][]EmbedItem
	var current []EmbedItem
	used := 0

	for _, item := range items {
		estimate := types.EstimateTokens(item.Content)
		if len(current) > 0 && used+estimate > budget {
			batches = append(batches, current)
			current = nil
			used = 0
		}
		current = append(current, item)
		used += estimate
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}
