// Package mealplan implements multi-day plan assembly with
// inventory-aware recipe selection.
package mealplan

import (
	"sort"

	domain "github.com/cuizine/api/internal/domain/mealplan"
	"github.com/cuizine/api/internal/domain/recipe"
)

// Scoring weights for inventory usage. Expiry urgency dominates so that
// ingredients about to spoil get cooked first; amount coverage breaks
// near-ties between equally urgent candidates.
const (
	scoreExpiryUrgent  = 3.0 // spoils within 2 days
	scoreExpirySoon    = 2.0 // spoils within 4 days
	scoreAmountCovered = 1.0 // inventory fully covers the needed amount
	scoreAmountPartial = 0.5 // inventory covers at least 75%

	urgentExpiryDays = 2
	soonExpiryDays   = 4
	partialCoverage  = 0.75
)

// ScoredRecipe pairs a candidate with its inventory usage score
type ScoredRecipe struct {
	Recipe *recipe.Recipe
	Score  float64
}

// UsageScore measures how well a recipe consumes the current inventory.
// Ingredients absent from the inventory contribute nothing; a recipe
// needing no inventory item scores zero but stays selectable.
func UsageScore(r *recipe.Recipe, inv domain.Inventory) float64 {
	var score float64
	for _, ing := range r.Ingredients() {
		entry, ok := inv[ing.Item]
		if !ok {
			continue
		}

		if entry.DaysUntilExpiry <= urgentExpiryDays {
			score += scoreExpiryUrgent
		} else if entry.DaysUntilExpiry <= soonExpiryDays {
			score += scoreExpirySoon
		}

		if entry.Amount >= ing.Amount {
			score += scoreAmountCovered
		} else if entry.Amount >= ing.Amount*partialCoverage {
			score += scoreAmountPartial
		}
	}
	return score
}

// RankByInventoryUsage orders candidates by descending usage score.
// Ties are broken by recipe ID so ranking is deterministic for a given
// candidate set; the input slice is not modified.
func RankByInventoryUsage(candidates []*recipe.Recipe, inv domain.Inventory) []ScoredRecipe {
	ranked := make([]ScoredRecipe, len(candidates))
	for i, r := range candidates {
		ranked[i] = ScoredRecipe{Recipe: r, Score: UsageScore(r, inv)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Recipe.ID().String() < ranked[j].Recipe.ID().String()
	})
	return ranked
}
