package mealplan

import (
	"github.com/cuizine/api/internal/domain/recipe"
	"github.com/google/uuid"
)

// InventoryEntry is an available ingredient with a spoilage horizon.
// Entries are scoped to a single plan assembly run.
type InventoryEntry struct {
	Name            string
	Amount          float64
	Unit            string
	DaysUntilExpiry int
	SourceRecipeID  *uuid.UUID
}

// Inventory tracks available ingredients by name during plan assembly.
// It is exclusively owned by one assembler run; no locking.
type Inventory map[string]InventoryEntry

// Clone returns an independent copy of the inventory
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

// Age advances the inventory one day: every entry's expiry horizon drops
// by one and spoiled entries (expiry <= 0) are removed.
func (inv Inventory) Age() {
	for name, entry := range inv {
		entry.DaysUntilExpiry--
		if entry.DaysUntilExpiry <= 0 {
			delete(inv, name)
			continue
		}
		inv[name] = entry
	}
}

// Consume applies a cooked recipe to the inventory: used amounts are
// deducted (entries dropping to zero are removed) and declared leftover
// yields are added with their shelf-life expiry.
func (inv Inventory) Consume(r *recipe.Recipe) {
	recipeID := r.ID()
	for _, ing := range r.Ingredients() {
		if entry, ok := inv[ing.Item]; ok {
			entry.Amount -= ing.Amount
			if entry.Amount <= 0 {
				delete(inv, ing.Item)
			} else {
				inv[ing.Item] = entry
			}
		}

		if !ing.YieldsLeftover {
			continue
		}
		ratio := ing.LeftoverRatio
		if ratio <= 0 {
			ratio = 0.5
		}
		leftoverAmount := ing.Amount * ratio

		if entry, ok := inv[ing.Item]; ok {
			entry.Amount += leftoverAmount
			inv[ing.Item] = entry
			continue
		}
		shelfLife := ing.ShelfLifeDays
		if shelfLife <= 0 {
			shelfLife = 3
		}
		id := recipeID
		inv[ing.Item] = InventoryEntry{
			Name:            ing.Item,
			Amount:          leftoverAmount,
			Unit:            ing.Unit,
			DaysUntilExpiry: shelfLife,
			SourceRecipeID:  &id,
		}
	}
}
