// Package shoppinglist contains the shopping list aggregate and the
// additive merge semantics for combining lists.
package shoppinglist

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrListNotFound = errors.New("shopping list not found")
	ErrNoLists      = errors.New("at least one shopping list is required")
)

// Item is a single shopping list line
type Item struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
	Checked  bool    `json:"checked"`
	Notes    string  `json:"notes,omitempty"`
}

// Key identifies an item for merging: same name and unit are additive
func (i Item) Key() string {
	return fmt.Sprintf("%s_%s", i.Name, i.Unit)
}

// ShoppingList groups items for purchase, optionally tied to a recipe
type ShoppingList struct {
	ID        uuid.UUID
	UserID    string
	RecipeID  *uuid.UUID
	Name      string
	Items     []Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates a shopping list with sorted, categorized items
func New(userID, name string, recipeID *uuid.UUID, items []Item) *ShoppingList {
	for i := range items {
		if items[i].Category == "" {
			items[i].Category = Categorize(items[i].Name)
		}
	}
	SortItems(items)
	now := time.Now()
	return &ShoppingList{
		ID:        uuid.New(),
		UserID:    userID,
		RecipeID:  recipeID,
		Name:      name,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Merge combines lists into a new one. Items sharing a name+unit key are
// summed; everything else is carried over untouched.
func Merge(userID, name string, lists []*ShoppingList) (*ShoppingList, error) {
	if len(lists) == 0 {
		return nil, ErrNoLists
	}

	merged := make(map[string]Item)
	var order []string
	for _, list := range lists {
		for _, item := range list.Items {
			key := item.Key()
			if existing, ok := merged[key]; ok {
				existing.Amount = round2(existing.Amount + item.Amount)
				merged[key] = existing
				continue
			}
			merged[key] = item
			order = append(order, key)
		}
	}

	items := make([]Item, 0, len(merged))
	for _, key := range order {
		items = append(items, merged[key])
	}
	return New(userID, name, nil, items), nil
}

// ApplyItemUpdates overwrites matching items by name+unit key
func (l *ShoppingList) ApplyItemUpdates(updates []Item) {
	index := make(map[string]int, len(l.Items))
	for i, item := range l.Items {
		index[item.Key()] = i
	}
	for _, update := range updates {
		if i, ok := index[update.Key()]; ok {
			l.Items[i] = update
		}
	}
	l.UpdatedAt = time.Now()
}

// SortItems orders items by category then name for a sensible store walk
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})
}

var categoryKeywords = map[string][]string{
	"produce": {"lettuce", "tomato", "onion", "garlic", "vegetable", "fruit", "pepper", "carrot"},
	"meat":    {"chicken", "beef", "pork", "fish", "seafood", "turkey", "lamb"},
	"dairy":   {"milk", "cheese", "yogurt", "cream", "butter", "egg"},
	"pantry":  {"flour", "sugar", "oil", "vinegar", "spice", "herb", "rice", "pasta"},
	"frozen":  {"frozen"},
}

// Categorize guesses a store category from an ingredient name
func Categorize(name string) string {
	lower := strings.ToLower(name)
	for category, keywords := range categoryKeywords {
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				return category
			}
		}
	}
	return "other"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
