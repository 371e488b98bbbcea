// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/cuizine/api/internal/domain/mealplan"
	"github.com/cuizine/api/internal/domain/recipe"
	"github.com/cuizine/api/internal/domain/shoppinglist"
	"github.com/cuizine/api/internal/domain/user"
	"github.com/google/uuid"
)

// RecipeRepository defines the interface for recipe persistence
// This follows the Repository pattern for data access abstraction
type RecipeRepository interface {
	Create(ctx context.Context, r *recipe.Recipe) error
	Save(ctx context.Context, r *recipe.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)

	// Query operations
	FindByCreator(ctx context.Context, creatorID string, offset, limit int) ([]*recipe.Recipe, int64, error)
	FindByMealType(ctx context.Context, mealType recipe.MealType, limit int) ([]*recipe.Recipe, error)
	Search(ctx context.Context, criteria SearchCriteria) ([]*recipe.Recipe, int64, error)
}

// SearchCriteria defines search parameters for recipes.
// All filters are plain attribute matches.
type SearchCriteria struct {
	Query           string
	CreatorID       string
	CuisineType     string
	MealType        recipe.MealType
	Difficulty      recipe.DifficultyLevel
	MaxTotalMinutes int
	Offset          int
	Limit           int
}

// MealPlanRepository persists completed meal plans. Plans are written
// atomically with their days; partial plans are never stored.
type MealPlanRepository interface {
	Create(ctx context.Context, plan *mealplan.MealPlan) error
	FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error)
	FindByUser(ctx context.Context, userID string, offset, limit int) ([]*mealplan.MealPlan, int64, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
}

// ShoppingListRepository persists shopping lists
type ShoppingListRepository interface {
	Create(ctx context.Context, list *shoppinglist.ShoppingList) error
	Save(ctx context.Context, list *shoppinglist.ShoppingList) error
	FindByID(ctx context.Context, id uuid.UUID, userID string) (*shoppinglist.ShoppingList, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID, userID string) ([]*shoppinglist.ShoppingList, error)
	FindByUser(ctx context.Context, userID string, offset, limit int) ([]*shoppinglist.ShoppingList, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
}

// PreferencesRepository persists account-level generation preferences
type PreferencesRepository interface {
	Find(ctx context.Context, userID string) (*user.Preferences, error)
	Upsert(ctx context.Context, prefs *user.Preferences) error
}

// Ledger is the shared counter store backing the quota gate. All counter
// mutations are atomic per key; callers never read-modify-write.
type Ledger interface {
	// IncrWindow atomically increments a rate window counter, setting the
	// window expiry on first increment. Returns the post-increment count.
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)

	// WindowTTL reports how long until the window for key resets
	WindowTTL(ctx context.Context, key string) (time.Duration, error)

	// DebitCredits atomically takes cost credits from the identity's
	// balance, seeding the balance with allotment if absent. ok is false
	// when the balance cannot cover the cost; the balance is untouched.
	DebitCredits(ctx context.Context, identityID string, allotment, cost int) (remaining int, ok bool, err error)

	// RefundCredits returns credits to the balance, best effort,
	// seeding the balance with allotment if absent
	RefundCredits(ctx context.Context, identityID string, allotment, amount int) error

	// Credits reports the current balance and lifetime generation count,
	// seeding the balance with allotment if absent
	Credits(ctx context.Context, identityID string, allotment int) (remaining, generatedTotal int, err error)
}

// StructuredPrompt is the instruction handed to the generative backend
type StructuredPrompt struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// AIClient invokes the external generative backend and returns a
// structurally validated recipe draft
type AIClient interface {
	GenerateRecipe(ctx context.Context, prompt StructuredPrompt) (*recipe.Draft, error)
}

// IdentityProvider is the narrow surface of the external auth provider
// the backend writes back to. Calls are fire-and-forget; correctness of
// quota enforcement does not depend on them.
type IdentityProvider interface {
	SyncCreditUsage(ctx context.Context, userID string, remaining, generatedTotal int) error
}
