// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/cuizine/api/internal/domain/mealplan"
	"github.com/cuizine/api/internal/domain/recipe"
	"github.com/cuizine/api/internal/domain/shoppinglist"
	"github.com/cuizine/api/internal/domain/user"
	"github.com/google/uuid"
)

// GeneratorService defines the quota-gated recipe generation use cases
type GeneratorService interface {
	Generate(ctx context.Context, identity user.Identity, cmd GenerateCommand) (*GenerationResult, error)
	Regenerate(ctx context.Context, identity user.Identity, recipeID uuid.UUID) (*GenerationResult, error)
	Credits(ctx context.Context, identity user.Identity) (*CreditsDTO, error)
}

// GenerateCommand carries a recipe generation request. Immutable once
// submitted; regeneration replays the stored copy.
type GenerateCommand struct {
	RecipeType          recipe.RecipeType `json:"recipe_type" validate:"required,oneof=random custom crazy"`
	Ingredients         []string          `json:"ingredients"`
	MealType            string            `json:"meal_type,omitempty"`
	Cuisine             string            `json:"cuisine,omitempty"`
	DietaryRestrictions []string          `json:"dietary_restrictions"`
	Servings            int               `json:"servings" validate:"omitempty,min=1,max=12"`
	CookingStyle        string            `json:"cooking_style,omitempty"`
	MaxPrepTime         int               `json:"max_prep_time,omitempty" validate:"omitempty,min=0,max=240"`
	MaxCookTime         int               `json:"max_cook_time,omitempty" validate:"omitempty,min=0,max=240"`
	IsSpicy             bool              `json:"is_spicy"`
	Notes               string            `json:"notes,omitempty"`
}

// GenerationResult is the outcome of an admitted, successful generation
type GenerationResult struct {
	Recipe           *RecipeDTO `json:"data"`
	CreditsRemaining int        `json:"credits_remaining"`
	GenerationID     string     `json:"generation_id"`
}

// CreditsDTO reports an account's generation allowance
type CreditsDTO struct {
	Remaining        int    `json:"remaining"`
	Total            int    `json:"total"`
	SubscriptionTier string `json:"subscription_tier"`
}

// RecipeService defines recipe CRUD and engagement use cases
type RecipeService interface {
	CreateRecipe(ctx context.Context, identity user.Identity, cmd CreateRecipeCommand) (*RecipeDTO, error)
	UpdateRecipe(ctx context.Context, identity user.Identity, recipeID uuid.UUID, cmd UpdateRecipeCommand) (*RecipeDTO, error)
	DeleteRecipe(ctx context.Context, identity user.Identity, recipeID uuid.UUID) error
	GetRecipe(ctx context.Context, recipeID uuid.UUID) (*RecipeDTO, error)
	ListRecipes(ctx context.Context, identity user.Identity, page PaginationParams) (*RecipeList, error)
	SearchRecipes(ctx context.Context, query SearchQuery) (*RecipeList, error)
	LikeRecipe(ctx context.Context, recipeID uuid.UUID) error
	SaveRecipe(ctx context.Context, recipeID uuid.UUID) error
}

// CreateRecipeCommand contains data for a user-authored recipe
type CreateRecipeCommand struct {
	Title               string               `json:"title" validate:"required"`
	Description         string               `json:"description"`
	Ingredients         []recipe.Ingredient  `json:"ingredients" validate:"required,min=1,dive"`
	Instructions        []recipe.Instruction `json:"instructions" validate:"required,min=1,dive"`
	Nutrition           recipe.NutritionInfo `json:"nutritional_info"`
	CuisineType         []string             `json:"cuisine_type"`
	MealType            string               `json:"meal_type"`
	CookingStyle        string               `json:"cooking_style"`
	Difficulty          string               `json:"difficulty_level"`
	IsSpicy             bool                 `json:"is_spicy"`
	DietaryInfo         map[string]bool      `json:"dietary_info"`
	PrepTime            int                  `json:"prep_time" validate:"min=0"`
	CookTime            int                  `json:"cook_time" validate:"min=0"`
	Servings            int                  `json:"servings" validate:"required,min=1"`
	EquipmentNeeded     []string             `json:"equipment_needed"`
	RecipeTips          []string             `json:"recipe_tips"`
	StorageInstructions string               `json:"storage_instructions"`
	LeftoverIdeas       []string             `json:"leftover_ideas"`
}

// UpdateRecipeCommand names the mutable recipe fields; nil means unchanged
type UpdateRecipeCommand struct {
	Title               *string   `json:"title,omitempty"`
	Description         *string   `json:"description,omitempty"`
	RecipeTips          *[]string `json:"recipe_tips,omitempty"`
	StorageInstructions *string   `json:"storage_instructions,omitempty"`
	LeftoverIdeas       *[]string `json:"leftover_ideas,omitempty"`
}

// PaginationParams for list queries
type PaginationParams struct {
	Offset int `json:"offset" validate:"min=0"`
	Limit  int `json:"limit" validate:"min=1,max=100"`
}

// SearchQuery defines recipe search parameters
type SearchQuery struct {
	Query           string `json:"q"`
	CuisineType     string `json:"cuisine_type"`
	MealType        string `json:"meal_type"`
	Difficulty      string `json:"difficulty_level"`
	MaxTotalMinutes int    `json:"max_time"`
	Offset          int    `json:"offset"`
	Limit           int    `json:"limit"`
}

// RecipeList is a paginated recipe result
type RecipeList struct {
	Recipes []*RecipeDTO `json:"recipes"`
	Total   int64        `json:"total"`
	Offset  int          `json:"offset"`
	Limit   int          `json:"limit"`
}

// RecipeDTO is the external representation of a recipe
type RecipeDTO struct {
	ID                  string               `json:"id"`
	Title               string               `json:"title"`
	Description         string               `json:"description,omitempty"`
	PrepTime            int                  `json:"prep_time"`
	CookTime            int                  `json:"cook_time"`
	TotalTime           int                  `json:"total_time"`
	Servings            int                  `json:"servings"`
	Difficulty          string               `json:"difficulty_level,omitempty"`
	CuisineType         []string             `json:"cuisine_type,omitempty"`
	MealType            string               `json:"meal_type,omitempty"`
	CookingStyle        string               `json:"cooking_style,omitempty"`
	IsSpicy             bool                 `json:"is_spicy"`
	Ingredients         []recipe.Ingredient  `json:"ingredients"`
	Instructions        []recipe.Instruction `json:"instructions"`
	Nutrition           recipe.NutritionInfo `json:"nutritional_info"`
	EquipmentNeeded     []string             `json:"equipment_needed,omitempty"`
	DietaryInfo         map[string]bool      `json:"dietary_info,omitempty"`
	RecipeTips          []string             `json:"recipe_tips,omitempty"`
	StorageInstructions string               `json:"storage_instructions,omitempty"`
	LeftoverIdeas       []string             `json:"leftover_ideas,omitempty"`
	SourceType          string               `json:"source_type"`
	ViewCount           int                  `json:"view_count"`
	LikeCount           int                  `json:"like_count"`
	SaveCount           int                  `json:"save_count"`
	CreatedAt           time.Time            `json:"created_at"`
}

// NewRecipeDTO maps a domain recipe to its external representation
func NewRecipeDTO(r *recipe.Recipe) *RecipeDTO {
	return &RecipeDTO{
		ID:                  r.ID().String(),
		Title:               r.Title(),
		Description:         r.Description(),
		PrepTime:            r.PrepTime(),
		CookTime:            r.CookTime(),
		TotalTime:           r.TotalTime(),
		Servings:            r.Servings(),
		Difficulty:          string(r.Difficulty()),
		CuisineType:         r.CuisineType(),
		MealType:            string(r.MealType()),
		CookingStyle:        string(r.CookingStyle()),
		IsSpicy:             r.IsSpicy(),
		Ingredients:         r.Ingredients(),
		Instructions:        r.Instructions(),
		Nutrition:           r.Nutrition(),
		EquipmentNeeded:     r.EquipmentNeeded(),
		DietaryInfo:         r.DietaryInfo(),
		RecipeTips:          r.RecipeTips(),
		StorageInstructions: r.StorageInstructions(),
		LeftoverIdeas:       r.LeftoverIdeas(),
		SourceType:          string(r.SourceType()),
		ViewCount:           r.ViewCount(),
		LikeCount:           r.LikeCount(),
		SaveCount:           r.SaveCount(),
		CreatedAt:           r.CreatedAt(),
	}
}

// MealPlanService defines meal plan use cases
type MealPlanService interface {
	GeneratePlan(ctx context.Context, identity user.Identity, cmd PlanCommand) (*MealPlanDTO, error)
	GetPlan(ctx context.Context, identity user.Identity, planID uuid.UUID) (*MealPlanDTO, error)
	ListPlans(ctx context.Context, identity user.Identity, page PaginationParams) (*MealPlanList, error)
	DeletePlan(ctx context.Context, identity user.Identity, planID uuid.UUID) error
}

// PlanCommand requests a multi-day plan
type PlanCommand struct {
	StartDate     time.Time `json:"start_date" validate:"required"`
	DurationWeeks int       `json:"duration_weeks" validate:"required,min=1,max=4"`
	IncludeSnacks bool      `json:"include_snacks"`
}

// DayPlanDTO is one day of a plan
type DayPlanDTO struct {
	Date      time.Time         `json:"date"`
	Meals     map[string]string `json:"meals"`
	Leftovers []LeftoverDTO     `json:"leftovers,omitempty"`
}

// LeftoverDTO is an ingredient carried forward from a day's cooking
type LeftoverDTO struct {
	Ingredient   string  `json:"ingredient"`
	Amount       float64 `json:"amount"`
	Unit         string  `json:"unit"`
	ExpiresInDay int     `json:"expires_in_days"`
	FromRecipeID string  `json:"from_recipe_id"`
}

// MealPlanDTO is the external representation of a meal plan
type MealPlanDTO struct {
	ID        string       `json:"id"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	Days      []DayPlanDTO `json:"days"`
	Status    string       `json:"generation_status"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewMealPlanDTO maps a domain meal plan to its external representation
func NewMealPlanDTO(p *mealplan.MealPlan) *MealPlanDTO {
	days := make([]DayPlanDTO, len(p.Days()))
	for i, day := range p.Days() {
		meals := make(map[string]string, len(day.Meals))
		for slot, recipeID := range day.Meals {
			meals[string(slot)] = recipeID.String()
		}
		var leftovers []LeftoverDTO
		for _, lo := range day.Leftovers {
			leftovers = append(leftovers, LeftoverDTO{
				Ingredient:   lo.Ingredient,
				Amount:       lo.Amount,
				Unit:         lo.Unit,
				ExpiresInDay: lo.ExpiresInDay,
				FromRecipeID: lo.FromRecipeID.String(),
			})
		}
		days[i] = DayPlanDTO{Date: day.Date, Meals: meals, Leftovers: leftovers}
	}
	return &MealPlanDTO{
		ID:        p.ID().String(),
		StartDate: p.StartDate(),
		EndDate:   p.EndDate(),
		Days:      days,
		Status:    string(p.Status()),
		CreatedAt: p.CreatedAt(),
	}
}

// MealPlanList is a paginated plan result
type MealPlanList struct {
	Plans  []*MealPlanDTO `json:"plans"`
	Total  int64          `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}

// ShoppingListService defines shopping list use cases
type ShoppingListService interface {
	CreateFromRecipe(ctx context.Context, identity user.Identity, recipeID uuid.UUID, servings int) (*ShoppingListDTO, error)
	MergeLists(ctx context.Context, identity user.Identity, cmd MergeListsCommand) (*ShoppingListDTO, error)
	GetList(ctx context.Context, identity user.Identity, listID uuid.UUID) (*ShoppingListDTO, error)
	ListLists(ctx context.Context, identity user.Identity, page PaginationParams) ([]*ShoppingListDTO, error)
	UpdateItems(ctx context.Context, identity user.Identity, listID uuid.UUID, items []shoppinglist.Item) (*ShoppingListDTO, error)
	DeleteList(ctx context.Context, identity user.Identity, listID uuid.UUID) error
}

// MergeListsCommand combines existing lists into a new one
type MergeListsCommand struct {
	ListIDs []string `json:"list_ids" validate:"required,min=1,dive,uuid"`
	Name    string   `json:"name" validate:"required"`
}

// ShoppingListDTO is the external representation of a shopping list
type ShoppingListDTO struct {
	ID        string              `json:"id"`
	RecipeID  string              `json:"recipe_id,omitempty"`
	Name      string              `json:"name"`
	Items     []shoppinglist.Item `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewShoppingListDTO maps a domain shopping list to its external representation
func NewShoppingListDTO(l *shoppinglist.ShoppingList) *ShoppingListDTO {
	dto := &ShoppingListDTO{
		ID:        l.ID.String(),
		Name:      l.Name,
		Items:     l.Items,
		CreatedAt: l.CreatedAt,
	}
	if l.RecipeID != nil {
		dto.RecipeID = l.RecipeID.String()
	}
	return dto
}

// PreferencesService manages account-level generation preferences
type PreferencesService interface {
	Get(ctx context.Context, identity user.Identity) (*user.Preferences, error)
	Put(ctx context.Context, identity user.Identity, prefs user.Preferences) (*user.Preferences, error)
}
