// Package recipe contains the core domain logic for recipe management.
// This follows Domain-Driven Design principles with rich domain models.
package recipe

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Recipe represents the core recipe entity in our domain.
// It is immutable after creation except for engagement counters.
type Recipe struct {
	id          uuid.UUID
	title       string
	description string

	// Recipe details
	ingredients  []Ingredient
	instructions []Instruction
	nutrition    NutritionInfo

	// Categorization
	cuisineType  []string
	mealType     MealType
	cookingStyle CookingStyle
	difficulty   DifficultyLevel
	isSpicy      bool
	dietaryInfo  map[string]bool

	// Timing (minutes)
	prepTime  int
	cookTime  int
	totalTime int

	servings int

	// Extras
	equipmentNeeded     []string
	recipeTips          []string
	storageInstructions string
	leftoverIdeas       []string

	// Provenance
	sourceType    SourceType
	generatedFrom json.RawMessage
	creatorID     string

	// Engagement counters
	viewCount int
	likeCount int
	saveCount int

	createdAt time.Time
	updatedAt time.Time
}

// Draft carries all creation-time attributes of a recipe. It is validated
// by New; total time is always recomputed from prep and cook time.
type Draft struct {
	Title               string
	Description         string
	Ingredients         []Ingredient
	Instructions        []Instruction
	Nutrition           NutritionInfo
	CuisineType         []string
	MealType            MealType
	CookingStyle        CookingStyle
	Difficulty          DifficultyLevel
	IsSpicy             bool
	DietaryInfo         map[string]bool
	PrepTime            int
	CookTime            int
	Servings            int
	EquipmentNeeded     []string
	RecipeTips          []string
	StorageInstructions string
	LeftoverIdeas       []string
	SourceType          SourceType
	GeneratedFrom       json.RawMessage
	CreatorID           string
}

// New creates a Recipe from a draft, enforcing domain invariants
func New(d Draft) (*Recipe, error) {
	if d.Title == "" {
		return nil, ErrEmptyTitle
	}
	if d.Servings <= 0 {
		return nil, ErrInvalidServings
	}
	if d.PrepTime < 0 || d.CookTime < 0 {
		return nil, ErrNegativeTime
	}
	if len(d.Ingredients) == 0 {
		return nil, ErrNoIngredients
	}
	if len(d.Instructions) == 0 {
		return nil, ErrNoInstructions
	}
	for _, ing := range d.Ingredients {
		if err := ing.Validate(); err != nil {
			return nil, err
		}
	}
	for _, inst := range d.Instructions {
		if err := inst.Validate(); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	return &Recipe{
		id:                  uuid.New(),
		title:               d.Title,
		description:         d.Description,
		ingredients:         d.Ingredients,
		instructions:        d.Instructions,
		nutrition:           d.Nutrition,
		cuisineType:         d.CuisineType,
		mealType:            d.MealType,
		cookingStyle:        d.CookingStyle,
		difficulty:          d.Difficulty,
		isSpicy:             d.IsSpicy,
		dietaryInfo:         d.DietaryInfo,
		prepTime:            d.PrepTime,
		cookTime:            d.CookTime,
		totalTime:           d.PrepTime + d.CookTime,
		servings:            d.Servings,
		equipmentNeeded:     d.EquipmentNeeded,
		recipeTips:          d.RecipeTips,
		storageInstructions: d.StorageInstructions,
		leftoverIdeas:       d.LeftoverIdeas,
		sourceType:          d.SourceType,
		generatedFrom:       d.GeneratedFrom,
		creatorID:           d.CreatorID,
		createdAt:           now,
		updatedAt:           now,
	}, nil
}

// Reconstruct rebuilds a Recipe from persisted state without revalidating.
// Only repositories should call this.
func Reconstruct(d Draft, id uuid.UUID, views, likes, saves int, createdAt, updatedAt time.Time) *Recipe {
	return &Recipe{
		id:                  id,
		title:               d.Title,
		description:         d.Description,
		ingredients:         d.Ingredients,
		instructions:        d.Instructions,
		nutrition:           d.Nutrition,
		cuisineType:         d.CuisineType,
		mealType:            d.MealType,
		cookingStyle:        d.CookingStyle,
		difficulty:          d.Difficulty,
		isSpicy:             d.IsSpicy,
		dietaryInfo:         d.DietaryInfo,
		prepTime:            d.PrepTime,
		cookTime:            d.CookTime,
		totalTime:           d.PrepTime + d.CookTime,
		servings:            d.Servings,
		equipmentNeeded:     d.EquipmentNeeded,
		recipeTips:          d.RecipeTips,
		storageInstructions: d.StorageInstructions,
		leftoverIdeas:       d.LeftoverIdeas,
		sourceType:          d.SourceType,
		generatedFrom:       d.GeneratedFrom,
		creatorID:           d.CreatorID,
		viewCount:           views,
		likeCount:           likes,
		saveCount:           saves,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

// ID returns the recipe's unique identifier
func (r *Recipe) ID() uuid.UUID { return r.id }

// Title returns the recipe's title
func (r *Recipe) Title() string { return r.title }

// Description returns the recipe's description
func (r *Recipe) Description() string { return r.description }

// Ingredients returns the recipe's ingredients
func (r *Recipe) Ingredients() []Ingredient { return r.ingredients }

// Instructions returns the recipe's ordered instruction steps
func (r *Recipe) Instructions() []Instruction { return r.instructions }

// Nutrition returns the recipe's nutritional information
func (r *Recipe) Nutrition() NutritionInfo { return r.nutrition }

// CuisineType returns the recipe's cuisine tags
func (r *Recipe) CuisineType() []string { return r.cuisineType }

// MealType returns the meal slot the recipe suits
func (r *Recipe) MealType() MealType { return r.mealType }

// CookingStyle returns the recipe's cooking style
func (r *Recipe) CookingStyle() CookingStyle { return r.cookingStyle }

// Difficulty returns the recipe's difficulty level
func (r *Recipe) Difficulty() DifficultyLevel { return r.difficulty }

// IsSpicy reports whether the recipe is spicy
func (r *Recipe) IsSpicy() bool { return r.isSpicy }

// DietaryInfo returns dietary tags (vegetarian, vegan, ...)
func (r *Recipe) DietaryInfo() map[string]bool { return r.dietaryInfo }

// PrepTime returns the preparation time in minutes
func (r *Recipe) PrepTime() int { return r.prepTime }

// CookTime returns the cooking time in minutes
func (r *Recipe) CookTime() int { return r.cookTime }

// TotalTime returns prep plus cook time in minutes
func (r *Recipe) TotalTime() int { return r.totalTime }

// Servings returns the number of servings
func (r *Recipe) Servings() int { return r.servings }

// EquipmentNeeded returns required equipment
func (r *Recipe) EquipmentNeeded() []string { return r.equipmentNeeded }

// RecipeTips returns preparation tips
func (r *Recipe) RecipeTips() []string { return r.recipeTips }

// StorageInstructions returns storage guidance
func (r *Recipe) StorageInstructions() string { return r.storageInstructions }

// LeftoverIdeas returns leftover usage suggestions
func (r *Recipe) LeftoverIdeas() []string { return r.leftoverIdeas }

// SourceType reports whether the recipe is user- or AI-created
func (r *Recipe) SourceType() SourceType { return r.sourceType }

// GeneratedFrom returns the original generation request, if any
func (r *Recipe) GeneratedFrom() json.RawMessage { return r.generatedFrom }

// CreatorID returns the identity that created the recipe
func (r *Recipe) CreatorID() string { return r.creatorID }

// ViewCount returns the number of views
func (r *Recipe) ViewCount() int { return r.viewCount }

// LikeCount returns the number of likes
func (r *Recipe) LikeCount() int { return r.likeCount }

// SaveCount returns the number of saves
func (r *Recipe) SaveCount() int { return r.saveCount }

// CreatedAt returns when the recipe was created
func (r *Recipe) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns when the recipe was last updated
func (r *Recipe) UpdatedAt() time.Time { return r.updatedAt }

// RecordView increments the view counter
func (r *Recipe) RecordView() { r.viewCount++ }

// RecordLike increments the like counter
func (r *Recipe) RecordLike() { r.likeCount++ }

// RecordSave increments the save counter
func (r *Recipe) RecordSave() { r.saveCount++ }

// Update names the mutable fields of a recipe. Anything not listed here
// cannot be changed after creation.
type Update struct {
	Title               *string
	Description         *string
	RecipeTips          *[]string
	StorageInstructions *string
	LeftoverIdeas       *[]string
}

// ApplyUpdate merges an explicit whitelist of mutable fields
func (r *Recipe) ApplyUpdate(u Update) error {
	if u.Title != nil {
		if *u.Title == "" {
			return ErrEmptyTitle
		}
		r.title = *u.Title
	}
	if u.Description != nil {
		r.description = *u.Description
	}
	if u.RecipeTips != nil {
		r.recipeTips = *u.RecipeTips
	}
	if u.StorageInstructions != nil {
		r.storageInstructions = *u.StorageInstructions
	}
	if u.LeftoverIdeas != nil {
		r.leftoverIdeas = *u.LeftoverIdeas
	}
	r.updatedAt = time.Now()
	return nil
}
