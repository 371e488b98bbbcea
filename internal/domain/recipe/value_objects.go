package recipe

import "errors"

// Value Objects - Immutable objects that describe aspects of the domain

// Ingredient represents an ingredient line in a recipe
type Ingredient struct {
	Item     string  `json:"item"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Notes    string  `json:"notes,omitempty"`
	Category string  `json:"category,omitempty"`
	Optional bool    `json:"is_optional,omitempty"`

	// Leftover declaration, consulted by the meal plan assembler
	YieldsLeftover bool    `json:"yields_leftover,omitempty"`
	LeftoverRatio  float64 `json:"leftover_ratio,omitempty"`
	ShelfLifeDays  int     `json:"shelf_life,omitempty"`
}

// Validate validates the ingredient
func (i Ingredient) Validate() error {
	if i.Item == "" {
		return ErrEmptyIngredientItem
	}
	if i.Amount <= 0 {
		return ErrNonPositiveAmount
	}
	return nil
}

// Instruction represents a cooking instruction step
type Instruction struct {
	StepNumber int    `json:"step_number"`
	Content    string `json:"content"`
	Timing     string `json:"timing,omitempty"`
}

// Validate validates the instruction
func (i Instruction) Validate() error {
	if i.StepNumber <= 0 {
		return ErrInvalidStepNumber
	}
	if i.Content == "" {
		return ErrEmptyInstruction
	}
	return nil
}

// NutritionInfo contains per-serving nutritional information
type NutritionInfo struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber,omitempty"`
}

// RecipeType selects the generation mode
type RecipeType string

const (
	RecipeTypeRandom RecipeType = "random"
	RecipeTypeCustom RecipeType = "custom"
	RecipeTypeCrazy  RecipeType = "crazy"
)

// Validate checks the recipe type is one of the known modes
func (t RecipeType) Validate() error {
	switch t {
	case RecipeTypeRandom, RecipeTypeCustom, RecipeTypeCrazy:
		return nil
	}
	return errors.New("unknown recipe type")
}

// MealType represents a meal slot category
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeBrunch    MealType = "brunch"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
	MealTypeDessert   MealType = "dessert"
)

// DifficultyLevel represents recipe difficulty
type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
)

// SourceType records where a recipe came from
type SourceType string

const (
	SourceUser SourceType = "user"
	SourceAI   SourceType = "ai"
)

// CookingStyle categorizes the occasion a recipe suits
type CookingStyle string

const (
	StyleQuickAndEasy    CookingStyle = "quick-and-easy"
	StyleWeeknight       CookingStyle = "weeknight"
	StyleWeekend         CookingStyle = "weekend"
	StyleSpecialOccasion CookingStyle = "special-occasion"
	StyleMealPrep        CookingStyle = "meal-prep"
	StyleDateNight       CookingStyle = "date-night"
)
