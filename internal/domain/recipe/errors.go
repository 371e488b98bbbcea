package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Entity validation errors
	ErrEmptyTitle          = errors.New("recipe title is required")
	ErrInvalidServings     = errors.New("servings must be greater than 0")
	ErrNegativeTime        = errors.New("prep and cook time must not be negative")
	ErrNoIngredients       = errors.New("recipe must have at least one ingredient")
	ErrNoInstructions      = errors.New("recipe must have at least one instruction")
	ErrEmptyIngredientItem = errors.New("ingredient item is required")
	ErrNonPositiveAmount   = errors.New("ingredient amount must be greater than 0")
	ErrInvalidStepNumber   = errors.New("instruction step number must be greater than 0")
	ErrEmptyInstruction    = errors.New("instruction content is required")

	// Lookup errors
	ErrRecipeNotFound = errors.New("recipe not found")

	// Generation errors
	ErrNoGenerationParams = errors.New("recipe has no stored generation parameters")
)
