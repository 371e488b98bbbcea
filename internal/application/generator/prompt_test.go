package generator

import (
	"strings"
	"testing"

	"github.com/cuizine/api/internal/domain/recipe"
	"github.com/cuizine/api/internal/domain/user"
	"github.com/cuizine/api/internal/ports/inbound"
	"github.com/stretchr/testify/assert"
)

func TestBuildPromptTemperature(t *testing.T) {
	tests := []struct {
		recipeType recipe.RecipeType
		want       float64
	}{
		{recipe.RecipeTypeCrazy, 0.7},
		{recipe.RecipeTypeRandom, 0.4},
		{recipe.RecipeTypeCustom, 0.4},
	}
	for _, tt := range tests {
		t.Run(string(tt.recipeType), func(t *testing.T) {
			prompt := BuildPrompt(inbound.GenerateCommand{RecipeType: tt.recipeType}, nil)
			assert.Equal(t, tt.want, prompt.Temperature)
		})
	}
}

func TestBuildPromptOmitsIngredientClauseWhenEmpty(t *testing.T) {
	prompt := BuildPrompt(inbound.GenerateCommand{RecipeType: recipe.RecipeTypeRandom}, nil)
	assert.NotContains(t, prompt.User, "Must use these ingredients")

	prompt = BuildPrompt(inbound.GenerateCommand{
		RecipeType:  recipe.RecipeTypeCustom,
		Ingredients: []string{"chicken thighs", "lemon"},
	}, nil)
	assert.Contains(t, prompt.User, "Must use these ingredients: chicken thighs, lemon")
}

func TestBuildPromptMergesDietaryRestrictions(t *testing.T) {
	cmd := inbound.GenerateCommand{
		RecipeType:          recipe.RecipeTypeCustom,
		DietaryRestrictions: []string{"vegetarian", "Gluten-Free"},
	}
	prefs := &user.Preferences{
		DietaryRestrictions: []string{"gluten-free", "nut-free"},
		DislikedIngredients: []string{"cilantro"},
	}

	prompt := BuildPrompt(cmd, prefs)

	assert.Contains(t, prompt.User, "Dietary Restrictions: vegetarian, Gluten-Free, nut-free")
	assert.Equal(t, 1, strings.Count(prompt.User, "Gluten-Free"), "case-insensitive de-duplication")
	assert.Contains(t, prompt.User, "Avoid these ingredients: cilantro")
}

func TestBuildPromptDeterministic(t *testing.T) {
	cmd := inbound.GenerateCommand{
		RecipeType:  recipe.RecipeTypeCustom,
		Ingredients: []string{"salmon", "dill"},
		MealType:    "dinner",
		Cuisine:     "nordic",
		Servings:    4,
		IsSpicy:     true,
	}

	first := BuildPrompt(cmd, nil)
	second := BuildPrompt(cmd, nil)

	assert.Equal(t, first, second)
	assert.Contains(t, first.User, "Servings: 4")
	assert.Contains(t, first.User, "Spicy: Yes")
	assert.Contains(t, first.User, `"nutritional_info"`)
	assert.Equal(t, 4000, first.MaxTokens)
}

func TestBuildPromptDefaultsServings(t *testing.T) {
	prompt := BuildPrompt(inbound.GenerateCommand{RecipeType: recipe.RecipeTypeRandom}, nil)
	assert.Contains(t, prompt.User, "Servings: 2")
}

func TestBuildPromptOptionalConstraints(t *testing.T) {
	prompt := BuildPrompt(inbound.GenerateCommand{
		RecipeType:   recipe.RecipeTypeCustom,
		CookingStyle: "one_pot",
		MaxPrepTime:  20,
		MaxCookTime:  45,
		Notes:        "kid friendly",
	}, nil)

	assert.Contains(t, prompt.User, "Cooking Style: one_pot")
	assert.Contains(t, prompt.User, "Maximum Preparation Time: 20 minutes")
	assert.Contains(t, prompt.User, "Maximum Cooking Time: 45 minutes")
	assert.Contains(t, prompt.User, "Additional Notes: kid friendly")
}
