package generator

import (
	"fmt"
	"strings"

	"github.com/cuizine/api/internal/domain/recipe"
	"github.com/cuizine/api/internal/domain/user"
	"github.com/cuizine/api/internal/ports/inbound"
	"github.com/cuizine/api/internal/ports/outbound"
)

const (
	systemPrompt = `You are a professional chef and recipe creator.
Create detailed, accurate recipes that match the given requirements exactly.
The recipe should be creative but practical, with precise measurements and clear instructions.
Always include preparation time, cooking time, difficulty level, and full nutritional information.`

	outputSchema = `{
    "title": "Recipe Name",
    "description": "Brief description",
    "prep_time": minutes,
    "cook_time": minutes,
    "total_time": minutes,
    "servings": number,
    "difficulty_level": "beginner|intermediate|advanced",
    "ingredients": [
        {"amount": number, "unit": "string", "item": "string", "notes": "string"}
    ],
    "instructions": [
        {"step": number, "content": "string", "timing": "string"}
    ],
    "nutritional_info": {
        "calories": number,
        "protein": number,
        "carbs": number,
        "fat": number
    },
    "equipment_needed": ["string"],
    "tips": ["string"],
    "storage_instructions": "string",
    "leftover_ideas": ["string"]
}`

	// crazy recipes get a looser sampling temperature for novelty,
	// everything else stays conservative
	temperatureCrazy   = 0.7
	temperatureDefault = 0.4

	maxOutputTokens = 4000

	defaultServings = 2
)

// BuildPrompt assembles the structured generation prompt from a request
// and the account's stored preferences. Pure function: same inputs
// always yield the same prompt.
func BuildPrompt(cmd inbound.GenerateCommand, prefs *user.Preferences) outbound.StructuredPrompt {
	var b strings.Builder
	b.WriteString("Create a detailed recipe with the following requirements:\n\n")
	fmt.Fprintf(&b, "Recipe Type: %s\n", cmd.RecipeType)

	if len(cmd.Ingredients) > 0 {
		fmt.Fprintf(&b, "Must use these ingredients: %s\n", strings.Join(cmd.Ingredients, ", "))
	}
	if cmd.MealType != "" {
		fmt.Fprintf(&b, "Meal Type: %s\n", cmd.MealType)
	}
	if cmd.Cuisine != "" {
		fmt.Fprintf(&b, "Cuisine Style: %s\n", cmd.Cuisine)
	}
	if restrictions := mergeRestrictions(cmd, prefs); len(restrictions) > 0 {
		fmt.Fprintf(&b, "Dietary Restrictions: %s\n", strings.Join(restrictions, ", "))
	}
	if prefs != nil && len(prefs.DislikedIngredients) > 0 {
		fmt.Fprintf(&b, "Avoid these ingredients: %s\n", strings.Join(prefs.DislikedIngredients, ", "))
	}
	if cmd.CookingStyle != "" {
		fmt.Fprintf(&b, "Cooking Style: %s\n", cmd.CookingStyle)
	}
	if cmd.MaxPrepTime > 0 {
		fmt.Fprintf(&b, "Maximum Preparation Time: %d minutes\n", cmd.MaxPrepTime)
	}
	if cmd.MaxCookTime > 0 {
		fmt.Fprintf(&b, "Maximum Cooking Time: %d minutes\n", cmd.MaxCookTime)
	}

	servings := cmd.Servings
	if servings <= 0 {
		servings = defaultServings
	}
	fmt.Fprintf(&b, "Servings: %d\n", servings)
	fmt.Fprintf(&b, "Spicy: %s\n", yesNo(cmd.IsSpicy))

	if cmd.Notes != "" {
		fmt.Fprintf(&b, "Additional Notes: %s\n", cmd.Notes)
	}

	b.WriteString("\nPlease provide the recipe in the following JSON format:\n")
	b.WriteString(outputSchema)

	return outbound.StructuredPrompt{
		System:      systemPrompt,
		User:        b.String(),
		Temperature: temperatureFor(cmd.RecipeType),
		MaxTokens:   maxOutputTokens,
	}
}

func temperatureFor(t recipe.RecipeType) float64 {
	if t == recipe.RecipeTypeCrazy {
		return temperatureCrazy
	}
	return temperatureDefault
}

// mergeRestrictions unions request and preference restrictions, request
// entries first, preserving first-seen order and dropping duplicates
func mergeRestrictions(cmd inbound.GenerateCommand, prefs *user.Preferences) []string {
	seen := make(map[string]struct{})
	var merged []string
	appendAll := func(values []string) {
		for _, v := range values {
			key := strings.ToLower(strings.TrimSpace(v))
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, v)
		}
	}
	appendAll(cmd.DietaryRestrictions)
	if prefs != nil {
		appendAll(prefs.DietaryRestrictions)
	}
	return merged
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
