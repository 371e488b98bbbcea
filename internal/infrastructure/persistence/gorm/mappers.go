package gorm

import (
	"encoding/json"

	"github.com/cuizine/api/internal/domain/mealplan"
	"github.com/cuizine/api/internal/domain/recipe"
	"github.com/cuizine/api/internal/domain/shoppinglist"
	"github.com/cuizine/api/internal/domain/user"
)

// RecipeToModel converts a domain recipe to a GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	return &RecipeModel{
		ID:                  r.ID(),
		Title:               r.Title(),
		Description:         r.Description(),
		CreatorUserID:       r.CreatorID(),
		Ingredients:         IngredientsJSON(r.Ingredients()),
		Instructions:        InstructionsJSON(r.Instructions()),
		NutritionInfo:       NutritionJSON(r.Nutrition()),
		CuisineType:         StringSlice(r.CuisineType()),
		MealType:            string(r.MealType()),
		CookingStyle:        string(r.CookingStyle()),
		Difficulty:          string(r.Difficulty()),
		IsSpicy:             r.IsSpicy(),
		DietaryInfo:         BoolMap(r.DietaryInfo()),
		PrepTime:            r.PrepTime(),
		CookTime:            r.CookTime(),
		TotalTime:           r.TotalTime(),
		Servings:            r.Servings(),
		EquipmentNeeded:     StringSlice(r.EquipmentNeeded()),
		RecipeTips:          StringSlice(r.RecipeTips()),
		StorageInstructions: r.StorageInstructions(),
		LeftoverIdeas:       StringSlice(r.LeftoverIdeas()),
		SourceType:          string(r.SourceType()),
		GeneratedFrom:       RawJSON(r.GeneratedFrom()),
		ViewCount:           r.ViewCount(),
		LikeCount:           r.LikeCount(),
		SaveCount:           r.SaveCount(),
		CreatedAt:           r.CreatedAt(),
		UpdatedAt:           r.UpdatedAt(),
	}
}

// ModelToRecipe converts a GORM model back to a domain recipe. It goes
// through Reconstruct rather than New so that stored rows are never
// rejected by creation-time validation.
func ModelToRecipe(m *RecipeModel) *recipe.Recipe {
	draft := recipe.Draft{
		Title:               m.Title,
		Description:         m.Description,
		Ingredients:         []recipe.Ingredient(m.Ingredients),
		Instructions:        []recipe.Instruction(m.Instructions),
		Nutrition:           recipe.NutritionInfo(m.NutritionInfo),
		CuisineType:         []string(m.CuisineType),
		MealType:            recipe.MealType(m.MealType),
		CookingStyle:        recipe.CookingStyle(m.CookingStyle),
		Difficulty:          recipe.DifficultyLevel(m.Difficulty),
		IsSpicy:             m.IsSpicy,
		DietaryInfo:         map[string]bool(m.DietaryInfo),
		PrepTime:            m.PrepTime,
		CookTime:            m.CookTime,
		Servings:            m.Servings,
		EquipmentNeeded:     []string(m.EquipmentNeeded),
		RecipeTips:          []string(m.RecipeTips),
		StorageInstructions: m.StorageInstructions,
		LeftoverIdeas:       []string(m.LeftoverIdeas),
		SourceType:          recipe.SourceType(m.SourceType),
		GeneratedFrom:       json.RawMessage(m.GeneratedFrom),
		CreatorID:           m.CreatorUserID,
	}
	return recipe.Reconstruct(draft, m.ID, m.ViewCount, m.LikeCount, m.SaveCount, m.CreatedAt, m.UpdatedAt)
}

// MealPlanToModel converts a domain meal plan to a GORM model
func MealPlanToModel(p *mealplan.MealPlan) (*MealPlanModel, error) {
	days := make([]MealPlanDayModel, 0, len(p.Days()))
	for _, day := range p.Days() {
		meals, err := encodeMeals(day.Meals)
		if err != nil {
			return nil, err
		}
		leftovers, err := json.Marshal(day.Leftovers)
		if err != nil {
			return nil, err
		}
		days = append(days, MealPlanDayModel{
			MealPlanID: p.ID(),
			Date:       day.Date,
			Meals:      meals,
			Leftovers:  RawJSON(leftovers),
		})
	}
	return &MealPlanModel{
		ID:        p.ID(),
		UserID:    p.UserID(),
		StartDate: p.StartDate(),
		EndDate:   p.EndDate(),
		Status:    string(p.Status()),
		Days:      days,
		CreatedAt: p.CreatedAt(),
	}, nil
}

// ModelToMealPlan converts a GORM model back to a domain meal plan
func ModelToMealPlan(m *MealPlanModel) (*mealplan.MealPlan, error) {
	days := make([]mealplan.DayPlan, 0, len(m.Days))
	for _, dayModel := range m.Days {
		meals, err := decodeMeals(dayModel.Meals)
		if err != nil {
			return nil, err
		}
		var leftovers []mealplan.Leftover
		if len(dayModel.Leftovers) > 0 {
			if err := json.Unmarshal([]byte(dayModel.Leftovers), &leftovers); err != nil {
				return nil, err
			}
		}
		days = append(days, mealplan.DayPlan{
			Date:      dayModel.Date,
			Meals:     meals,
			Leftovers: leftovers,
		})
	}
	return mealplan.Reconstruct(
		m.ID, m.UserID, m.StartDate, m.EndDate,
		days, mealplan.GenerationStatus(m.Status), m.CreatedAt,
	), nil
}

// ShoppingListToModel converts a domain shopping list to a GORM model
func ShoppingListToModel(l *shoppinglist.ShoppingList) *ShoppingListModel {
	return &ShoppingListModel{
		ID:        l.ID,
		UserID:    l.UserID,
		RecipeID:  l.RecipeID,
		Name:      l.Name,
		Items:     ItemsJSON(l.Items),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// ModelToShoppingList converts a GORM model back to a domain shopping list
func ModelToShoppingList(m *ShoppingListModel) *shoppinglist.ShoppingList {
	return &shoppinglist.ShoppingList{
		ID:        m.ID,
		UserID:    m.UserID,
		RecipeID:  m.RecipeID,
		Name:      m.Name,
		Items:     []shoppinglist.Item(m.Items),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// PreferencesToModel converts domain preferences to a GORM model
func PreferencesToModel(p *user.Preferences) *PreferencesModel {
	return &PreferencesModel{
		UserID:              p.UserID,
		DietaryRestrictions: StringSlice(p.DietaryRestrictions),
		FavoriteCuisines:    StringSlice(p.FavoriteCuisines),
		DislikedIngredients: StringSlice(p.DislikedIngredients),
		CookingSkillLevel:   p.CookingSkillLevel,
		HouseholdSize:       p.HouseholdSize,
	}
}

// ModelToPreferences converts a GORM model back to domain preferences
func ModelToPreferences(m *PreferencesModel) *user.Preferences {
	return &user.Preferences{
		UserID:              m.UserID,
		DietaryRestrictions: []string(m.DietaryRestrictions),
		FavoriteCuisines:    []string(m.FavoriteCuisines),
		DislikedIngredients: []string(m.DislikedIngredients),
		CookingSkillLevel:   m.CookingSkillLevel,
		HouseholdSize:       m.HouseholdSize,
	}
}
