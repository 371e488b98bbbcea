package gorm

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/cuizine/api/internal/domain/recipe"
	"github.com/cuizine/api/internal/ports/outbound"
	apperrors "github.com/cuizine/api/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecipeRepository implements outbound.RecipeRepository using GORM
type RecipeRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ outbound.RecipeRepository = (*RecipeRepository)(nil)

// NewRecipeRepository creates a new GORM-based recipe repository
func NewRecipeRepository(db *gorm.DB, logger *zap.Logger) *RecipeRepository {
	return &RecipeRepository{
		db:     db,
		logger: logger.Named("recipe_repository"),
	}
}

// Create persists a new recipe
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.NewDatabaseError("create recipe", err)
	}
	return nil
}

// Save persists changes to an existing recipe
func (r *RecipeRepository) Save(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)
	var exists int64
	if err := r.db.WithContext(ctx).Model(&RecipeModel{}).
		Where("id = ?", model.ID).
		Count(&exists).Error; err != nil {
		return apperrors.NewDatabaseError("save recipe", err)
	}
	if exists == 0 {
		return apperrors.NewRecipeNotFoundError(model.ID.String())
	}
	// Save writes the full row so cleared fields are not silently kept
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return apperrors.NewDatabaseError("save recipe", err)
	}
	return nil
}

// Delete soft-deletes a recipe
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&RecipeModel{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.NewDatabaseError("delete recipe", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewRecipeNotFoundError(id.String())
	}
	return nil
}

// FindByID retrieves a recipe by its identifier
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewRecipeNotFoundError(id.String())
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("find recipe", err)
	}
	return ModelToRecipe(&model), nil
}

// FindByCreator retrieves a creator's recipes, newest first
func (r *RecipeRepository) FindByCreator(ctx context.Context, creatorID string, offset, limit int) ([]*recipe.Recipe, int64, error) {
	query := r.db.WithContext(ctx).Model(&RecipeModel{}).
		Where("creator_user_id = ?", creatorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewDatabaseError("count recipes", err)
	}

	var models []RecipeModel
	err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.NewDatabaseError("list recipes", err)
	}
	return modelsToRecipes(models), total, nil
}

// FindByMealType retrieves recipes suited to a meal slot
func (r *RecipeRepository) FindByMealType(ctx context.Context, mealType recipe.MealType, limit int) ([]*recipe.Recipe, error) {
	var models []RecipeModel
	err := r.db.WithContext(ctx).
		Where("meal_type = ?", string(mealType)).
		Order("likes_count DESC, created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("find recipes by meal type", err)
	}
	return modelsToRecipes(models), nil
}

// Search retrieves recipes matching the criteria
func (r *RecipeRepository) Search(ctx context.Context, criteria outbound.SearchCriteria) ([]*recipe.Recipe, int64, error) {
	query := r.db.WithContext(ctx).Model(&RecipeModel{})

	if criteria.Query != "" {
		pattern := "%" + criteria.Query + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if criteria.CreatorID != "" {
		query = query.Where("creator_user_id = ?", criteria.CreatorID)
	}
	if criteria.CuisineType != "" {
		tag, _ := json.Marshal([]string{criteria.CuisineType})
		query = query.Where("cuisine_type @> ?", string(tag))
	}
	if criteria.MealType != "" {
		query = query.Where("meal_type = ?", string(criteria.MealType))
	}
	if criteria.Difficulty != "" {
		query = query.Where("difficulty = ?", string(criteria.Difficulty))
	}
	if criteria.MaxTotalMinutes > 0 {
		query = query.Where("total_time <= ?", criteria.MaxTotalMinutes)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewDatabaseError("count search results", err)
	}

	limit := criteria.Limit
	if limit <= 0 {
		limit = 20
	}
	var models []RecipeModel
	err := query.Order("created_at DESC").
		Offset(criteria.Offset).Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.NewDatabaseError("search recipes", err)
	}
	return modelsToRecipes(models), total, nil
}

func modelsToRecipes(models []RecipeModel) []*recipe.Recipe {
	recipes := make([]*recipe.Recipe, 0, len(models))
	for i := range models {
		recipes = append(recipes, ModelToRecipe(&models[i]))
	}
	return recipes
}
