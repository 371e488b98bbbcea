// Package recipe implements the recipe CRUD and engagement use cases
package recipe

import (
	"context"

	"github.com/cuizine/api/internal/domain/recipe"
	"github.com/cuizine/api/internal/domain/user"
	"github.com/cuizine/api/internal/ports/inbound"
	"github.com/cuizine/api/internal/ports/outbound"
	apperrors "github.com/cuizine/api/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPageSize = 20

// Service handles user-authored recipes and engagement counters.
// Generated recipes arrive through the generator service instead.
type Service struct {
	recipes  outbound.RecipeRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates the recipe service
func NewService(recipes outbound.RecipeRepository, logger *zap.Logger) *Service {
	return &Service{
		recipes:  recipes,
		validate: validator.New(),
		logger:   logger.Named("recipe-service"),
	}
}

// CreateRecipe stores a user-authored recipe
func (s *Service) CreateRecipe(ctx context.Context, identity user.Identity, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	rec, err := recipe.New(recipe.Draft{
		Title:               cmd.Title,
		Description:         cmd.Description,
		Ingredients:         cmd.Ingredients,
		Instructions:        cmd.Instructions,
		Nutrition:           cmd.Nutrition,
		CuisineType:         cmd.CuisineType,
		MealType:            recipe.MealType(cmd.MealType),
		CookingStyle:        recipe.CookingStyle(cmd.CookingStyle),
		Difficulty:          recipe.DifficultyLevel(cmd.Difficulty),
		IsSpicy:             cmd.IsSpicy,
		DietaryInfo:         cmd.DietaryInfo,
		PrepTime:            cmd.PrepTime,
		CookTime:            cmd.CookTime,
		Servings:            cmd.Servings,
		EquipmentNeeded:     cmd.EquipmentNeeded,
		RecipeTips:          cmd.RecipeTips,
		StorageInstructions: cmd.StorageInstructions,
		LeftoverIdeas:       cmd.LeftoverIdeas,
		SourceType:          recipe.SourceUser,
		CreatorID:           identity.ID,
	})
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.recipes.Create(ctx, rec); err != nil {
		return nil, apperrors.NewDatabaseError("create recipe", err)
	}

	s.logger.Info("recipe created",
		zap.String("recipe_id", rec.ID().String()),
		zap.String("creator", identity.ID),
	)
	return inbound.NewRecipeDTO(rec), nil
}

// UpdateRecipe applies the whitelisted mutable fields to a recipe the
// caller owns
func (s *Service) UpdateRecipe(ctx context.Context, identity user.Identity, recipeID uuid.UUID, cmd inbound.UpdateRecipeCommand) (*inbound.RecipeDTO, error) {
	rec, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return nil, apperrors.NewRecipeNotFoundError(recipeID.String())
	}
	if rec.CreatorID() != identity.ID {
		return nil, apperrors.NewUnauthorizedError("only the recipe owner can modify it")
	}

	if err := rec.ApplyUpdate(recipe.Update{
		Title:               cmd.Title,
		Description:         cmd.Description,
		RecipeTips:          cmd.RecipeTips,
		StorageInstructions: cmd.StorageInstructions,
		LeftoverIdeas:       cmd.LeftoverIdeas,
	}); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.recipes.Save(ctx, rec); err != nil {
		return nil, apperrors.NewDatabaseError("update recipe", err)
	}
	return inbound.NewRecipeDTO(rec), nil
}

// DeleteRecipe removes a recipe the caller owns
func (s *Service) DeleteRecipe(ctx context.Context, identity user.Identity, recipeID uuid.UUID) error {
	rec, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return apperrors.NewRecipeNotFoundError(recipeID.String())
	}
	if rec.CreatorID() != identity.ID {
		return apperrors.NewUnauthorizedError("only the recipe owner can delete it")
	}
	if err := s.recipes.Delete(ctx, recipeID); err != nil {
		return apperrors.NewDatabaseError("delete recipe", err)
	}
	return nil
}

// GetRecipe returns a recipe by ID, recording the view
func (s *Service) GetRecipe(ctx context.Context, recipeID uuid.UUID) (*inbound.RecipeDTO, error) {
	rec, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return nil, apperrors.NewRecipeNotFoundError(recipeID.String())
	}

	rec.RecordView()
	if err := s.recipes.Save(ctx, rec); err != nil {
		// losing a view count is not worth failing the read
		s.logger.Warn("view count not persisted",
			zap.String("recipe_id", recipeID.String()),
			zap.Error(err),
		)
	}
	return inbound.NewRecipeDTO(rec), nil
}

// ListRecipes returns the caller's recipes, newest first
func (s *Service) ListRecipes(ctx context.Context, identity user.Identity, page inbound.PaginationParams) (*inbound.RecipeList, error) {
	if page.Limit <= 0 {
		page.Limit = defaultPageSize
	}
	recipes, total, err := s.recipes.FindByCreator(ctx, identity.ID, page.Offset, page.Limit)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list recipes", err)
	}
	return &inbound.RecipeList{
		Recipes: toDTOs(recipes),
		Total:   total,
		Offset:  page.Offset,
		Limit:   page.Limit,
	}, nil
}

// SearchRecipes runs an attribute search across all recipes
func (s *Service) SearchRecipes(ctx context.Context, query inbound.SearchQuery) (*inbound.RecipeList, error) {
	if query.Limit <= 0 {
		query.Limit = defaultPageSize
	}
	recipes, total, err := s.recipes.Search(ctx, outbound.SearchCriteria{
		Query:           query.Query,
		CuisineType:     query.CuisineType,
		MealType:        recipe.MealType(query.MealType),
		Difficulty:      recipe.DifficultyLevel(query.Difficulty),
		MaxTotalMinutes: query.MaxTotalMinutes,
		Offset:          query.Offset,
		Limit:           query.Limit,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("search recipes", err)
	}
	return &inbound.RecipeList{
		Recipes: toDTOs(recipes),
		Total:   total,
		Offset:  query.Offset,
		Limit:   query.Limit,
	}, nil
}

// LikeRecipe increments a recipe's like counter
func (s *Service) LikeRecipe(ctx context.Context, recipeID uuid.UUID) error {
	return s.bumpCounter(ctx, recipeID, (*recipe.Recipe).RecordLike)
}

// SaveRecipe increments a recipe's save counter
func (s *Service) SaveRecipe(ctx context.Context, recipeID uuid.UUID) error {
	return s.bumpCounter(ctx, recipeID, (*recipe.Recipe).RecordSave)
}

func (s *Service) bumpCounter(ctx context.Context, recipeID uuid.UUID, bump func(*recipe.Recipe)) error {
	rec, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return apperrors.NewRecipeNotFoundError(recipeID.String())
	}
	bump(rec)
	if err := s.recipes.Save(ctx, rec); err != nil {
		return apperrors.NewDatabaseError("update engagement counter", err)
	}
	return nil
}

func toDTOs(recipes []*recipe.Recipe) []*inbound.RecipeDTO {
	dtos := make([]*inbound.RecipeDTO, len(recipes))
	for i, r := range recipes {
		dtos[i] = inbound.NewRecipeDTO(r)
	}
	return dtos
}
