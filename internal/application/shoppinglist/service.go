// Package shoppinglist implements shopping list use cases: deriving a
// list from a recipe, merging lists, and item updates.
package shoppinglist

import (
	"context"

	"github.com/cuizine/api/internal/domain/shoppinglist"
	"github.com/cuizine/api/internal/domain/user"
	"github.com/cuizine/api/internal/ports/inbound"
	"github.com/cuizine/api/internal/ports/outbound"
	apperrors "github.com/cuizine/api/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service builds and manages shopping lists
type Service struct {
	lists    outbound.ShoppingListRepository
	recipes  outbound.RecipeRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates the shopping list service
func NewService(lists outbound.ShoppingListRepository, recipes outbound.RecipeRepository, logger *zap.Logger) *Service {
	return &Service{
		lists:    lists,
		recipes:  recipes,
		validate: validator.New(),
		logger:   logger.Named("shoppinglist-service"),
	}
}

// CreateFromRecipe derives a shopping list from a recipe's ingredients,
// scaling amounts when a different serving count is requested
func (s *Service) CreateFromRecipe(ctx context.Context, identity user.Identity, recipeID uuid.UUID, servings int) (*inbound.ShoppingListDTO, error) {
	rec, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return nil, apperrors.NewRecipeNotFoundError(recipeID.String())
	}

	scale := 1.0
	if servings > 0 && rec.Servings() > 0 {
		scale = float64(servings) / float64(rec.Servings())
	}

	items := make([]shoppinglist.Item, 0, len(rec.Ingredients()))
	for _, ing := range rec.Ingredients() {
		items = append(items, shoppinglist.Item{
			Name:   ing.Item,
			Amount: ing.Amount * scale,
			Unit:   ing.Unit,
			Notes:  ing.Notes,
		})
	}

	id := recipeID
	list := shoppinglist.New(identity.ID, rec.Title(), &id, items)
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, apperrors.NewDatabaseError("create shopping list", err)
	}

	s.logger.Info("shopping list created from recipe",
		zap.String("list_id", list.ID.String()),
		zap.String("recipe_id", recipeID.String()),
	)
	return inbound.NewShoppingListDTO(list), nil
}

// MergeLists combines the caller's lists into a new one, summing items
// that share a name and unit
func (s *Service) MergeLists(ctx context.Context, identity user.Identity, cmd inbound.MergeListsCommand) (*inbound.ShoppingListDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	ids := make([]uuid.UUID, len(cmd.ListIDs))
	for i, raw := range cmd.ListIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperrors.NewValidationError("list_ids must be valid UUIDs")
		}
		ids[i] = id
	}

	lists, err := s.lists.FindByIDs(ctx, ids, identity.ID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("load shopping lists", err)
	}
	if len(lists) != len(ids) {
		return nil, apperrors.NewShoppingListNotFoundError("one or more of the requested lists")
	}

	merged, err := shoppinglist.Merge(identity.ID, cmd.Name, lists)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := s.lists.Create(ctx, merged); err != nil {
		return nil, apperrors.NewDatabaseError("store merged shopping list", err)
	}
	return inbound.NewShoppingListDTO(merged), nil
}

// GetList returns one of the caller's lists
func (s *Service) GetList(ctx context.Context, identity user.Identity, listID uuid.UUID) (*inbound.ShoppingListDTO, error) {
	list, err := s.lists.FindByID(ctx, listID, identity.ID)
	if err != nil {
		return nil, apperrors.NewShoppingListNotFoundError(listID.String())
	}
	return inbound.NewShoppingListDTO(list), nil
}

// ListLists returns the caller's lists
func (s *Service) ListLists(ctx context.Context, identity user.Identity, page inbound.PaginationParams) ([]*inbound.ShoppingListDTO, error) {
	if page.Limit <= 0 {
		page.Limit = 20
	}
	lists, err := s.lists.FindByUser(ctx, identity.ID, page.Offset, page.Limit)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list shopping lists", err)
	}
	dtos := make([]*inbound.ShoppingListDTO, len(lists))
	for i, l := range lists {
		dtos[i] = inbound.NewShoppingListDTO(l)
	}
	return dtos, nil
}

// UpdateItems overwrites matching items, typically to check them off
func (s *Service) UpdateItems(ctx context.Context, identity user.Identity, listID uuid.UUID, items []shoppinglist.Item) (*inbound.ShoppingListDTO, error) {
	list, err := s.lists.FindByID(ctx, listID, identity.ID)
	if err != nil {
		return nil, apperrors.NewShoppingListNotFoundError(listID.String())
	}
	list.ApplyItemUpdates(items)
	if err := s.lists.Save(ctx, list); err != nil {
		return nil, apperrors.NewDatabaseError("update shopping list", err)
	}
	return inbound.NewShoppingListDTO(list), nil
}

// DeleteList removes one of the caller's lists
func (s *Service) DeleteList(ctx context.Context, identity user.Identity, listID uuid.UUID) error {
	if err := s.lists.Delete(ctx, listID, identity.ID); err != nil {
		return apperrors.NewShoppingListNotFoundError(listID.String())
	}
	return nil
}
