package gorm

import (
	"context"
	"errors"

	"github.com/cuizine/api/internal/domain/shoppinglist"
	"github.com/cuizine/api/internal/ports/outbound"
	apperrors "github.com/cuizine/api/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ShoppingListRepository implements outbound.ShoppingListRepository using GORM
type ShoppingListRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ outbound.ShoppingListRepository = (*ShoppingListRepository)(nil)

// NewShoppingListRepository creates a new GORM-based shopping list repository
func NewShoppingListRepository(db *gorm.DB, logger *zap.Logger) *ShoppingListRepository {
	return &ShoppingListRepository{
		db:     db,
		logger: logger.Named("shoppinglist_repository"),
	}
}

// Create persists a new shopping list
func (r *ShoppingListRepository) Create(ctx context.Context, list *shoppinglist.ShoppingList) error {
	model := ShoppingListToModel(list)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.NewDatabaseError("create shopping list", err)
	}
	return nil
}

// Save persists changes to an existing list
func (r *ShoppingListRepository) Save(ctx context.Context, list *shoppinglist.ShoppingList) error {
	model := ShoppingListToModel(list)
	result := r.db.WithContext(ctx).Model(&ShoppingListModel{}).
		Where("id = ? AND user_id = ?", model.ID, model.UserID).
		Updates(map[string]interface{}{
			"name":       model.Name,
			"items":      model.Items,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.NewDatabaseError("save shopping list", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewShoppingListNotFoundError(model.ID.String())
	}
	return nil
}

// FindByID retrieves a list scoped to its owner
func (r *ShoppingListRepository) FindByID(ctx context.Context, id uuid.UUID, userID string) (*shoppinglist.ShoppingList, error) {
	var model ShoppingListModel
	err := r.db.WithContext(ctx).
		First(&model, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewShoppingListNotFoundError(id.String())
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("find shopping list", err)
	}
	return ModelToShoppingList(&model), nil
}

// FindByIDs retrieves several lists in one query, scoped to their owner.
// Lists belonging to other users are silently absent from the result.
func (r *ShoppingListRepository) FindByIDs(ctx context.Context, ids []uuid.UUID, userID string) ([]*shoppinglist.ShoppingList, error) {
	var models []ShoppingListModel
	err := r.db.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, userID).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("find shopping lists", err)
	}
	lists := make([]*shoppinglist.ShoppingList, 0, len(models))
	for i := range models {
		lists = append(lists, ModelToShoppingList(&models[i]))
	}
	return lists, nil
}

// FindByUser retrieves a user's lists, newest first
func (r *ShoppingListRepository) FindByUser(ctx context.Context, userID string, offset, limit int) ([]*shoppinglist.ShoppingList, error) {
	var models []ShoppingListModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("list shopping lists", err)
	}
	lists := make([]*shoppinglist.ShoppingList, 0, len(models))
	for i := range models {
		lists = append(lists, ModelToShoppingList(&models[i]))
	}
	return lists, nil
}

// Delete removes a list scoped to its owner
func (r *ShoppingListRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&ShoppingListModel{})
	if result.Error != nil {
		return apperrors.NewDatabaseError("delete shopping list", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewShoppingListNotFoundError(id.String())
	}
	return nil
}
