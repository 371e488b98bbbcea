package gorm

import (
	"context"
	"errors"

	"github.com/cuizine/api/internal/domain/mealplan"
	"github.com/cuizine/api/internal/ports/outbound"
	apperrors "github.com/cuizine/api/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MealPlanRepository implements outbound.MealPlanRepository using GORM
type MealPlanRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ outbound.MealPlanRepository = (*MealPlanRepository)(nil)

// NewMealPlanRepository creates a new GORM-based meal plan repository
func NewMealPlanRepository(db *gorm.DB, logger *zap.Logger) *MealPlanRepository {
	return &MealPlanRepository{
		db:     db,
		logger: logger.Named("mealplan_repository"),
	}
}

// Create persists a completed plan with all its days in one transaction.
// Either the whole plan lands or none of it does.
func (r *MealPlanRepository) Create(ctx context.Context, plan *mealplan.MealPlan) error {
	model, err := MealPlanToModel(plan)
	if err != nil {
		return apperrors.NewDatabaseError("encode meal plan", err)
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		return apperrors.NewDatabaseError("create meal plan", err)
	}
	return nil
}

// FindByID retrieves a plan with its days
func (r *MealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error) {
	var model MealPlanModel
	err := r.db.WithContext(ctx).
		Preload("Days", func(db *gorm.DB) *gorm.DB {
			return db.Order("meal_plan_days.date ASC")
		}).
		First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewMealPlanNotFoundError(id.String())
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("find meal plan", err)
	}
	plan, err := ModelToMealPlan(&model)
	if err != nil {
		return nil, apperrors.NewDatabaseError("decode meal plan", err)
	}
	return plan, nil
}

// FindByUser retrieves a user's plans, newest first
func (r *MealPlanRepository) FindByUser(ctx context.Context, userID string, offset, limit int) ([]*mealplan.MealPlan, int64, error) {
	query := r.db.WithContext(ctx).Model(&MealPlanModel{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewDatabaseError("count meal plans", err)
	}

	var models []MealPlanModel
	err := query.
		Preload("Days", func(db *gorm.DB) *gorm.DB {
			return db.Order("meal_plan_days.date ASC")
		}).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.NewDatabaseError("list meal plans", err)
	}

	plans := make([]*mealplan.MealPlan, 0, len(models))
	for i := range models {
		plan, err := ModelToMealPlan(&models[i])
		if err != nil {
			return nil, 0, apperrors.NewDatabaseError("decode meal plan", err)
		}
		plans = append(plans, plan)
	}
	return plans, total, nil
}

// Delete removes a plan scoped to its owner
func (r *MealPlanRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&MealPlanModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return mealplan.ErrMealPlanNotFound
		}
		return tx.Where("meal_plan_id = ?", id).Delete(&MealPlanDayModel{}).Error
	})
	if errors.Is(err, mealplan.ErrMealPlanNotFound) {
		return apperrors.NewMealPlanNotFoundError(id.String())
	}
	if err != nil {
		return apperrors.NewDatabaseError("delete meal plan", err)
	}
	return nil
}
