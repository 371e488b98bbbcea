package gorm

import (
	"context"
	"errors"

	"github.com/cuizine/api/internal/domain/user"
	"github.com/cuizine/api/internal/ports/outbound"
	apperrors "github.com/cuizine/api/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferencesRepository implements outbound.PreferencesRepository using GORM
type PreferencesRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ outbound.PreferencesRepository = (*PreferencesRepository)(nil)

// NewPreferencesRepository creates a new GORM-based preferences repository
func NewPreferencesRepository(db *gorm.DB, logger *zap.Logger) *PreferencesRepository {
	return &PreferencesRepository{
		db:     db,
		logger: logger.Named("preferences_repository"),
	}
}

// Find retrieves preferences for an identity. A missing row returns
// nil, nil so callers can fall back to defaults.
func (r *PreferencesRepository) Find(ctx context.Context, userID string) (*user.Preferences, error) {
	var model PreferencesModel
	err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("find preferences", err)
	}
	return ModelToPreferences(&model), nil
}

// Upsert creates or replaces preferences for an identity
func (r *PreferencesRepository) Upsert(ctx context.Context, prefs *user.Preferences) error {
	model := PreferencesToModel(prefs)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(model).Error
	if err != nil {
		return apperrors.NewDatabaseError("upsert preferences", err)
	}
	return nil
}
