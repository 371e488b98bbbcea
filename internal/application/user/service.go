// Package user implements account preference use cases
package user

import (
	"context"

	"github.com/cuizine/api/internal/domain/user"
	"github.com/cuizine/api/internal/ports/outbound"
	apperrors "github.com/cuizine/api/pkg/errors"
	"go.uber.org/zap"
)

// PreferencesService stores the dietary and household preferences that
// feed into prompt building and plan assembly
type PreferencesService struct {
	preferences outbound.PreferencesRepository
	logger      *zap.Logger
}

// NewPreferencesService creates the preferences service
func NewPreferencesService(preferences outbound.PreferencesRepository, logger *zap.Logger) *PreferencesService {
	return &PreferencesService{
		preferences: preferences,
		logger:      logger.Named("preferences-service"),
	}
}

// Get returns the caller's preferences, empty defaults when none exist
func (s *PreferencesService) Get(ctx context.Context, identity user.Identity) (*user.Preferences, error) {
	prefs, err := s.preferences.Find(ctx, identity.ID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("load preferences", err)
	}
	if prefs == nil {
		return &user.Preferences{UserID: identity.ID}, nil
	}
	return prefs, nil
}

// Put replaces the caller's preferences wholesale
func (s *PreferencesService) Put(ctx context.Context, identity user.Identity, prefs user.Preferences) (*user.Preferences, error) {
	prefs.UserID = identity.ID
	if err := s.preferences.Upsert(ctx, &prefs); err != nil {
		return nil, apperrors.NewDatabaseError("store preferences", err)
	}
	s.logger.Debug("preferences updated", zap.String("identity", identity.ID))
	return &prefs, nil
}
