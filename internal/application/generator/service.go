// Package generator implements the quota-gated recipe generation use cases
package generator

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cuizine/api/internal/application/quota"
	"github.com/cuizine/api/internal/domain/recipe"
	"github.com/cuizine/api/internal/domain/user"
	"github.com/cuizine/api/internal/ports/inbound"
	"github.com/cuizine/api/internal/ports/outbound"
	apperrors "github.com/cuizine/api/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const generationCost = 1

// Service orchestrates a generation request: admission through the
// quota gate, prompt assembly, backend invocation, and persistence of
// the resulting recipe.
type Service struct {
	gate        *quota.Gate
	recipes     outbound.RecipeRepository
	preferences outbound.PreferencesRepository
	ai          outbound.AIClient
	identities  outbound.IdentityProvider
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewService creates the generator service with its dependencies
func NewService(
	gate *quota.Gate,
	recipes outbound.RecipeRepository,
	preferences outbound.PreferencesRepository,
	ai outbound.AIClient,
	identities outbound.IdentityProvider,
	logger *zap.Logger,
) *Service {
	return &Service{
		gate:        gate,
		recipes:     recipes,
		preferences: preferences,
		ai:          ai,
		identities:  identities,
		validate:    validator.New(),
		logger:      logger.Named("generator-service"),
	}
}

// Generate runs a single gated generation round trip
func (s *Service) Generate(ctx context.Context, identity user.Identity, cmd inbound.GenerateCommand) (*inbound.GenerationResult, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	decision := s.gate.Admit(ctx, identity, generationCost)
	if !decision.Allowed {
		switch decision.Reason {
		case quota.ReasonRateLimited:
			return nil, apperrors.NewRateLimitedError(identity.Tier.RateLimit(), decision.RetryAfter)
		default:
			return nil, apperrors.NewInsufficientCreditsError(string(identity.Tier))
		}
	}

	prefs, err := s.preferences.Find(ctx, identity.ID)
	if err != nil {
		// preferences only enrich the prompt, never block generation
		s.logger.Warn("preferences lookup failed, generating without them",
			zap.String("identity", identity.ID),
			zap.Error(err),
		)
		prefs = nil
	}

	prompt := BuildPrompt(cmd, prefs)

	draft, err := s.ai.GenerateRecipe(ctx, prompt)
	if err != nil {
		s.refundIfDebited(ctx, identity, decision)
		return nil, err
	}

	s.amendDraft(draft, identity, cmd)

	rec, err := recipe.New(*draft)
	if err != nil {
		s.refundIfDebited(ctx, identity, decision)
		return nil, apperrors.NewInvalidGenerationOutputError(err.Error())
	}

	if err := s.recipes.Create(ctx, rec); err != nil {
		s.refundIfDebited(ctx, identity, decision)
		return nil, apperrors.NewDatabaseError("store generated recipe", err)
	}

	s.syncIdentity(identity)

	s.logger.Info("recipe generated",
		zap.String("identity", identity.ID),
		zap.String("recipe_id", rec.ID().String()),
		zap.String("recipe_type", string(cmd.RecipeType)),
		zap.Int("credits_remaining", decision.Remaining),
	)

	return &inbound.GenerationResult{
		Recipe:           inbound.NewRecipeDTO(rec),
		CreditsRemaining: decision.Remaining,
		GenerationID:     rec.ID().String(),
	}, nil
}

// Regenerate replays the stored generation parameters of an existing
// AI recipe, producing a fresh variant under the same quota rules
func (s *Service) Regenerate(ctx context.Context, identity user.Identity, recipeID uuid.UUID) (*inbound.GenerationResult, error) {
	existing, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return nil, apperrors.NewRecipeNotFoundError(recipeID.String())
	}

	raw := existing.GeneratedFrom()
	if len(raw) == 0 {
		return nil, apperrors.NewValidationError("recipe was not generated and has no stored parameters")
	}

	var cmd inbound.GenerateCommand
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return nil, apperrors.NewValidationError("stored generation parameters are unreadable")
	}

	return s.Generate(ctx, identity, cmd)
}

// Credits reports the identity's remaining allowance
func (s *Service) Credits(ctx context.Context, identity user.Identity) (*inbound.CreditsDTO, error) {
	remaining, _, err := s.gate.Credits(ctx, identity)
	if err != nil {
		return nil, apperrors.Wrap(err, "credit balance unavailable")
	}
	return &inbound.CreditsDTO{
		Remaining:        remaining,
		Total:            identity.Tier.MonthlyCredits(),
		SubscriptionTier: string(identity.Tier),
	}, nil
}

// amendDraft stamps the request-derived attributes the backend does not
// produce onto the generated draft
func (s *Service) amendDraft(draft *recipe.Draft, identity user.Identity, cmd inbound.GenerateCommand) {
	draft.CreatorID = identity.ID
	draft.SourceType = recipe.SourceAI
	draft.IsSpicy = cmd.IsSpicy
	if cmd.CookingStyle != "" {
		draft.CookingStyle = recipe.CookingStyle(cmd.CookingStyle)
	}
	if draft.MealType == "" && cmd.MealType != "" {
		draft.MealType = recipe.MealType(cmd.MealType)
	}
	if raw, err := json.Marshal(cmd); err == nil {
		draft.GeneratedFrom = raw
	}
}

// refundIfDebited returns the generation cost unless the gate admitted
// in degraded mode, where nothing was debited reliably
func (s *Service) refundIfDebited(ctx context.Context, identity user.Identity, decision quota.Decision) {
	if decision.Reason != quota.ReasonAdmitted {
		return
	}
	s.gate.Refund(ctx, identity, generationCost)
}

// syncIdentity pushes the new balance to the external auth provider so
// client sessions see fresh credit counts. Fire and forget.
func (s *Service) syncIdentity(identity user.Identity) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		remaining, generatedTotal, err := s.gate.Credits(ctx, identity)
		if err == nil {
			err = s.identities.SyncCreditUsage(ctx, identity.ID, remaining, generatedTotal)
		}
		if err != nil {
			s.logger.Warn("identity credit sync failed",
				zap.String("identity", identity.ID),
				zap.Error(err),
			)
		}
	}()
}
