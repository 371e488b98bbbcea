package mealplan

import (
	"context"
	"fmt"
	"sort"

	domain "github.com/cuizine/api/internal/domain/mealplan"
	"github.com/cuizine/api/internal/domain/recipe"
	"github.com/cuizine/api/internal/domain/user"
	"github.com/cuizine/api/internal/ports/inbound"
	"github.com/cuizine/api/internal/ports/outbound"
	apperrors "github.com/cuizine/api/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// candidateLimit caps how many recipes are fetched per slot before ranking
const candidateLimit = 50

// Service assembles multi-day meal plans. Plans build up in memory and
// reach the repository only once every slot of every day is filled.
type Service struct {
	plans    outbound.MealPlanRepository
	recipes  outbound.RecipeRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates the meal plan service
func NewService(plans outbound.MealPlanRepository, recipes outbound.RecipeRepository, logger *zap.Logger) *Service {
	return &Service{
		plans:    plans,
		recipes:  recipes,
		validate: validator.New(),
		logger:   logger.Named("mealplan-service"),
	}
}

// GeneratePlan builds a plan of duration_weeks * 7 days, selecting one
// recipe per slot per day with inventory-aware ranking. Any slot that
// cannot be filled fails the whole plan; nothing partial is persisted.
func (s *Service) GeneratePlan(ctx context.Context, identity user.Identity, cmd inbound.PlanCommand) (*inbound.MealPlanDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	plan, err := domain.New(identity.ID, cmd.StartDate, cmd.DurationWeeks)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := plan.Begin(); err != nil {
		return nil, apperrors.NewPlanAssemblyFailedError("plan cannot start", err)
	}

	slots := domain.DefaultSlots
	if cmd.IncludeSnacks {
		slots = append(append([]domain.Slot{}, slots...), domain.SlotSnack)
	}

	inventory := domain.Inventory{}
	for dayNum := 0; dayNum < plan.DayCount(); dayNum++ {
		inventory.Age()

		day := domain.DayPlan{
			Date:  plan.StartDate().AddDate(0, 0, dayNum),
			Meals: make(map[domain.Slot]uuid.UUID, len(slots)),
		}

		for _, slot := range slots {
			selected, err := s.fillSlot(ctx, slot, inventory)
			if err != nil {
				s.failPlan(plan, identity, dayNum, slot)
				return nil, err
			}
			inventory.Consume(selected)
			day.Meals[slot] = selected.ID()
		}

		day.Leftovers = carriedLeftovers(inventory)
		if err := plan.AppendDay(day); err != nil {
			s.failPlan(plan, identity, dayNum, "")
			return nil, apperrors.NewPlanAssemblyFailedError("day could not be appended", err)
		}
	}

	if err := plan.Complete(); err != nil {
		return nil, apperrors.NewPlanAssemblyFailedError("plan cannot complete", err)
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, apperrors.NewDatabaseError("store meal plan", err)
	}

	s.logger.Info("meal plan assembled",
		zap.String("identity", identity.ID),
		zap.String("plan_id", plan.ID().String()),
		zap.Int("days", plan.DayCount()),
	)
	return inbound.NewMealPlanDTO(plan), nil
}

// GetPlan returns one of the caller's plans
func (s *Service) GetPlan(ctx context.Context, identity user.Identity, planID uuid.UUID) (*inbound.MealPlanDTO, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil || plan.UserID() != identity.ID {
		return nil, apperrors.NewMealPlanNotFoundError(planID.String())
	}
	return inbound.NewMealPlanDTO(plan), nil
}

// ListPlans returns the caller's plans, newest first
func (s *Service) ListPlans(ctx context.Context, identity user.Identity, page inbound.PaginationParams) (*inbound.MealPlanList, error) {
	if page.Limit <= 0 {
		page.Limit = 20
	}
	plans, total, err := s.plans.FindByUser(ctx, identity.ID, page.Offset, page.Limit)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list meal plans", err)
	}
	dtos := make([]*inbound.MealPlanDTO, len(plans))
	for i, p := range plans {
		dtos[i] = inbound.NewMealPlanDTO(p)
	}
	return &inbound.MealPlanList{
		Plans:  dtos,
		Total:  total,
		Offset: page.Offset,
		Limit:  page.Limit,
	}, nil
}

// DeletePlan removes one of the caller's plans
func (s *Service) DeletePlan(ctx context.Context, identity user.Identity, planID uuid.UUID) error {
	if err := s.plans.Delete(ctx, planID, identity.ID); err != nil {
		return apperrors.NewMealPlanNotFoundError(planID.String())
	}
	return nil
}

// fillSlot fetches and ranks candidates for one slot, returning the top
// pick or a plan assembly error when nothing qualifies
func (s *Service) fillSlot(ctx context.Context, slot domain.Slot, inventory domain.Inventory) (*recipe.Recipe, error) {
	candidates, err := s.recipes.FindByMealType(ctx, recipe.MealType(slot), candidateLimit)
	if err != nil {
		return nil, apperrors.NewPlanAssemblyFailedError("candidate lookup failed", err)
	}
	ranked := RankByInventoryUsage(candidates, inventory)
	if len(ranked) == 0 {
		return nil, apperrors.NewPlanAssemblyFailedError(
			fmt.Sprintf("no recipe available for %s slot", slot), nil)
	}
	return ranked[0].Recipe, nil
}

func (s *Service) failPlan(plan *domain.MealPlan, identity user.Identity, dayNum int, slot domain.Slot) {
	_ = plan.Fail()
	s.logger.Warn("meal plan assembly failed",
		zap.String("identity", identity.ID),
		zap.Int("day", dayNum+1),
		zap.String("slot", string(slot)),
	)
}

// carriedLeftovers snapshots the leftover entries still in the
// inventory at the end of a day, sorted by ingredient name
func carriedLeftovers(inv domain.Inventory) []domain.Leftover {
	var leftovers []domain.Leftover
	for _, entry := range inv {
		if entry.SourceRecipeID == nil {
			continue
		}
		leftovers = append(leftovers, domain.Leftover{
			Ingredient:   entry.Name,
			Amount:       entry.Amount,
			Unit:         entry.Unit,
			ExpiresInDay: entry.DaysUntilExpiry,
			FromRecipeID: *entry.SourceRecipeID,
		})
	}
	sort.Slice(leftovers, func(i, j int) bool { return leftovers[i].Ingredient < leftovers[j].Ingredient })
	return leftovers
}
