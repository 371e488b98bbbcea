package generator

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cuizine/api/internal/application/quota"
	"github.com/cuizine/api/internal/domain/recipe"
	"github.com/cuizine/api/internal/domain/user"
	"github.com/cuizine/api/internal/ports/inbound"
	"github.com/cuizine/api/internal/ports/outbound"
	apperrors "github.com/cuizine/api/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeLedger always admits and tracks debits/refunds
type fakeLedger struct {
	mu       sync.Mutex
	debits   int
	refunds  int
	failWith error
}

func (l *fakeLedger) IncrWindow(context.Context, string, time.Duration) (int64, error) {
	return 1, l.failWith
}

func (l *fakeLedger) WindowTTL(context.Context, string) (time.Duration, error) {
	return time.Minute, nil
}

func (l *fakeLedger) DebitCredits(_ context.Context, _ string, allotment, cost int) (int, bool, error) {
	if l.failWith != nil {
		return 0, false, l.failWith
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	balance := allotment - l.debits + l.refunds
	if balance < cost {
		return balance, false, nil
	}
	l.debits += cost
	return balance - cost, true, nil
}

func (l *fakeLedger) RefundCredits(_ context.Context, _ string, _, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refunds += amount
	return nil
}

func (l *fakeLedger) Credits(_ context.Context, _ string, allotment int) (int, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return allotment - l.debits + l.refunds, l.debits, nil
}

type fakeRecipeRepo struct {
	mu      sync.Mutex
	stored  map[uuid.UUID]*recipe.Recipe
	failing bool
}

func newFakeRecipeRepo() *fakeRecipeRepo {
	return &fakeRecipeRepo{stored: make(map[uuid.UUID]*recipe.Recipe)}
}

func (r *fakeRecipeRepo) Create(_ context.Context, rec *recipe.Recipe) error {
	if r.failing {
		return errors.New("insert failed")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored[rec.ID()] = rec
	return nil
}

func (r *fakeRecipeRepo) Save(_ context.Context, rec *recipe.Recipe) error {
	return r.Create(context.Background(), rec)
}

func (r *fakeRecipeRepo) Delete(context.Context, uuid.UUID) error { return nil }

func (r *fakeRecipeRepo) FindByID(_ context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.stored[id]
	if !ok {
		return nil, recipe.ErrRecipeNotFound
	}
	return rec, nil
}

func (r *fakeRecipeRepo) FindByCreator(context.Context, string, int, int) ([]*recipe.Recipe, int64, error) {
	return nil, 0, nil
}

func (r *fakeRecipeRepo) FindByMealType(context.Context, recipe.MealType, int) ([]*recipe.Recipe, error) {
	return nil, nil
}

func (r *fakeRecipeRepo) Search(context.Context, outbound.SearchCriteria) ([]*recipe.Recipe, int64, error) {
	return nil, 0, nil
}

type fakePrefsRepo struct {
	prefs *user.Preferences
	err   error
}

func (p *fakePrefsRepo) Find(context.Context, string) (*user.Preferences, error) {
	return p.prefs, p.err
}

func (p *fakePrefsRepo) Upsert(context.Context, *user.Preferences) error { return nil }

type fakeAIClient struct {
	mu      sync.Mutex
	draft   *recipe.Draft
	err     error
	prompts []outbound.StructuredPrompt
}

func (c *fakeAIClient) GenerateRecipe(_ context.Context, prompt outbound.StructuredPrompt) (*recipe.Draft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return nil, c.err
	}
	d := *c.draft
	return &d, nil
}

type fakeIdentityProvider struct {
	mu    sync.Mutex
	calls int
}

func (p *fakeIdentityProvider) SyncCreditUsage(context.Context, string, int, int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return nil
}

func validDraft() *recipe.Draft {
	return &recipe.Draft{
		Title:       "Charred Lemon Chicken",
		Description: "Weeknight sheet pan dinner",
		Ingredients: []recipe.Ingredient{
			{Item: "chicken thighs", Amount: 700, Unit: "g"},
			{Item: "lemon", Amount: 1, Unit: "whole"},
		},
		Instructions: []recipe.Instruction{
			{StepNumber: 1, Content: "Roast at 220C", Timing: "25 min"},
		},
		Nutrition:  recipe.NutritionInfo{Calories: 520, Protein: 42, Carbs: 8, Fat: 31},
		Difficulty: recipe.DifficultyBeginner,
		PrepTime:   10,
		CookTime:   25,
		Servings:   4,
	}
}

func newTestService(t *testing.T, ledger *fakeLedger, repo *fakeRecipeRepo, prefs *fakePrefsRepo, ai *fakeAIClient, idp *fakeIdentityProvider) *Service {
	t.Helper()
	logger := zaptest.NewLogger(t)
	gate := quota.NewGate(ledger, logger)
	return NewService(gate, repo, prefs, ai, idp, logger)
}

func TestGeneratePersistsAndDebits(t *testing.T) {
	ledger := &fakeLedger{}
	repo := newFakeRecipeRepo()
	ai := &fakeAIClient{draft: validDraft()}
	idp := &fakeIdentityProvider{}
	svc := newTestService(t, ledger, repo, &fakePrefsRepo{}, ai, idp)

	identity := user.Identity{ID: "user-1", Tier: user.TierFree}
	result, err := svc.Generate(context.Background(), identity, inbound.GenerateCommand{
		RecipeType: recipe.RecipeTypeCustom,
		Servings:   4,
	})

	require.NoError(t, err)
	assert.Equal(t, "Charred Lemon Chicken", result.Recipe.Title)
	assert.Equal(t, 4, result.CreditsRemaining)
	assert.Equal(t, 35, result.Recipe.TotalTime, "total time is prep plus cook")
	assert.Equal(t, "ai", result.Recipe.SourceType)
	assert.Len(t, repo.stored, 1)
	assert.Equal(t, 1, ledger.debits)
}

func TestGenerateRejectsInvalidCommand(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestService(t, ledger, newFakeRecipeRepo(), &fakePrefsRepo{}, &fakeAIClient{draft: validDraft()}, &fakeIdentityProvider{})

	_, err := svc.Generate(context.Background(), user.Identity{ID: "u", Tier: user.TierFree}, inbound.GenerateCommand{
		RecipeType: "absurd",
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.GetCode(err))
	assert.Zero(t, ledger.debits, "no credit is spent on a malformed request")
}

func TestGenerateRefundsOnBackendFailure(t *testing.T) {
	ledger := &fakeLedger{}
	ai := &fakeAIClient{err: apperrors.NewBackendUnavailableError(errors.New("timeout"))}
	svc := newTestService(t, ledger, newFakeRecipeRepo(), &fakePrefsRepo{}, ai, &fakeIdentityProvider{})

	_, err := svc.Generate(context.Background(), user.Identity{ID: "u", Tier: user.TierPro}, inbound.GenerateCommand{
		RecipeType: recipe.RecipeTypeRandom,
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeBackendUnavailable, apperrors.GetCode(err))
	assert.Equal(t, 1, ledger.debits)
	assert.Equal(t, 1, ledger.refunds)
}

func TestGenerateRefundsOnInvalidDraft(t *testing.T) {
	ledger := &fakeLedger{}
	broken := validDraft()
	broken.Title = ""
	ai := &fakeAIClient{draft: broken}
	repo := newFakeRecipeRepo()
	svc := newTestService(t, ledger, repo, &fakePrefsRepo{}, ai, &fakeIdentityProvider{})

	_, err := svc.Generate(context.Background(), user.Identity{ID: "u", Tier: user.TierFree}, inbound.GenerateCommand{
		RecipeType: recipe.RecipeTypeRandom,
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidGenerationOutput, apperrors.GetCode(err))
	assert.Empty(t, repo.stored)
	assert.Equal(t, 1, ledger.refunds)
}

func TestGenerateSurvivesPreferenceLookupFailure(t *testing.T) {
	ledger := &fakeLedger{}
	prefs := &fakePrefsRepo{err: errors.New("db down")}
	ai := &fakeAIClient{draft: validDraft()}
	svc := newTestService(t, ledger, newFakeRecipeRepo(), prefs, ai, &fakeIdentityProvider{})

	_, err := svc.Generate(context.Background(), user.Identity{ID: "u", Tier: user.TierFree}, inbound.GenerateCommand{
		RecipeType: recipe.RecipeTypeRandom,
	})

	require.NoError(t, err)
	assert.NotContains(t, ai.prompts[0].User, "Dietary Restrictions")
}

func TestGenerateFreeTierLastCredit(t *testing.T) {
	ledger := &fakeLedger{}
	ledger.debits = user.TierFree.MonthlyCredits() - 1 // one credit left
	ai := &fakeAIClient{draft: validDraft()}
	svc := newTestService(t, ledger, newFakeRecipeRepo(), &fakePrefsRepo{}, ai, &fakeIdentityProvider{})
	identity := user.Identity{ID: "u", Tier: user.TierFree}

	result, err := svc.Generate(context.Background(), identity, inbound.GenerateCommand{
		RecipeType: recipe.RecipeTypeRandom,
	})
	require.NoError(t, err)
	assert.Zero(t, result.CreditsRemaining)

	_, err = svc.Generate(context.Background(), identity, inbound.GenerateCommand{
		RecipeType: recipe.RecipeTypeRandom,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInsufficientCredits, apperrors.GetCode(err))
}

func TestRegenerateReplaysStoredParameters(t *testing.T) {
	ledger := &fakeLedger{}
	repo := newFakeRecipeRepo()
	ai := &fakeAIClient{draft: validDraft()}
	svc := newTestService(t, ledger, repo, &fakePrefsRepo{}, ai, &fakeIdentityProvider{})
	identity := user.Identity{ID: "u", Tier: user.TierPro}

	original, err := svc.Generate(context.Background(), identity, inbound.GenerateCommand{
		RecipeType:  recipe.RecipeTypeCustom,
		Ingredients: []string{"salmon"},
		Servings:    2,
	})
	require.NoError(t, err)

	recipeID, err := uuid.Parse(original.Recipe.ID)
	require.NoError(t, err)

	regenerated, err := svc.Regenerate(context.Background(), identity, recipeID)
	require.NoError(t, err)
	assert.NotEqual(t, original.Recipe.ID, regenerated.Recipe.ID)
	assert.Equal(t, 2, ledger.debits, "regeneration costs a credit too")

	// both invocations used the same prompt inputs
	require.Len(t, ai.prompts, 2)
	assert.Equal(t, ai.prompts[0].User, ai.prompts[1].User)
}

func TestRegenerateRejectsUserAuthoredRecipes(t *testing.T) {
	repo := newFakeRecipeRepo()
	draft := *validDraft()
	draft.CreatorID = "u"
	draft.SourceType = recipe.SourceUser
	rec, err := recipe.New(draft)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), rec))

	svc := newTestService(t, &fakeLedger{}, repo, &fakePrefsRepo{}, &fakeAIClient{draft: validDraft()}, &fakeIdentityProvider{})

	_, err = svc.Regenerate(context.Background(), user.Identity{ID: "u", Tier: user.TierFree}, rec.ID())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.GetCode(err))
}

func TestCreditsReportsAllowance(t *testing.T) {
	ledger := &fakeLedger{}
	ledger.debits = 3
	svc := newTestService(t, ledger, newFakeRecipeRepo(), &fakePrefsRepo{}, &fakeAIClient{draft: validDraft()}, &fakeIdentityProvider{})

	dto, err := svc.Credits(context.Background(), user.Identity{ID: "u", Tier: user.TierPro})
	require.NoError(t, err)
	assert.Equal(t, 97, dto.Remaining)
	assert.Equal(t, 100, dto.Total)
	assert.Equal(t, "pro", dto.SubscriptionTier)
}

func TestGeneratedFromRoundTrips(t *testing.T) {
	cmd := inbound.GenerateCommand{
		RecipeType:          recipe.RecipeTypeCrazy,
		Ingredients:         []string{"jackfruit"},
		DietaryRestrictions: []string{"vegan"},
		Servings:            6,
		IsSpicy:             true,
	}
	raw, err := json.Marshal(cmd)
	require.NoError(t, err)

	var decoded inbound.GenerateCommand
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, cmd, decoded)
}
