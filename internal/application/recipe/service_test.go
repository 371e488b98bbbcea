package recipe

import (
	"context"
	"sync"
	"testing"

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

type memoryRecipeRepo struct {
	mu     sync.Mutex
	stored map[uuid.UUID]*recipe.Recipe
}

func newMemoryRecipeRepo() *memoryRecipeRepo {
	return &memoryRecipeRepo{stored: make(map[uuid.UUID]*recipe.Recipe)}
}

func (r *memoryRecipeRepo) Create(_ context.Context, rec *recipe.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored[rec.ID()] = rec
	return nil
}

func (r *memoryRecipeRepo) Save(ctx context.Context, rec *recipe.Recipe) error {
	return r.Create(ctx, rec)
}

func (r *memoryRecipeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stored, id)
	return nil
}

func (r *memoryRecipeRepo) FindByID(_ context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.stored[id]
	if !ok {
		return nil, recipe.ErrRecipeNotFound
	}
	return rec, nil
}

func (r *memoryRecipeRepo) FindByCreator(_ context.Context, creatorID string, _, limit int) ([]*recipe.Recipe, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*recipe.Recipe
	for _, rec := range r.stored {
		if rec.CreatorID() == creatorID {
			out = append(out, rec)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, int64(len(out)), nil
}

func (r *memoryRecipeRepo) FindByMealType(context.Context, recipe.MealType, int) ([]*recipe.Recipe, error) {
	return nil, nil
}

func (r *memoryRecipeRepo) Search(_ context.Context, criteria outbound.SearchCriteria) ([]*recipe.Recipe, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*recipe.Recipe
	for _, rec := range r.stored {
		if criteria.MealType != "" && rec.MealType() != criteria.MealType {
			continue
		}
		out = append(out, rec)
	}
	return out, int64(len(out)), nil
}

func validCommand() inbound.CreateRecipeCommand {
	return inbound.CreateRecipeCommand{
		Title: "Miso Ramen",
		Ingredients: []recipe.Ingredient{
			{Item: "ramen noodles", Amount: 200, Unit: "g"},
			{Item: "miso paste", Amount: 2, Unit: "tbsp"},
		},
		Instructions: []recipe.Instruction{
			{StepNumber: 1, Content: "Simmer the broth", Timing: "15 min"},
			{StepNumber: 2, Content: "Cook the noodles", Timing: "4 min"},
		},
		MealType: "dinner",
		PrepTime: 10,
		CookTime: 20,
		Servings: 2,
	}
}

func owner() user.Identity {
	return user.Identity{ID: "chef-1", Tier: user.TierFree}
}

func TestCreateRecipeComputesTotalTime(t *testing.T) {
	svc := NewService(newMemoryRecipeRepo(), zaptest.NewLogger(t))

	dto, err := svc.CreateRecipe(context.Background(), owner(), validCommand())

	require.NoError(t, err)
	assert.Equal(t, 30, dto.TotalTime)
	assert.Equal(t, "user", dto.SourceType)
}

func TestCreateRecipeRejectsMissingTitle(t *testing.T) {
	svc := NewService(newMemoryRecipeRepo(), zaptest.NewLogger(t))
	cmd := validCommand()
	cmd.Title = ""

	_, err := svc.CreateRecipe(context.Background(), owner(), cmd)

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.GetCode(err))
}

func TestUpdateRecipeWhitelistOnly(t *testing.T) {
	repo := newMemoryRecipeRepo()
	svc := NewService(repo, zaptest.NewLogger(t))

	created, err := svc.CreateRecipe(context.Background(), owner(), validCommand())
	require.NoError(t, err)
	id, _ := uuid.Parse(created.ID)

	newTitle := "Spicy Miso Ramen"
	tips := []string{"use red miso for depth"}
	updated, err := svc.UpdateRecipe(context.Background(), owner(), id, inbound.UpdateRecipeCommand{
		Title:      &newTitle,
		RecipeTips: &tips,
	})

	require.NoError(t, err)
	assert.Equal(t, "Spicy Miso Ramen", updated.Title)
	assert.Equal(t, tips, updated.RecipeTips)
	// untouched fields survive
	assert.Equal(t, 30, updated.TotalTime)
	assert.Len(t, updated.Ingredients, 2)
}

func TestUpdateRecipeRejectsNonOwner(t *testing.T) {
	repo := newMemoryRecipeRepo()
	svc := NewService(repo, zaptest.NewLogger(t))

	created, err := svc.CreateRecipe(context.Background(), owner(), validCommand())
	require.NoError(t, err)
	id, _ := uuid.Parse(created.ID)

	title := "Hijacked"
	_, err = svc.UpdateRecipe(context.Background(), user.Identity{ID: "stranger"}, id, inbound.UpdateRecipeCommand{Title: &title})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.GetCode(err))
}

func TestDeleteRecipeScopedToOwner(t *testing.T) {
	repo := newMemoryRecipeRepo()
	svc := NewService(repo, zaptest.NewLogger(t))

	created, err := svc.CreateRecipe(context.Background(), owner(), validCommand())
	require.NoError(t, err)
	id, _ := uuid.Parse(created.ID)

	err = svc.DeleteRecipe(context.Background(), user.Identity{ID: "stranger"}, id)
	require.Error(t, err)

	require.NoError(t, svc.DeleteRecipe(context.Background(), owner(), id))
	_, err = svc.GetRecipe(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeRecipeNotFound, apperrors.GetCode(err))
}

func TestGetRecipeRecordsView(t *testing.T) {
	repo := newMemoryRecipeRepo()
	svc := NewService(repo, zaptest.NewLogger(t))

	created, err := svc.CreateRecipe(context.Background(), owner(), validCommand())
	require.NoError(t, err)
	id, _ := uuid.Parse(created.ID)

	first, err := svc.GetRecipe(context.Background(), id)
	require.NoError(t, err)
	second, err := svc.GetRecipe(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, 1, first.ViewCount)
	assert.Equal(t, 2, second.ViewCount)
}

func TestEngagementCounters(t *testing.T) {
	repo := newMemoryRecipeRepo()
	svc := NewService(repo, zaptest.NewLogger(t))

	created, err := svc.CreateRecipe(context.Background(), owner(), validCommand())
	require.NoError(t, err)
	id, _ := uuid.Parse(created.ID)

	require.NoError(t, svc.LikeRecipe(context.Background(), id))
	require.NoError(t, svc.LikeRecipe(context.Background(), id))
	require.NoError(t, svc.SaveRecipe(context.Background(), id))

	rec, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.LikeCount())
	assert.Equal(t, 1, rec.SaveCount())
}

func TestListRecipesScopedToCreator(t *testing.T) {
	repo := newMemoryRecipeRepo()
	svc := NewService(repo, zaptest.NewLogger(t))

	_, err := svc.CreateRecipe(context.Background(), owner(), validCommand())
	require.NoError(t, err)
	_, err = svc.CreateRecipe(context.Background(), user.Identity{ID: "other"}, validCommand())
	require.NoError(t, err)

	list, err := svc.ListRecipes(context.Background(), owner(), inbound.PaginationParams{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
}
