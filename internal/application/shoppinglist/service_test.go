package shoppinglist

import (
	"context"
	"testing"

	"github.com/cuizine/api/internal/domain/recipe"
	"github.com/cuizine/api/internal/domain/shoppinglist"
	"github.com/cuizine/api/internal/domain/user"
	"github.com/cuizine/api/internal/ports/inbound"
	"github.com/cuizine/api/internal/ports/outbound"
	apperrors "github.com/cuizine/api/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type memoryListRepo struct {
	stored map[uuid.UUID]*shoppinglist.ShoppingList
}

func newMemoryListRepo() *memoryListRepo {
	return &memoryListRepo{stored: make(map[uuid.UUID]*shoppinglist.ShoppingList)}
}

func (r *memoryListRepo) Create(_ context.Context, list *shoppinglist.ShoppingList) error {
	r.stored[list.ID] = list
	return nil
}

func (r *memoryListRepo) Save(ctx context.Context, list *shoppinglist.ShoppingList) error {
	return r.Create(ctx, list)
}

func (r *memoryListRepo) FindByID(_ context.Context, id uuid.UUID, userID string) (*shoppinglist.ShoppingList, error) {
	list, ok := r.stored[id]
	if !ok || list.UserID != userID {
		return nil, shoppinglist.ErrListNotFound
	}
	return list, nil
}

func (r *memoryListRepo) FindByIDs(_ context.Context, ids []uuid.UUID, userID string) ([]*shoppinglist.ShoppingList, error) {
	var out []*shoppinglist.ShoppingList
	for _, id := range ids {
		if list, ok := r.stored[id]; ok && list.UserID == userID {
			out = append(out, list)
		}
	}
	return out, nil
}

func (r *memoryListRepo) FindByUser(_ context.Context, userID string, _, _ int) ([]*shoppinglist.ShoppingList, error) {
	var out []*shoppinglist.ShoppingList
	for _, list := range r.stored {
		if list.UserID == userID {
			out = append(out, list)
		}
	}
	return out, nil
}

func (r *memoryListRepo) Delete(_ context.Context, id uuid.UUID, userID string) error {
	list, ok := r.stored[id]
	if !ok || list.UserID != userID {
		return shoppinglist.ErrListNotFound
	}
	delete(r.stored, id)
	return nil
}

type singleRecipeRepo struct {
	rec *recipe.Recipe
}

func (r *singleRecipeRepo) Create(context.Context, *recipe.Recipe) error { return nil }
func (r *singleRecipeRepo) Save(context.Context, *recipe.Recipe) error   { return nil }
func (r *singleRecipeRepo) Delete(context.Context, uuid.UUID) error      { return nil }

func (r *singleRecipeRepo) FindByID(_ context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	if r.rec != nil && r.rec.ID() == id {
		return r.rec, nil
	}
	return nil, recipe.ErrRecipeNotFound
}

func (r *singleRecipeRepo) FindByCreator(context.Context, string, int, int) ([]*recipe.Recipe, int64, error) {
	return nil, 0, nil
}

func (r *singleRecipeRepo) FindByMealType(context.Context, recipe.MealType, int) ([]*recipe.Recipe, error) {
	return nil, nil
}

func (r *singleRecipeRepo) Search(context.Context, outbound.SearchCriteria) ([]*recipe.Recipe, int64, error) {
	return nil, 0, nil
}

func shopper() user.Identity {
	return user.Identity{ID: "shopper-1", Tier: user.TierFree}
}

func curryRecipe(t *testing.T) *recipe.Recipe {
	t.Helper()
	rec, err := recipe.New(recipe.Draft{
		Title: "Chicken Curry",
		Ingredients: []recipe.Ingredient{
			{Item: "chicken breast", Amount: 500, Unit: "g"},
			{Item: "coconut milk", Amount: 400, Unit: "ml"},
			{Item: "curry paste", Amount: 3, Unit: "tbsp", Notes: "red or green"},
		},
		Instructions: []recipe.Instruction{{StepNumber: 1, Content: "Simmer everything"}},
		PrepTime:     15,
		CookTime:     25,
		Servings:     4,
		CreatorID:    "shopper-1",
	})
	require.NoError(t, err)
	return rec
}

func TestCreateFromRecipeScalesServings(t *testing.T) {
	rec := curryRecipe(t)
	svc := NewService(newMemoryListRepo(), &singleRecipeRepo{rec: rec}, zaptest.NewLogger(t))

	dto, err := svc.CreateFromRecipe(context.Background(), shopper(), rec.ID(), 8)

	require.NoError(t, err)
	assert.Equal(t, "Chicken Curry", dto.Name)
	assert.Equal(t, rec.ID().String(), dto.RecipeID)
	require.Len(t, dto.Items, 3)

	byName := make(map[string]shoppinglist.Item)
	for _, item := range dto.Items {
		byName[item.Name] = item
	}
	assert.Equal(t, 1000.0, byName["chicken breast"].Amount, "doubled for 8 servings")
	assert.Equal(t, "meat", byName["chicken breast"].Category)
	assert.Equal(t, "red or green", byName["curry paste"].Notes)
}

func TestCreateFromRecipeDefaultServings(t *testing.T) {
	rec := curryRecipe(t)
	svc := NewService(newMemoryListRepo(), &singleRecipeRepo{rec: rec}, zaptest.NewLogger(t))

	dto, err := svc.CreateFromRecipe(context.Background(), shopper(), rec.ID(), 0)

	require.NoError(t, err)
	for _, item := range dto.Items {
		if item.Name == "chicken breast" {
			assert.Equal(t, 500.0, item.Amount, "unscaled without a serving override")
		}
	}
}

func TestMergeListsSumsSharedItems(t *testing.T) {
	lists := newMemoryListRepo()
	svc := NewService(lists, &singleRecipeRepo{}, zaptest.NewLogger(t))

	a := shoppinglist.New("shopper-1", "Week A", nil, []shoppinglist.Item{
		{Name: "rice", Amount: 250, Unit: "g"},
		{Name: "lime", Amount: 2, Unit: "whole"},
	})
	b := shoppinglist.New("shopper-1", "Week B", nil, []shoppinglist.Item{
		{Name: "rice", Amount: 150, Unit: "g"},
		{Name: "rice", Amount: 1, Unit: "bag"},
	})
	require.NoError(t, lists.Create(context.Background(), a))
	require.NoError(t, lists.Create(context.Background(), b))

	dto, err := svc.MergeLists(context.Background(), shopper(), inbound.MergeListsCommand{
		ListIDs: []string{a.ID.String(), b.ID.String()},
		Name:    "Combined",
	})

	require.NoError(t, err)
	require.Len(t, dto.Items, 3, "same name with different units stays separate")

	for _, item := range dto.Items {
		if item.Name == "rice" && item.Unit == "g" {
			assert.Equal(t, 400.0, item.Amount)
		}
	}
}

func TestMergeListsRejectsForeignLists(t *testing.T) {
	lists := newMemoryListRepo()
	svc := NewService(lists, &singleRecipeRepo{}, zaptest.NewLogger(t))

	foreign := shoppinglist.New("someone-else", "Theirs", nil, []shoppinglist.Item{
		{Name: "rice", Amount: 100, Unit: "g"},
	})
	require.NoError(t, lists.Create(context.Background(), foreign))

	_, err := svc.MergeLists(context.Background(), shopper(), inbound.MergeListsCommand{
		ListIDs: []string{foreign.ID.String()},
		Name:    "Stolen",
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeShoppingListNotFound, apperrors.GetCode(err))
}

func TestUpdateItemsChecksOff(t *testing.T) {
	lists := newMemoryListRepo()
	svc := NewService(lists, &singleRecipeRepo{}, zaptest.NewLogger(t))

	list := shoppinglist.New("shopper-1", "Weekly", nil, []shoppinglist.Item{
		{Name: "milk", Amount: 1, Unit: "l"},
		{Name: "eggs", Amount: 12, Unit: "whole"},
	})
	require.NoError(t, lists.Create(context.Background(), list))

	dto, err := svc.UpdateItems(context.Background(), shopper(), list.ID, []shoppinglist.Item{
		{Name: "milk", Amount: 1, Unit: "l", Category: "dairy", Checked: true},
	})

	require.NoError(t, err)
	for _, item := range dto.Items {
		if item.Name == "milk" {
			assert.True(t, item.Checked)
		}
		if item.Name == "eggs" {
			assert.False(t, item.Checked)
		}
	}
}

func TestDeleteListScopedToOwner(t *testing.T) {
	lists := newMemoryListRepo()
	svc := NewService(lists, &singleRecipeRepo{}, zaptest.NewLogger(t))

	list := shoppinglist.New("shopper-1", "Weekly", nil, nil)
	require.NoError(t, lists.Create(context.Background(), list))

	require.Error(t, svc.DeleteList(context.Background(), user.Identity{ID: "stranger"}, list.ID))
	require.NoError(t, svc.DeleteList(context.Background(), shopper(), list.ID))
}
