package handlers

import (
	"net/http"
	"strconv"

	"github.com/cuizine/api/internal/ports/inbound"
	apperrors "github.com/cuizine/api/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecipeHandler exposes the recipe CRUD and engagement endpoints
type RecipeHandler struct {
	service inbound.RecipeService
	logger  *zap.Logger
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(service inbound.RecipeService, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		service: service,
		logger:  logger.Named("recipe_handler"),
	}
}

// RegisterRoutes mounts the recipe endpoints on the router group
func (h *RecipeHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/search", h.Search)
	group.GET("/:id", h.Get)
	group.PATCH("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
	group.POST("/:id/like", h.Like)
	group.POST("/:id/save", h.Save)
}

// Create handles POST /recipes
func (h *RecipeHandler) Create(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}

	var cmd inbound.CreateRecipeCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	dto, err := h.service.CreateRecipe(c.Request.Context(), identity, cmd)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto)
}

// List handles GET /recipes
func (h *RecipeHandler) List(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	offset, limit := paginationFrom(c)

	list, err := h.service.ListRecipes(c.Request.Context(), identity, inbound.PaginationParams{
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// Search handles GET /recipes/search
func (h *RecipeHandler) Search(c *gin.Context) {
	offset, limit := paginationFrom(c)
	maxTime, _ := strconv.Atoi(c.DefaultQuery("max_time", "0"))

	list, err := h.service.SearchRecipes(c.Request.Context(), inbound.SearchQuery{
		Query:           c.Query("q"),
		CuisineType:     c.Query("cuisine_type"),
		MealType:        c.Query("meal_type"),
		Difficulty:      c.Query("difficulty_level"),
		MaxTotalMinutes: maxTime,
		Offset:          offset,
		Limit:           limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// Get handles GET /recipes/:id
func (h *RecipeHandler) Get(c *gin.Context) {
	recipeID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	dto, err := h.service.GetRecipe(c.Request.Context(), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto)
}

// Update handles PATCH /recipes/:id
func (h *RecipeHandler) Update(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	recipeID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var cmd inbound.UpdateRecipeCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	dto, err := h.service.UpdateRecipe(c.Request.Context(), identity, recipeID, cmd)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto)
}

// Delete handles DELETE /recipes/:id
func (h *RecipeHandler) Delete(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	recipeID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteRecipe(c.Request.Context(), identity, recipeID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Like handles POST /recipes/:id/like
func (h *RecipeHandler) Like(c *gin.Context) {
	recipeID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.LikeRecipe(c.Request.Context(), recipeID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Save handles POST /recipes/:id/save
func (h *RecipeHandler) Save(c *gin.Context) {
	recipeID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.SaveRecipe(c.Request.Context(), recipeID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
