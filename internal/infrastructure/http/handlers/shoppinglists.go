package handlers

import (
	"net/http"
	"strconv"

	"github.com/cuizine/api/internal/domain/shoppinglist"
	"github.com/cuizine/api/internal/ports/inbound"
	apperrors "github.com/cuizine/api/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShoppingListHandler exposes the shopping list endpoints
type ShoppingListHandler struct {
	service inbound.ShoppingListService
	logger  *zap.Logger
}

// NewShoppingListHandler creates a new shopping list handler
func NewShoppingListHandler(service inbound.ShoppingListService, logger *zap.Logger) *ShoppingListHandler {
	return &ShoppingListHandler{
		service: service,
		logger:  logger.Named("shoppinglist_handler"),
	}
}

// RegisterRoutes mounts the shopping list endpoints on the router group
func (h *ShoppingListHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/from-recipe/:id", h.CreateFromRecipe)
	group.POST("/merge", h.Merge)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PUT("/:id/items", h.UpdateItems)
	group.DELETE("/:id", h.Delete)
}

// CreateFromRecipe handles POST /shopping-lists/from-recipe/:id
func (h *ShoppingListHandler) CreateFromRecipe(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	recipeID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	servings, _ := strconv.Atoi(c.DefaultQuery("servings", "0"))

	dto, err := h.service.CreateFromRecipe(c.Request.Context(), identity, recipeID, servings)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto)
}

// Merge handles POST /shopping-lists/merge
func (h *ShoppingListHandler) Merge(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}

	var cmd inbound.MergeListsCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	dto, err := h.service.MergeLists(c.Request.Context(), identity, cmd)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto)
}

// List handles GET /shopping-lists
func (h *ShoppingListHandler) List(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	offset, limit := paginationFrom(c)

	lists, err := h.service.ListLists(c.Request.Context(), identity, inbound.PaginationParams{
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shopping_lists": lists})
}

// Get handles GET /shopping-lists/:id
func (h *ShoppingListHandler) Get(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	listID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	dto, err := h.service.GetList(c.Request.Context(), identity, listID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto)
}

// UpdateItems handles PUT /shopping-lists/:id/items
func (h *ShoppingListHandler) UpdateItems(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	listID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var body struct {
		Items []shoppinglist.Item `json:"items"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	dto, err := h.service.UpdateItems(c.Request.Context(), identity, listID, body.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto)
}

// Delete handles DELETE /shopping-lists/:id
func (h *ShoppingListHandler) Delete(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	listID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteList(c.Request.Context(), identity, listID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
