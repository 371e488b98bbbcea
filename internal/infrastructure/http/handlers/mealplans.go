package handlers

import (
	"net/http"

	"github.com/cuizine/api/internal/infrastructure/monitoring"
	"github.com/cuizine/api/internal/ports/inbound"
	apperrors "github.com/cuizine/api/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MealPlanHandler exposes the meal plan endpoints
type MealPlanHandler struct {
	service inbound.MealPlanService
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewMealPlanHandler creates a new meal plan handler
func NewMealPlanHandler(service inbound.MealPlanService, metrics *monitoring.Metrics, logger *zap.Logger) *MealPlanHandler {
	return &MealPlanHandler{
		service: service,
		metrics: metrics,
		logger:  logger.Named("mealplan_handler"),
	}
}

// RegisterRoutes mounts the meal plan endpoints on the router group
func (h *MealPlanHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("", h.Generate)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.DELETE("/:id", h.Delete)
}

// Generate handles POST /meal-plans
func (h *MealPlanHandler) Generate(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}

	var cmd inbound.PlanCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	dto, err := h.service.GeneratePlan(c.Request.Context(), identity, cmd)
	if err != nil {
		h.metrics.RecordPlanBuild(monitoring.OutcomeError)
		respondError(c, err)
		return
	}
	h.metrics.RecordPlanBuild(monitoring.OutcomeSuccess)

	c.JSON(http.StatusCreated, dto)
}

// List handles GET /meal-plans
func (h *MealPlanHandler) List(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	offset, limit := paginationFrom(c)

	list, err := h.service.ListPlans(c.Request.Context(), identity, inbound.PaginationParams{
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// Get handles GET /meal-plans/:id
func (h *MealPlanHandler) Get(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	planID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	dto, err := h.service.GetPlan(c.Request.Context(), identity, planID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto)
}

// Delete handles DELETE /meal-plans/:id
func (h *MealPlanHandler) Delete(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	planID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePlan(c.Request.Context(), identity, planID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
