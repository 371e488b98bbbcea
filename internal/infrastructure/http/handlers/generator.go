package handlers

import (
	"net/http"

	"github.com/cuizine/api/internal/infrastructure/monitoring"
	"github.com/cuizine/api/internal/ports/inbound"
	apperrors "github.com/cuizine/api/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GeneratorHandler exposes the quota-gated generation endpoints
type GeneratorHandler struct {
	service inbound.GeneratorService
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewGeneratorHandler creates a new generator handler
func NewGeneratorHandler(service inbound.GeneratorService, metrics *monitoring.Metrics, logger *zap.Logger) *GeneratorHandler {
	return &GeneratorHandler{
		service: service,
		metrics: metrics,
		logger:  logger.Named("generator_handler"),
	}
}

// generationOutcome maps a service error to its metric label
func generationOutcome(err error) string {
	if err == nil {
		return monitoring.OutcomeSuccess
	}
	switch apperrors.GetCode(err) {
	case apperrors.CodeRateLimited:
		return monitoring.OutcomeRateLimited
	case apperrors.CodeInsufficientCredits:
		return monitoring.OutcomeInsufficientCredits
	case apperrors.CodeBackendUnavailable:
		return monitoring.OutcomeBackendUnavailable
	case apperrors.CodeInvalidGenerationOutput:
		return monitoring.OutcomeInvalidOutput
	default:
		return monitoring.OutcomeError
	}
}

// RegisterRoutes mounts the generator endpoints on the router group
func (h *GeneratorHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/generate", h.Generate)
	group.POST("/regenerate/:id", h.Regenerate)
	group.GET("/credits", h.Credits)
}

// Generate handles POST /generator/generate
func (h *GeneratorHandler) Generate(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}

	var cmd inbound.GenerateCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	result, err := h.service.Generate(c.Request.Context(), identity, cmd)
	h.metrics.RecordGeneration(string(identity.Tier), generationOutcome(err))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Regenerate handles POST /generator/regenerate/:id
func (h *GeneratorHandler) Regenerate(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	recipeID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Regenerate(c.Request.Context(), identity, recipeID)
	h.metrics.RecordGeneration(string(identity.Tier), generationOutcome(err))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Credits handles GET /generator/credits
func (h *GeneratorHandler) Credits(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}

	credits, err := h.service.Credits(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, credits)
}
