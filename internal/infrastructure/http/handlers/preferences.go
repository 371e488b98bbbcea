package handlers

import (
	"net/http"

	"github.com/cuizine/api/internal/domain/user"
	"github.com/cuizine/api/internal/ports/inbound"
	apperrors "github.com/cuizine/api/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PreferencesHandler exposes the account preferences endpoints
type PreferencesHandler struct {
	service inbound.PreferencesService
	logger  *zap.Logger
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(service inbound.PreferencesService, logger *zap.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		service: service,
		logger:  logger.Named("preferences_handler"),
	}
}

// RegisterRoutes mounts the preferences endpoints on the router group
func (h *PreferencesHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.Get)
	group.PUT("", h.Put)
}

// Get handles GET /preferences
func (h *PreferencesHandler) Get(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}

	prefs, err := h.service.Get(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// Put handles PUT /preferences
func (h *PreferencesHandler) Put(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}

	var prefs user.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	updated, err := h.service.Put(c.Request.Context(), identity, prefs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
