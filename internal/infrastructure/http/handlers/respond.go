// Package handlers provides the HTTP API handlers
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cuizine/api/internal/domain/user"
	"github.com/cuizine/api/internal/infrastructure/http/middleware"
	apperrors "github.com/cuizine/api/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError writes a structured error response. Rate limit
// rejections additionally carry a Retry-After header.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err, "request failed")

	if appErr.Code == apperrors.CodeRateLimited {
		if seconds, ok := appErr.Metadata["retry_after_seconds"].(int); ok {
			c.Header("Retry-After", strconv.Itoa(seconds))
		}
	}

	_ = c.Error(appErr)
	c.JSON(appErr.StatusCode(), apperrors.ToErrorResponse(appErr, c.GetString("request_id")))
}

// identityOrAbort resolves the authenticated caller or writes 401
func identityOrAbort(c *gin.Context) (user.Identity, bool) {
	identity, exists := middleware.IdentityFrom(c)
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return user.Identity{}, false
	}
	return identity, true
}

// parseUUIDParam parses a path parameter as a UUID
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, apperrors.NewValidationError(fmt.Sprintf("%s must be a valid UUID", name)))
		return uuid.Nil, false
	}
	return id, true
}

// paginationFrom reads offset/limit query parameters with sane bounds
func paginationFrom(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return offset, limit
}
