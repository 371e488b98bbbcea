package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cuizine/api/internal/domain/user"
	"github.com/cuizine/api/internal/infrastructure/http/middleware"
	"github.com/cuizine/api/internal/infrastructure/monitoring"
	"github.com/cuizine/api/internal/ports/inbound"
	apperrors "github.com/cuizine/api/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

var (
	metricsOnce sync.Once
	testMetrics *monitoring.Metrics
)

func sharedMetrics() *monitoring.Metrics {
	metricsOnce.Do(func() {
		testMetrics = monitoring.NewMetrics()
	})
	return testMetrics
}

// asIdentity injects an authenticated caller for handler tests
func asIdentity(identity user.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetIdentity(c, identity)
		c.Next()
	}
}

type stubGeneratorService struct {
	generateResult *inbound.GenerationResult
	generateErr    error
	credits        *inbound.CreditsDTO
}

func (s *stubGeneratorService) Generate(ctx context.Context, identity user.Identity, cmd inbound.GenerateCommand) (*inbound.GenerationResult, error) {
	return s.generateResult, s.generateErr
}

func (s *stubGeneratorService) Regenerate(ctx context.Context, identity user.Identity, recipeID uuid.UUID) (*inbound.GenerationResult, error) {
	return s.generateResult, s.generateErr
}

func (s *stubGeneratorService) Credits(ctx context.Context, identity user.Identity) (*inbound.CreditsDTO, error) {
	return s.credits, nil
}

func newGeneratorRouter(t *testing.T, service inbound.GeneratorService, identity user.Identity) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/generator")
	group.Use(asIdentity(identity))
	NewGeneratorHandler(service, sharedMetrics(), zaptest.NewLogger(t)).RegisterRoutes(group)
	return router
}

func TestGenerateReturnsCreatedRecipe(t *testing.T) {
	service := &stubGeneratorService{
		generateResult: &inbound.GenerationResult{
			Recipe:           &inbound.RecipeDTO{ID: uuid.New().String(), Title: "Pad Thai"},
			CreditsRemaining: 4,
			GenerationID:     uuid.New().String(),
		},
	}
	router := newGeneratorRouter(t, service, user.Identity{ID: "user_1", Tier: user.TierFree})

	body := bytes.NewBufferString(`{"recipe_type":"custom","ingredients":["tofu"]}`)
	req := httptest.NewRequest(http.MethodPost, "/generator/generate", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pad Thai")
	assert.Contains(t, rec.Body.String(), `"credits_remaining":4`)
}

func TestGenerateRateLimitedCarriesRetryAfter(t *testing.T) {
	service := &stubGeneratorService{
		generateErr: apperrors.NewRateLimitedError(10, 42*time.Second),
	}
	router := newGeneratorRouter(t, service, user.Identity{ID: "user_1", Tier: user.TierFree})

	body := bytes.NewBufferString(`{"recipe_type":"random"}`)
	req := httptest.NewRequest(http.MethodPost, "/generator/generate", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "42", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), string(apperrors.CodeRateLimited))
}

func TestGenerateInsufficientCreditsIsForbidden(t *testing.T) {
	service := &stubGeneratorService{
		generateErr: apperrors.NewInsufficientCreditsError("free"),
	}
	router := newGeneratorRouter(t, service, user.Identity{ID: "user_1", Tier: user.TierFree})

	body := bytes.NewBufferString(`{"recipe_type":"random"}`)
	req := httptest.NewRequest(http.MethodPost, "/generator/generate", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), string(apperrors.CodeInsufficientCredits))
}

func TestGenerateMalformedBodyRejected(t *testing.T) {
	router := newGeneratorRouter(t, &stubGeneratorService{}, user.Identity{ID: "user_1", Tier: user.TierFree})

	req := httptest.NewRequest(http.MethodPost, "/generator/generate", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegenerateRejectsMalformedID(t *testing.T) {
	router := newGeneratorRouter(t, &stubGeneratorService{}, user.Identity{ID: "user_1", Tier: user.TierFree})

	req := httptest.NewRequest(http.MethodPost, "/generator/regenerate/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCredits(t *testing.T) {
	service := &stubGeneratorService{
		credits: &inbound.CreditsDTO{Remaining: 97, Total: 100, SubscriptionTier: "pro"},
	}
	router := newGeneratorRouter(t, service, user.Identity{ID: "user_1", Tier: user.TierPro})

	req := httptest.NewRequest(http.MethodGet, "/generator/credits", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"remaining":97,"total":100,"subscription_tier":"pro"}`, rec.Body.String())
}
