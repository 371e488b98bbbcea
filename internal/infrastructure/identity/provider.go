// Package identity mirrors credit usage back to the external auth
// provider so client sessions can display fresh balances.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cuizine/api/internal/infrastructure/config"
	"github.com/cuizine/api/internal/ports/outbound"
	"go.uber.org/zap"
)

// HTTPProvider pushes credit metadata over the provider's REST API.
// Quota enforcement never reads this back; it exists for display only.
type HTTPProvider struct {
	baseURL    string
	serviceKey string
	client     *http.Client
	logger     *zap.Logger
}

var _ outbound.IdentityProvider = (*HTTPProvider)(nil)

// NewProvider creates the provider adapter. When no base URL is
// configured a no-op provider is returned, which keeps local
// development free of external dependencies.
func NewProvider(cfg *config.IdentityConfig, logger *zap.Logger) outbound.IdentityProvider {
	if cfg.BaseURL == "" {
		logger.Info("identity provider not configured, credit sync disabled")
		return NoopProvider{}
	}
	return &HTTPProvider{
		baseURL:    cfg.BaseURL,
		serviceKey: cfg.ServiceKey,
		client: &http.Client{
			Timeout: cfg.SyncTimeout,
		},
		logger: logger.Named("identity-provider"),
	}
}

type creditMetadata struct {
	RecipeCredits    int `json:"recipe_credits"`
	RecipesGenerated int `json:"recipes_generated"`
}

// SyncCreditUsage writes the balance into the user's public metadata
func (p *HTTPProvider) SyncCreditUsage(ctx context.Context, userID string, remaining, generatedTotal int) error {
	body, err := json.Marshal(map[string]creditMetadata{
		"public_metadata": {
			RecipeCredits:    remaining,
			RecipesGenerated: generatedTotal,
		},
	})
	if err != nil {
		return fmt.Errorf("marshal credit metadata: %w", err)
	}

	url := fmt.Sprintf("%s/users/%s/metadata", p.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create metadata request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.serviceKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("metadata request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("metadata request rejected with status %d", resp.StatusCode)
	}
	return nil
}

// NoopProvider discards credit sync calls
type NoopProvider struct{}

// SyncCreditUsage does nothing
func (NoopProvider) SyncCreditUsage(context.Context, string, int, int) error { return nil }
