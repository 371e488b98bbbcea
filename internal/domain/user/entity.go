// Package user contains identity and subscription concepts for the domain.
// Authentication itself is owned by the external identity provider; this
// package only models what the backend needs once a request is verified.
package user

// SubscriptionTier represents a billing plan
type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierPro     SubscriptionTier = "pro"
	TierPremium SubscriptionTier = "premium"
)

// ParseTier maps a raw tier claim to a known tier, defaulting to free
func ParseTier(raw string) SubscriptionTier {
	switch SubscriptionTier(raw) {
	case TierPro:
		return TierPro
	case TierPremium:
		return TierPremium
	default:
		return TierFree
	}
}

// RateLimit returns the tier's request allowance per rate window
func (t SubscriptionTier) RateLimit() int {
	switch t {
	case TierPro:
		return 50
	case TierPremium:
		return 100
	default:
		return 10
	}
}

// MonthlyCredits returns the tier's monthly generation credit allotment
func (t SubscriptionTier) MonthlyCredits() int {
	switch t {
	case TierPro, TierPremium:
		return 100
	default:
		return 5
	}
}

// Identity is an already-authenticated caller. The ID is the identity
// provider's user ID, not an internal key.
type Identity struct {
	ID   string
	Tier SubscriptionTier
}

// Preferences holds account-level generation preferences
type Preferences struct {
	UserID              string   `json:"-"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	FavoriteCuisines    []string `json:"favorite_cuisines"`
	DislikedIngredients []string `json:"disliked_ingredients"`
	CookingSkillLevel   string   `json:"cooking_skill_level"`
	HouseholdSize       int      `json:"household_size"`
}

// Quota is the ledger's view of an account's generation allowance
type Quota struct {
	IdentityID            string
	Tier                  SubscriptionTier
	CreditsRemaining      int
	CreditsGeneratedTotal int
}
