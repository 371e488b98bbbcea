// Package quota composes rate-window and credit checks into a single
// admission decision made before any generation call.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/cuizine/api/internal/domain/user"
	"github.com/cuizine/api/internal/ports/outbound"
	"go.uber.org/zap"
)

// RateWindow is the sliding window over which request counts are capped
const RateWindow = 60 * time.Second

// RemainingUnknown marks a decision made while the ledger was unreachable
const RemainingUnknown = -1

// Reason explains why a request was admitted or rejected
type Reason string

const (
	ReasonAdmitted            Reason = "admitted"
	ReasonRateLimited         Reason = "rate_limited"
	ReasonInsufficientCredits Reason = "insufficient_credits"
	ReasonDegraded            Reason = "ledger_unreachable"
)

// Decision is the outcome of an admission check
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
	Reason     Reason
}

// Gate admits or rejects generation requests against two independent
// limits: a per-tier rate window and a monthly credit balance. The two
// rejections are distinguishable so callers can tell "slow down" from
// "upgrade your plan".
type Gate struct {
	ledger outbound.Ledger
	logger *zap.Logger
}

// NewGate creates a quota gate backed by the shared ledger store
func NewGate(ledger outbound.Ledger, logger *zap.Logger) *Gate {
	return &Gate{
		ledger: ledger,
		logger: logger.Named("quota-gate"),
	}
}

// Admit checks both limits and, on success, debits cost credits
// atomically. If the ledger store is unreachable the gate fails open:
// generation availability wins over strict enforcement.
func (g *Gate) Admit(ctx context.Context, identity user.Identity, cost int) Decision {
	if cost <= 0 {
		cost = 1
	}

	rateKey := fmt.Sprintf("rate:%s:%s", identity.ID, identity.Tier)
	limit := identity.Tier.RateLimit()

	count, err := g.ledger.IncrWindow(ctx, rateKey, RateWindow)
	if err != nil {
		return g.failOpen(identity, "rate window increment", err)
	}
	if count > int64(limit) {
		retryAfter, ttlErr := g.ledger.WindowTTL(ctx, rateKey)
		if ttlErr != nil || retryAfter <= 0 {
			retryAfter = RateWindow
		}
		g.logger.Warn("rate limit exceeded",
			zap.String("identity", identity.ID),
			zap.String("tier", string(identity.Tier)),
			zap.Int64("count", count),
			zap.Int("limit", limit),
		)
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: retryAfter,
			Reason:     ReasonRateLimited,
		}
	}

	allotment := identity.Tier.MonthlyCredits()
	remaining, ok, err := g.ledger.DebitCredits(ctx, identity.ID, allotment, cost)
	if err != nil {
		return g.failOpen(identity, "credit debit", err)
	}
	if !ok {
		g.logger.Info("credits exhausted",
			zap.String("identity", identity.ID),
			zap.String("tier", string(identity.Tier)),
		)
		return Decision{
			Allowed:   false,
			Remaining: remaining,
			Reason:    ReasonInsufficientCredits,
		}
	}

	return Decision{
		Allowed:   true,
		Remaining: remaining,
		Reason:    ReasonAdmitted,
	}
}

// Refund returns credits after a generation that produced no usable
// artifact. Best effort; a lost refund is not transactionally linked to
// concurrent debits.
func (g *Gate) Refund(ctx context.Context, identity user.Identity, amount int) {
	if amount <= 0 {
		amount = 1
	}
	if err := g.ledger.RefundCredits(ctx, identity.ID, identity.Tier.MonthlyCredits(), amount); err != nil {
		g.logger.Warn("credit refund failed",
			zap.String("identity", identity.ID),
			zap.Error(err),
		)
	}
}

// Credits reports the identity's current allowance
func (g *Gate) Credits(ctx context.Context, identity user.Identity) (remaining, generatedTotal int, err error) {
	return g.ledger.Credits(ctx, identity.ID, identity.Tier.MonthlyCredits())
}

func (g *Gate) failOpen(identity user.Identity, op string, err error) Decision {
	g.logger.Error("ledger unreachable, admitting request in degraded mode",
		zap.String("identity", identity.ID),
		zap.String("operation", op),
		zap.Error(err),
	)
	return Decision{
		Allowed:   true,
		Remaining: RemainingUnknown,
		Reason:    ReasonDegraded,
	}
}
