package quota

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cuizine/api/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	args := m.Called(ctx, key, window)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLedger) WindowTTL(ctx context.Context, key string) (time.Duration, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(time.Duration), args.Error(1)
}

func (m *mockLedger) DebitCredits(ctx context.Context, identityID string, allotment, cost int) (int, bool, error) {
	args := m.Called(ctx, identityID, allotment, cost)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *mockLedger) RefundCredits(ctx context.Context, identityID string, allotment, amount int) error {
	args := m.Called(ctx, identityID, allotment, amount)
	return args.Error(0)
}

func (m *mockLedger) Credits(ctx context.Context, identityID string, allotment int) (int, int, error) {
	args := m.Called(ctx, identityID, allotment)
	return args.Int(0), args.Int(1), args.Error(2)
}

// countingLedger is an in-memory ledger used for concurrency tests
type countingLedger struct {
	mu      sync.Mutex
	counts  map[string]int64
	credits map[string]int
}

func newCountingLedger() *countingLedger {
	return &countingLedger{
		counts:  make(map[string]int64),
		credits: make(map[string]int),
	}
}

func (l *countingLedger) IncrWindow(_ context.Context, key string, _ time.Duration) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[key]++
	return l.counts[key], nil
}

func (l *countingLedger) WindowTTL(_ context.Context, _ string) (time.Duration, error) {
	return 30 * time.Second, nil
}

func (l *countingLedger) DebitCredits(_ context.Context, identityID string, allotment, cost int) (int, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	remaining, ok := l.credits[identityID]
	if !ok {
		remaining = allotment
	}
	if remaining < cost {
		return remaining, false, nil
	}
	remaining -= cost
	l.credits[identityID] = remaining
	return remaining, true, nil
}

func (l *countingLedger) RefundCredits(_ context.Context, identityID string, allotment, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	remaining, ok := l.credits[identityID]
	if !ok {
		remaining = allotment
	} else {
		remaining += amount
	}
	l.credits[identityID] = remaining
	return nil
}

func (l *countingLedger) Credits(_ context.Context, identityID string, allotment int) (int, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	remaining, ok := l.credits[identityID]
	if !ok {
		remaining = allotment
	}
	return remaining, 0, nil
}

func freeIdentity() user.Identity {
	return user.Identity{ID: "user-123", Tier: user.TierFree}
}

func TestGateAdmitsWithinLimits(t *testing.T) {
	ledger := new(mockLedger)
	ledger.On("IncrWindow", mock.Anything, "rate:user-123:free", RateWindow).Return(int64(1), nil)
	ledger.On("DebitCredits", mock.Anything, "user-123", 5, 1).Return(4, true, nil)

	gate := NewGate(ledger, zaptest.NewLogger(t))
	decision := gate.Admit(context.Background(), freeIdentity(), 1)

	assert.True(t, decision.Allowed)
	assert.Equal(t, 4, decision.Remaining)
	assert.Equal(t, ReasonAdmitted, decision.Reason)
	ledger.AssertExpectations(t)
}

func TestGateRejectsOverRateLimit(t *testing.T) {
	ledger := new(mockLedger)
	ledger.On("IncrWindow", mock.Anything, "rate:user-123:free", RateWindow).Return(int64(11), nil)
	ledger.On("WindowTTL", mock.Anything, "rate:user-123:free").Return(42*time.Second, nil)

	gate := NewGate(ledger, zaptest.NewLogger(t))
	decision := gate.Admit(context.Background(), freeIdentity(), 1)

	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonRateLimited, decision.Reason)
	assert.Equal(t, 42*time.Second, decision.RetryAfter)
	ledger.AssertNotCalled(t, "DebitCredits", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGateRejectsWhenCreditsExhausted(t *testing.T) {
	ledger := new(mockLedger)
	ledger.On("IncrWindow", mock.Anything, mock.Anything, mock.Anything).Return(int64(3), nil)
	ledger.On("DebitCredits", mock.Anything, "user-123", 5, 1).Return(0, false, nil)

	gate := NewGate(ledger, zaptest.NewLogger(t))
	decision := gate.Admit(context.Background(), freeIdentity(), 1)

	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonInsufficientCredits, decision.Reason)
	assert.Zero(t, decision.Remaining)
	assert.Zero(t, decision.RetryAfter, "credit exhaustion carries no retry hint")
}

func TestGateFailsOpenOnLedgerErrors(t *testing.T) {
	t.Run("rate window error", func(t *testing.T) {
		ledger := new(mockLedger)
		ledger.On("IncrWindow", mock.Anything, mock.Anything, mock.Anything).
			Return(int64(0), errors.New("connection refused"))

		gate := NewGate(ledger, zaptest.NewLogger(t))
		decision := gate.Admit(context.Background(), freeIdentity(), 1)

		assert.True(t, decision.Allowed)
		assert.Equal(t, RemainingUnknown, decision.Remaining)
		assert.Equal(t, ReasonDegraded, decision.Reason)
	})

	t.Run("credit debit error", func(t *testing.T) {
		ledger := new(mockLedger)
		ledger.On("IncrWindow", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
		ledger.On("DebitCredits", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(0, false, errors.New("connection refused"))

		gate := NewGate(ledger, zaptest.NewLogger(t))
		decision := gate.Admit(context.Background(), freeIdentity(), 1)

		assert.True(t, decision.Allowed)
		assert.Equal(t, ReasonDegraded, decision.Reason)
	})
}

func TestGateConcurrentAdmissionsRespectRateCap(t *testing.T) {
	ledger := newCountingLedger()
	gate := NewGate(ledger, zaptest.NewLogger(t))
	identity := user.Identity{ID: "user-burst", Tier: user.TierPro}

	const requests = 80
	var wg sync.WaitGroup
	results := make([]Decision, requests)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = gate.Admit(context.Background(), identity, 1)
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, d := range results {
		if d.Allowed {
			admitted++
		}
	}
	assert.Equal(t, identity.Tier.RateLimit(), admitted,
		"exactly the rate limit may pass within one window")
}

func TestGateCreditsNeverGoNegative(t *testing.T) {
	ledger := newCountingLedger()
	gate := NewGate(ledger, zaptest.NewLogger(t))
	identity := freeIdentity()

	admitted := 0
	for i := 0; i < user.TierFree.RateLimit(); i++ {
		if gate.Admit(context.Background(), identity, 1).Allowed {
			admitted++
		}
	}

	assert.Equal(t, user.TierFree.MonthlyCredits(), admitted)
	remaining, _, err := gate.Credits(context.Background(), identity)
	assert.NoError(t, err)
	assert.Zero(t, remaining)
}

func TestGateRefundRestoresCredits(t *testing.T) {
	ledger := newCountingLedger()
	gate := NewGate(ledger, zaptest.NewLogger(t))
	identity := freeIdentity()

	decision := gate.Admit(context.Background(), identity, 1)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 4, decision.Remaining)

	gate.Refund(context.Background(), identity, 1)
	remaining, _, err := gate.Credits(context.Background(), identity)
	assert.NoError(t, err)
	assert.Equal(t, 5, remaining)
}
