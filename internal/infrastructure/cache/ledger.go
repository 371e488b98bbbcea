package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/cuizine/api/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// creditKeyTTL keeps month-scoped balance keys around slightly past the
// month boundary; the key name itself enforces the monthly reset
const creditKeyTTL = 35 * 24 * time.Hour

// debitScript atomically seeds the month's balance on first use, then
// debits it if and only if it covers the cost. Returns the resulting
// balance and whether the debit happened.
var debitScript = redis.NewScript(`
local balance = redis.call('GET', KEYS[1])
if balance == false then
    balance = tonumber(ARGV[1])
    redis.call('SET', KEYS[1], balance, 'EX', ARGV[3])
else
    balance = tonumber(balance)
end
local cost = tonumber(ARGV[2])
if balance < cost then
    return {balance, 0}
end
balance = balance - cost
redis.call('SET', KEYS[1], balance, 'EX', ARGV[3])
redis.call('INCRBY', KEYS[2], cost)
return {balance, 1}
`)

// refundScript mirrors debitScript's seeding so a refund never creates
// an unseeded, non-expiring balance key. When the month's key is gone
// (expired or rolled over) the fresh allotment already covers the
// refunded credit, so only the seed is written.
var refundScript = redis.NewScript(`
local amount = tonumber(ARGV[2])
local balance = redis.call('GET', KEYS[1])
if balance == false then
    balance = tonumber(ARGV[1])
else
    balance = tonumber(balance) + amount
end
redis.call('SET', KEYS[1], balance, 'EX', ARGV[3])
redis.call('DECRBY', KEYS[2], amount)
return balance
`)

// RedisLedger implements the counter store on Redis. Rate windows and
// credit balances are plain keys; all mutations are single round trips.
type RedisLedger struct {
	client *redis.Client
	logger *zap.Logger
	now    func() time.Time
}

var _ outbound.Ledger = (*RedisLedger)(nil)

// NewRedisLedger creates the ledger on an established client
func NewRedisLedger(client *redis.Client, logger *zap.Logger) *RedisLedger {
	return &RedisLedger{
		client: client,
		logger: logger.Named("redis-ledger"),
		now:    time.Now,
	}
}

// IncrWindow atomically increments the window counter, attaching the
// expiry only when the key is created
func (l *RedisLedger) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("increment rate window: %w", err)
	}
	return incr.Val(), nil
}

// WindowTTL reports the remaining lifetime of a rate window
func (l *RedisLedger) WindowTTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("read window ttl: %w", err)
	}
	return ttl, nil
}

// DebitCredits takes cost credits from the identity's monthly balance
func (l *RedisLedger) DebitCredits(ctx context.Context, identityID string, allotment, cost int) (int, bool, error) {
	res, err := debitScript.Run(ctx, l.client,
		[]string{l.balanceKey(identityID), l.generatedKey(identityID)},
		allotment, cost, int(creditKeyTTL.Seconds()),
	).Int64Slice()
	if err != nil {
		return 0, false, fmt.Errorf("debit credits: %w", err)
	}
	if len(res) != 2 {
		return 0, false, fmt.Errorf("debit credits: unexpected script reply")
	}
	return int(res[0]), res[1] == 1, nil
}

// RefundCredits returns credits to the monthly balance and rolls back
// the lifetime counter
func (l *RedisLedger) RefundCredits(ctx context.Context, identityID string, allotment, amount int) error {
	err := refundScript.Run(ctx, l.client,
		[]string{l.balanceKey(identityID), l.generatedKey(identityID)},
		allotment, amount, int(creditKeyTTL.Seconds()),
	).Err()
	if err != nil {
		return fmt.Errorf("refund credits: %w", err)
	}
	return nil
}

// Credits reads the current balance and lifetime counter, seeding the
// balance when the month's key does not exist yet
func (l *RedisLedger) Credits(ctx context.Context, identityID string, allotment int) (int, int, error) {
	pipe := l.client.Pipeline()
	balance := pipe.Get(ctx, l.balanceKey(identityID))
	generated := pipe.Get(ctx, l.generatedKey(identityID))
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return 0, 0, fmt.Errorf("read credits: %w", err)
	}

	remaining := allotment
	if v, err := balance.Int(); err == nil {
		remaining = v
	}
	generatedTotal := 0
	if v, err := generated.Int(); err == nil {
		generatedTotal = v
	}
	return remaining, generatedTotal, nil
}

// balanceKey scopes the credit balance to the current calendar month,
// so a fresh allotment appears at each month boundary
func (l *RedisLedger) balanceKey(identityID string) string {
	return fmt.Sprintf("credits:%s:%s", identityID, l.now().UTC().Format("2006-01"))
}

func (l *RedisLedger) generatedKey(identityID string) string {
	return fmt.Sprintf("credits:generated:%s", identityID)
}
