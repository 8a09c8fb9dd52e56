package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "loan-calculator/internal/domain/loan"

	"github.com/redis/go-redis/v9"
)

// QuoteCache keeps computed quotes in Redis as JSON.
type QuoteCache struct{ rdb *redis.Client }

func NewQuoteCache(rdb *redis.Client) *QuoteCache { return &QuoteCache{rdb: rdb} }

type quoteEntry struct {
	MonthlyPayment       float64 `json:"monthly_payment"`
	APR                  float64 `json:"apr"`
	TotalRepayableAmount float64 `json:"total_repayable_amount"`
}

// Get returns (nil, nil) on a miss.
func (c *QuoteCache) Get(ctx context.Context, key string) (*domain.Quote, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("quote cache get: %w", err)
	}
	var e quoteEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("quote cache decode %s: %w", key, err)
	}
	return &domain.Quote{
		MonthlyPayment:       e.MonthlyPayment,
		APR:                  e.APR,
		TotalRepayableAmount: e.TotalRepayableAmount,
	}, nil
}

func (c *QuoteCache) Set(ctx context.Context, key string, q domain.Quote, ttl time.Duration) error {
	b, _ := json.Marshal(quoteEntry{
		MonthlyPayment:       q.MonthlyPayment,
		APR:                  q.APR,
		TotalRepayableAmount: q.TotalRepayableAmount,
	})
	if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		return fmt.Errorf("quote cache set: %w", err)
	}
	return nil
}
