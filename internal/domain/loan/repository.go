package loan

import (
	"context"
	"time"
)

type ProductRepository interface {
	GetByCode(ctx context.Context, code string) (*Product, error)
}

// QuoteCache stores successful quotes keyed by a request fingerprint.
// A miss is reported as (nil, nil).
type QuoteCache interface {
	Get(ctx context.Context, key string) (*Quote, error)
	Set(ctx context.Context, key string, q Quote, ttl time.Duration) error
}
