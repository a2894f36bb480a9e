package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// QuoteSource is the external price feed. Prices issues one batched lookup
// and may return a partial map: identifiers without a quote are simply absent.
type QuoteSource interface {
	Prices(ctx context.Context, ids []string) (map[string]decimal.Decimal, error)
	Price(ctx context.Context, id string) (decimal.Decimal, bool, error)
}

// Notifier delivers an outbound message to a user. Delivery is best-effort;
// callers log failures and never retry.
type Notifier interface {
	Notify(userID string, text string) error
}
