package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionAbove Direction = "above"
	DirectionBelow Direction = "below"
)

// ParseDirection normalizes a user-supplied direction. Anything other than
// "below" falls back to "above", matching the permissive command syntax.
func ParseDirection(s string) Direction {
	if strings.ToLower(strings.TrimSpace(s)) == string(DirectionBelow) {
		return DirectionBelow
	}
	return DirectionAbove
}

// Alert is a one-shot price threshold watch. Coin is the quote source's
// canonical identifier, Symbol the short display form the user typed.
type Alert struct {
	Coin      string          `json:"coin"`
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Direction Direction       `json:"direction"`
}

// Satisfied reports whether quote crosses the alert's threshold.
func (a Alert) Satisfied(quote decimal.Decimal) bool {
	cmp := quote.Cmp(a.Price)
	if a.Direction == DirectionBelow {
		return cmp <= 0
	}
	return cmp >= 0
}

// AlertBook maps a user identifier to their alerts in creation order. The
// 1-based position in the slice is the user-facing removal handle.
type AlertBook map[string][]Alert

// CoinIDs returns the distinct canonical identifiers referenced by any alert
// in the book, so one batched quote lookup covers every user.
func (b AlertBook) CoinIDs() []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(b))
	for _, alerts := range b {
		for _, alert := range alerts {
			if _, ok := seen[alert.Coin]; ok {
				continue
			}
			seen[alert.Coin] = struct{}{}
			ids = append(ids, alert.Coin)
		}
	}
	return ids
}
