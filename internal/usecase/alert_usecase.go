package usecase

import (
	"context"
	"strings"

	"github.com/ndedov/coinwatch/internal/domain"
	"github.com/ndedov/coinwatch/internal/repo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AlertUsecase implements the alert lifecycle: create, list and remove.
// Alerts have no update-in-place; changing a threshold is remove-then-add.
type AlertUsecase struct {
	access   *repo.AccessRepo
	alerts   *repo.AlertRepo
	registry *RegistryUsecase
	quotes   domain.QuoteSource
	logger   *zap.Logger
}

func NewAlertUsecase(access *repo.AccessRepo, alerts *repo.AlertRepo, registry *RegistryUsecase, quotes domain.QuoteSource, logger *zap.Logger) *AlertUsecase {
	return &AlertUsecase{access: access, alerts: alerts, registry: registry, quotes: quotes, logger: logger}
}

// Add appends a one-shot alert. Any decimal parses as a threshold, zero and
// negative included; that looseness is inherited from the previous bot and
// kept as-is.
func (u *AlertUsecase) Add(ctx context.Context, userID, symbol, priceInput, direction string) (domain.Alert, error) {
	root := u.access.View(ctx)
	if !root.IsOwner(userID) && !root.HasUser(userID) {
		return domain.Alert{}, domain.ErrNotAuthorized
	}

	symbol = normalizeSymbol(symbol)
	coinID, ok := u.registry.Resolve(symbol)
	if !ok {
		return domain.Alert{}, domain.ErrUnknownAsset
	}
	if !root.Entitled(userID, symbol) {
		return domain.Alert{}, domain.ErrForbidden
	}

	price, err := decimal.NewFromString(strings.TrimSpace(priceInput))
	if err != nil {
		return domain.Alert{}, domain.ErrInvalidPrice
	}

	alert := domain.Alert{
		Coin:      coinID,
		Symbol:    symbol,
		Price:     price,
		Direction: domain.ParseDirection(direction),
	}
	err = u.alerts.Update(ctx, func(book domain.AlertBook) (bool, error) {
		book[userID] = append(book[userID], alert)
		return true, nil
	})
	if err != nil {
		return domain.Alert{}, err
	}

	u.logger.Info("alert added",
		zap.String("user_id", userID),
		zap.String("symbol", symbol),
		zap.String("price", price.String()),
		zap.String("direction", string(alert.Direction)),
	)
	return alert, nil
}

// List returns the user's alerts in creation order. The 1-based index shown
// to the user is the handle /remove takes.
func (u *AlertUsecase) List(ctx context.Context, userID string) ([]domain.Alert, error) {
	root := u.access.View(ctx)
	if !root.IsOwner(userID) && !root.HasUser(userID) {
		return nil, domain.ErrNotAuthorized
	}
	return u.alerts.View(ctx)[userID], nil
}

// Remove deletes the alert at the 1-based position, validated against the
// freshly loaded sequence inside the store's critical section. An emptied
// user disappears from the book instead of lingering as an empty list.
func (u *AlertUsecase) Remove(ctx context.Context, userID string, position int) (domain.Alert, error) {
	root := u.access.View(ctx)
	if !root.IsOwner(userID) && !root.HasUser(userID) {
		return domain.Alert{}, domain.ErrNotAuthorized
	}

	var removed domain.Alert
	err := u.alerts.Update(ctx, func(book domain.AlertBook) (bool, error) {
		alerts := book[userID]
		if position < 1 || position > len(alerts) {
			return false, domain.ErrInvalidPosition
		}
		removed = alerts[position-1]
		alerts = append(alerts[:position-1], alerts[position:]...)
		if len(alerts) == 0 {
			delete(book, userID)
		} else {
			book[userID] = alerts
		}
		return true, nil
	})
	if err != nil {
		return domain.Alert{}, err
	}
	return removed, nil
}

// Quote is one /price result line.
type Quote struct {
	Symbol string
	Price  decimal.Decimal
	Found  bool
}

// Prices resolves and fetches current quotes for the given symbols in one
// batched call. Non-owners must be entitled to every requested symbol.
// Partial upstream results surface as Found=false entries.
func (u *AlertUsecase) Prices(ctx context.Context, userID string, symbols []string) ([]Quote, error) {
	root := u.access.View(ctx)
	if !root.IsOwner(userID) && !root.HasUser(userID) {
		return nil, domain.ErrNotAuthorized
	}

	ids := make([]string, 0, len(symbols))
	normalized := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		symbol = normalizeSymbol(symbol)
		coinID, ok := u.registry.Resolve(symbol)
		if !ok {
			return nil, domain.ErrUnknownAsset
		}
		if !root.Entitled(userID, symbol) {
			return nil, domain.ErrForbidden
		}
		normalized = append(normalized, symbol)
		ids = append(ids, coinID)
	}

	prices, err := u.quotes.Prices(ctx, ids)
	if err != nil {
		return nil, err
	}

	quotes := make([]Quote, 0, len(normalized))
	for i, symbol := range normalized {
		price, found := prices[ids[i]]
		quotes = append(quotes, Quote{Symbol: symbol, Price: price, Found: found})
	}
	return quotes, nil
}
