package usecase

import (
	"context"
	"testing"

	"github.com/ndedov/coinwatch/internal/infra/docstore"
	"github.com/ndedov/coinwatch/internal/repo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	ownerID    = "100"
	aliceID    = "200"
	bobID      = "300"
	strangerID = "999"
)

type fakeQuotes struct {
	prices map[string]decimal.Decimal
	err    error
	calls  int
}

func (f *fakeQuotes) Prices(_ context.Context, ids []string) (map[string]decimal.Decimal, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]decimal.Decimal)
	for _, id := range ids {
		if price, ok := f.prices[id]; ok {
			out[id] = price
		}
	}
	return out, nil
}

func (f *fakeQuotes) Price(ctx context.Context, id string) (decimal.Decimal, bool, error) {
	prices, err := f.Prices(ctx, []string{id})
	if err != nil {
		return decimal.Decimal{}, false, err
	}
	price, ok := prices[id]
	return price, ok, nil
}

type notification struct {
	userID string
	text   string
}

type fakeNotifier struct {
	sent []notification
	err  error
}

func (f *fakeNotifier) Notify(userID, text string) error {
	f.sent = append(f.sent, notification{userID: userID, text: text})
	return f.err
}

type fixture struct {
	access   *repo.AccessRepo
	alerts   *repo.AlertRepo
	registry *RegistryUsecase
	quotes   *fakeQuotes
	notifier *fakeNotifier
	accessUC *AccessUsecase
	alertUC  *AlertUsecase
	store    docstore.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := docstore.NewFileStore(t.TempDir())
	require.NoError(t, err)

	logger := zap.NewNop()
	quotes := &fakeQuotes{prices: map[string]decimal.Decimal{
		"bitcoin":  decimal.RequireFromString("100000"),
		"ethereum": decimal.RequireFromString("4000"),
	}}
	notifier := &fakeNotifier{}

	accessRepo := repo.NewAccessRepo(store, ownerID, logger)
	alertRepo := repo.NewAlertRepo(store, logger)
	symbolRepo := repo.NewSymbolRepo(store, logger)

	registry := NewRegistryUsecase(symbolRepo, accessRepo, quotes, logger)
	registry.Reload(context.Background())

	return &fixture{
		access:   accessRepo,
		alerts:   alertRepo,
		registry: registry,
		quotes:   quotes,
		notifier: notifier,
		accessUC: NewAccessUsecase(accessRepo, registry, notifier, "btc", logger),
		alertUC:  NewAlertUsecase(accessRepo, alertRepo, registry, quotes, logger),
		store:    store,
	}
}

// approve walks a user through the full request/approve workflow.
func (f *fixture) approve(t *testing.T, userID, username string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.accessUC.RequestAccess(ctx, userID, username))
	require.NoError(t, f.accessUC.Approve(ctx, ownerID, userID))
}

func (f *fixture) grantCoin(t *testing.T, userID, symbol string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.accessUC.RequestCoin(ctx, userID, "user", symbol))
	require.NoError(t, f.accessUC.ApproveCoin(ctx, ownerID, userID, symbol))
}
