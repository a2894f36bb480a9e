package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/ndedov/coinwatch/internal/domain"
	"github.com/ndedov/coinwatch/internal/infra/docstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFileStore(t *testing.T) docstore.Store {
	t.Helper()
	store, err := docstore.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestAccessRepoDefaultsWhenAbsent(t *testing.T) {
	repo := NewAccessRepo(newFileStore(t), "owner-1", zap.NewNop())

	root := repo.View(context.Background())
	assert.Equal(t, "owner-1", root.Owner)
	assert.Empty(t, root.Users)
	assert.Empty(t, root.Requests)
	assert.Empty(t, root.CoinRequests)
}

func TestAccessRepoDefaultsWhenCorrupt(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, docstore.DocAccess, []byte("{not json")))

	repo := NewAccessRepo(store, "owner-1", zap.NewNop())
	root := repo.View(ctx)
	assert.Equal(t, "owner-1", root.Owner)
	assert.Empty(t, root.Users)
}

func TestAccessRepoUpdatePersists(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()
	repo := NewAccessRepo(store, "owner-1", zap.NewNop())

	err := repo.Update(ctx, func(root *domain.AccessRoot) (bool, error) {
		root.Users["42"] = &domain.User{Username: "alice", Coins: []string{"btc"}}
		return true, nil
	})
	require.NoError(t, err)

	reread := NewAccessRepo(store, "owner-1", zap.NewNop()).View(ctx)
	require.True(t, reread.HasUser("42"))
	assert.Equal(t, []string{"btc"}, reread.Users["42"].Coins)
}

func TestAccessRepoUpdateErrorLeavesStoreUntouched(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()
	repo := NewAccessRepo(store, "owner-1", zap.NewNop())

	boom := errors.New("boom")
	err := repo.Update(ctx, func(root *domain.AccessRoot) (bool, error) {
		root.Users["42"] = &domain.User{Username: "alice"}
		return true, boom
	})
	assert.ErrorIs(t, err, boom)

	_, ok, err := store.Load(ctx, docstore.DocAccess)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAlertRepoRoundTrip(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()
	repo := NewAlertRepo(store, zap.NewNop())

	alert := domain.Alert{
		Coin:      "bitcoin",
		Symbol:    "btc",
		Price:     decimal.RequireFromString("100000"),
		Direction: domain.DirectionAbove,
	}
	err := repo.Update(ctx, func(book domain.AlertBook) (bool, error) {
		book["42"] = append(book["42"], alert)
		return true, nil
	})
	require.NoError(t, err)

	book := NewAlertRepo(store, zap.NewNop()).View(ctx)
	require.Len(t, book["42"], 1)
	got := book["42"][0]
	assert.Equal(t, "bitcoin", got.Coin)
	assert.Equal(t, "btc", got.Symbol)
	assert.Equal(t, domain.DirectionAbove, got.Direction)
	assert.True(t, got.Price.Equal(alert.Price))
}

func TestAlertRepoSkipsSaveWhenUnchanged(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()
	repo := NewAlertRepo(store, zap.NewNop())

	err := repo.Update(ctx, func(book domain.AlertBook) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)

	_, ok, err := store.Load(ctx, docstore.DocAlerts)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSymbolRepoSeedsDefaults(t *testing.T) {
	repo := NewSymbolRepo(newFileStore(t), zap.NewNop())

	symbols := repo.View(context.Background())
	assert.Equal(t, "bitcoin", symbols["btc"])
	assert.Equal(t, "degen-base", symbols["degen"])
}

func TestSymbolRepoUpdateOverridesDefaults(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()
	repo := NewSymbolRepo(store, zap.NewNop())

	err := repo.Update(ctx, func(symbols map[string]string) (bool, error) {
		symbols["zzz"] = "zzz-chain"
		return true, nil
	})
	require.NoError(t, err)

	symbols := NewSymbolRepo(store, zap.NewNop()).View(ctx)
	assert.Equal(t, "zzz-chain", symbols["zzz"])
	// Defaults were persisted alongside the new entry.
	assert.Equal(t, "bitcoin", symbols["btc"])
}
