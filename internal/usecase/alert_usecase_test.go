package usecase

import (
	"context"
	"testing"

	"github.com/ndedov/coinwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddListRemoveRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.approve(t, aliceID, "alice")

	alert, err := f.alertUC.Add(ctx, aliceID, "btc", "100000", "above")
	require.NoError(t, err)
	assert.Equal(t, "bitcoin", alert.Coin)
	assert.Equal(t, domain.DirectionAbove, alert.Direction)

	alerts, err := f.alertUC.List(ctx, aliceID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "btc", alerts[0].Symbol)
	assert.True(t, alerts[0].Price.Equal(alert.Price))

	removed, err := f.alertUC.Remove(ctx, aliceID, 1)
	require.NoError(t, err)
	assert.Equal(t, "btc", removed.Symbol)

	alerts, err = f.alertUC.List(ctx, aliceID)
	require.NoError(t, err)
	assert.Empty(t, alerts)

	// The emptied user key is dropped from the book entirely.
	_, ok := f.alerts.View(ctx)[aliceID]
	assert.False(t, ok)
}

func TestAddAuthorizationBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.alertUC.Add(ctx, strangerID, "btc", "100", "above")
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	assert.Empty(t, f.alerts.View(ctx))
}

func TestAddRequiresCoinEntitlement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.approve(t, aliceID, "alice")

	// alice only holds the seed coin btc.
	_, err := f.alertUC.Add(ctx, aliceID, "eth", "4000", "above")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, f.alerts.View(ctx))
}

func TestAddOwnerBypassesEntitlements(t *testing.T) {
	f := newFixture(t)
	_, err := f.alertUC.Add(context.Background(), ownerID, "eth", "4000", "below")
	require.NoError(t, err)
}

func TestAddUnknownSymbol(t *testing.T) {
	f := newFixture(t)
	f.approve(t, aliceID, "alice")
	_, err := f.alertUC.Add(context.Background(), aliceID, "nope", "100", "above")
	assert.ErrorIs(t, err, domain.ErrUnknownAsset)
}

func TestAddInvalidPrice(t *testing.T) {
	f := newFixture(t)
	f.approve(t, aliceID, "alice")
	_, err := f.alertUC.Add(context.Background(), aliceID, "btc", "not-a-number", "above")
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestAddAcceptsNonPositiveThreshold(t *testing.T) {
	f := newFixture(t)
	f.approve(t, aliceID, "alice")

	// Zero and negative thresholds parse; this looseness is kept on purpose.
	_, err := f.alertUC.Add(context.Background(), aliceID, "btc", "0", "below")
	assert.NoError(t, err)
	_, err = f.alertUC.Add(context.Background(), aliceID, "btc", "-5", "below")
	assert.NoError(t, err)
}

func TestAddDefaultsDirectionToAbove(t *testing.T) {
	f := newFixture(t)
	f.approve(t, aliceID, "alice")

	alert, err := f.alertUC.Add(context.Background(), aliceID, "btc", "100", "")
	require.NoError(t, err)
	assert.Equal(t, domain.DirectionAbove, alert.Direction)

	alert, err = f.alertUC.Add(context.Background(), aliceID, "btc", "100", "sideways")
	require.NoError(t, err)
	assert.Equal(t, domain.DirectionAbove, alert.Direction)
}

func TestRemoveInvalidPosition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.approve(t, aliceID, "alice")
	_, err := f.alertUC.Add(ctx, aliceID, "btc", "100", "above")
	require.NoError(t, err)

	for _, position := range []int{0, -1, 2} {
		_, err := f.alertUC.Remove(ctx, aliceID, position)
		assert.ErrorIs(t, err, domain.ErrInvalidPosition)
	}
	alerts, err := f.alertUC.List(ctx, aliceID)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestRemoveShiftsSubsequentPositions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.approve(t, aliceID, "alice")
	for _, price := range []string{"1", "2", "3"} {
		_, err := f.alertUC.Add(ctx, aliceID, "btc", price, "above")
		require.NoError(t, err)
	}

	_, err := f.alertUC.Remove(ctx, aliceID, 2)
	require.NoError(t, err)

	alerts, err := f.alertUC.List(ctx, aliceID)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "1", alerts[0].Price.String())
	assert.Equal(t, "3", alerts[1].Price.String())
}

func TestPricesChecksEntitlementPerSymbol(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.approve(t, aliceID, "alice")

	_, err := f.alertUC.Prices(ctx, aliceID, []string{"btc", "eth"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	f.grantCoin(t, aliceID, "eth")
	quotes, err := f.alertUC.Prices(ctx, aliceID, []string{"btc", "eth"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.True(t, quotes[0].Found)
	assert.Equal(t, "100000", quotes[0].Price.String())
}

func TestPricesToleratesMissingQuote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	delete(f.quotes.prices, "bitcoin")

	quotes, err := f.alertUC.Prices(ctx, ownerID, []string{"btc"})
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.False(t, quotes[0].Found)
}
