package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAlertSatisfied(t *testing.T) {
	tests := []struct {
		name      string
		direction Direction
		threshold string
		quote     string
		want      bool
	}{
		{"above met when greater", DirectionAbove, "100", "101", true},
		{"above met at threshold", DirectionAbove, "100", "100", true},
		{"above not met below", DirectionAbove, "100", "99.99", false},
		{"below met when lower", DirectionBelow, "100", "99", true},
		{"below met at threshold", DirectionBelow, "100", "100", true},
		{"below not met above", DirectionBelow, "100", "100.01", false},
		{"negative threshold above", DirectionAbove, "-5", "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := Alert{
				Price:     decimal.RequireFromString(tt.threshold),
				Direction: tt.direction,
			}
			got := alert.Satisfied(decimal.RequireFromString(tt.quote))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, DirectionBelow, ParseDirection("below"))
	assert.Equal(t, DirectionBelow, ParseDirection(" BELOW "))
	assert.Equal(t, DirectionAbove, ParseDirection("above"))
	assert.Equal(t, DirectionAbove, ParseDirection(""))
	assert.Equal(t, DirectionAbove, ParseDirection("sideways"))
}

func TestAlertBookCoinIDsDeduplicates(t *testing.T) {
	book := AlertBook{
		"1": {{Coin: "bitcoin"}, {Coin: "ethereum"}},
		"2": {{Coin: "bitcoin"}},
	}
	ids := book.CoinIDs()
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "bitcoin")
	assert.Contains(t, ids, "ethereum")
}

func TestAccessRootEntitled(t *testing.T) {
	root := &AccessRoot{
		Owner: "owner",
		Users: map[string]*User{
			"alice": {Coins: []string{"btc"}},
		},
	}

	assert.True(t, root.Entitled("owner", "anything"))
	assert.True(t, root.Entitled("alice", "btc"))
	assert.False(t, root.Entitled("alice", "eth"))
	assert.False(t, root.Entitled("stranger", "btc"))
}
