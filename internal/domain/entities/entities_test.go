package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceQueryString(t *testing.T) {
	q := PriceQuery{Type: AssetTypeCrypto, Symbol: "BTC"}
	assert.Equal(t, "CRYPTO:BTC", q.String())

	q = PriceQuery{Type: AssetTypeRealEstate}
	assert.Equal(t, "REAL_ESTATE:null", q.String())
}

func TestPriceQueryEquality(t *testing.T) {
	a := PriceQuery{Type: AssetTypeStock, Symbol: "AAPL"}
	b := PriceQuery{Type: AssetTypeStock, Symbol: "AAPL"}
	c := PriceQuery{Type: AssetTypeStock, Symbol: "MSFT"}

	m := PriceMap{}
	m[a] = Quote{Symbol: "AAPL"}
	_, ok := m[b]
	assert.True(t, ok)
	_, ok = m[c]
	assert.False(t, ok)
}

func TestAssetTypeHelpers(t *testing.T) {
	assert.True(t, AssetTypeCrypto.RequiresSymbol())
	assert.True(t, AssetTypeStock.RequiresSymbol())
	assert.False(t, AssetTypeGold.RequiresSymbol())
	assert.False(t, AssetTypeRealEstate.RequiresSymbol())

	assert.True(t, AssetTypeGold.HasLivePricing())
	assert.False(t, AssetTypeOther.HasLivePricing())

	assert.True(t, AssetType("GOLD").IsValid())
	assert.False(t, AssetType("BONDS").IsValid())
}

func TestPriceMapAccessors(t *testing.T) {
	quoteQuery := PriceQuery{Type: AssetTypeCrypto, Symbol: "BTC"}
	failQuery := PriceQuery{Type: AssetTypeStock, Symbol: "AAPL"}

	m := PriceMap{
		quoteQuery: Quote{Symbol: "BTC", Price: decimal.NewFromInt(45000)},
		failQuery:  PriceFailure{Symbol: "AAPL", Reason: "no price data available for AAPL"},
	}

	quote := m.QuoteFor(quoteQuery)
	require.NotNil(t, quote)
	assert.True(t, quote.Price.Equal(decimal.NewFromInt(45000)))
	assert.Nil(t, m.FailureFor(quoteQuery))

	failure := m.FailureFor(failQuery)
	require.NotNil(t, failure)
	assert.Equal(t, "no price data available for AAPL", failure.Reason)
	assert.Nil(t, m.QuoteFor(failQuery))

	absent := PriceQuery{Type: AssetTypeGold}
	assert.Nil(t, m.QuoteFor(absent))
	assert.Nil(t, m.FailureFor(absent))
}

func TestNotificationRuleShouldTrigger(t *testing.T) {
	up := NotificationRule{Direction: DirectionUp, ThresholdPercent: 10}
	assert.True(t, up.ShouldTrigger(decimal.NewFromInt(10)))
	assert.True(t, up.ShouldTrigger(decimal.NewFromInt(25)))
	assert.False(t, up.ShouldTrigger(decimal.NewFromInt(9)))
	assert.False(t, up.ShouldTrigger(decimal.NewFromInt(-15)))

	down := NotificationRule{Direction: DirectionDown, ThresholdPercent: 10}
	assert.True(t, down.ShouldTrigger(decimal.NewFromInt(-10)))
	assert.True(t, down.ShouldTrigger(decimal.NewFromInt(-40)))
	assert.False(t, down.ShouldTrigger(decimal.NewFromInt(-9)))
	assert.False(t, down.ShouldTrigger(decimal.NewFromInt(15)))
}
