package risk

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-service/folio_service/internal/domain/entities"
	"github.com/folio-service/folio_service/internal/domain/services/valuation"
)

func strPtr(s string) *string { return &s }

func position(t entities.AssetType, symbol string, invested, value float64) entities.EnrichedAsset {
	var sym *string
	if symbol != "" {
		sym = strPtr(symbol)
	}
	inv := decimal.NewFromFloat(invested)
	val := decimal.NewFromFloat(value)
	pl := val.Sub(inv)
	plPct := decimal.Zero
	if !inv.IsZero() {
		plPct = pl.Div(inv).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return entities.EnrichedAsset{
		ID:                uuid.New(),
		Type:              t,
		Symbol:            sym,
		TotalInvested:     inv,
		TotalValue:        val,
		ProfitLoss:        pl,
		ProfitLossPercent: plPct,
	}
}

func assess(positions ...entities.EnrichedAsset) *entities.RiskAssessment {
	return Assess(positions, valuation.Summarize(positions))
}

func TestAssessEmptyPortfolio(t *testing.T) {
	result := Assess(nil, entities.EmptyPortfolioSummary())
	assert.Equal(t, 50, result.RiskScore)
	assert.Empty(t, result.ConcentrationWarnings)
	assert.Empty(t, result.VolatilityAlerts)
	assert.NotEmpty(t, result.Recommendations)
}

func TestAssessAllCryptoSingleAsset(t *testing.T) {
	// 50 base +30 crypto tier +15 single type +15 dominant position = 110,
	// clamped to 100
	result := assess(position(entities.AssetTypeCrypto, "BTC", 10000, 12000))
	assert.Equal(t, 100, result.RiskScore)
}

func TestAssessCryptoTiersAreExclusive(t *testing.T) {
	// crypto at 40% fires only the >30% tier (+20), not >15% as well
	result := assess(
		position(entities.AssetTypeCrypto, "BTC", 4000, 4000),
		position(entities.AssetTypeStock, "AAPL", 3000, 3000),
		position(entities.AssetTypeGold, "XAU", 3000, 3000),
	)
	// 50 +20 crypto tier; 3 types, 3 symbols, max share 40% > 30 -> +5
	assert.Equal(t, 75, result.RiskScore)
}

func TestAssessDiversifiedPortfolioScoresLower(t *testing.T) {
	result := assess(
		position(entities.AssetTypeCrypto, "BTC", 1000, 1000),
		position(entities.AssetTypeStock, "AAPL", 2000, 2000),
		position(entities.AssetTypeStock, "MSFT", 2000, 2000),
		position(entities.AssetTypeGold, "XAU", 2000, 2000),
		position(entities.AssetTypeRealEstate, "", 2000, 2000),
		position(entities.AssetTypeOther, "", 1000, 1000),
	)
	// 50, crypto 10% no tier, 5 types -10, 4 tickers, max share 20%
	assert.Equal(t, 40, result.RiskScore)
}

func TestAssessSymbollessPositionsNotCountedAsSymbols(t *testing.T) {
	result := assess(
		position(entities.AssetTypeCrypto, "BTC", 2000, 2000),
		position(entities.AssetTypeStock, "AAPL", 2000, 2000),
		position(entities.AssetTypeGold, "", 2000, 2000),
		position(entities.AssetTypeRealEstate, "", 2000, 2000),
		position(entities.AssetTypeOther, "", 2000, 2000),
	)
	// 50 +10 crypto tier, 5 types -10; only BTC and AAPL carry tickers, so
	// 2 symbols across 5 positions -> +10
	assert.Equal(t, 60, result.RiskScore)
}

func TestAssessFewSymbolsManyPositions(t *testing.T) {
	result := assess(
		position(entities.AssetTypeCrypto, "BTC", 1000, 1000),
		position(entities.AssetTypeCrypto, "BTC", 1000, 1000),
		position(entities.AssetTypeCrypto, "ETH", 1000, 1000),
	)
	// 50 +30 crypto +15 single type +10 few symbols; max share 33% > 30 -> +5
	assert.Equal(t, 100, result.RiskScore)
}

func TestAssessScoreAlwaysClamped(t *testing.T) {
	portfolios := [][]entities.EnrichedAsset{
		{position(entities.AssetTypeCrypto, "DOGE", 100, 5000)},
		{position(entities.AssetTypeOther, "", 100, 100)},
		{
			position(entities.AssetTypeCrypto, "BTC", 100, 100),
			position(entities.AssetTypeStock, "AAPL", 100, 100),
			position(entities.AssetTypeGold, "XAU", 100, 100),
			position(entities.AssetTypeRealEstate, "", 100, 100),
			position(entities.AssetTypeOther, "", 100, 100),
		},
	}
	for _, positions := range portfolios {
		result := Assess(positions, valuation.Summarize(positions))
		assert.GreaterOrEqual(t, result.RiskScore, 0)
		assert.LessOrEqual(t, result.RiskScore, 100)
	}
}

func TestAssessConcentrationWarnings(t *testing.T) {
	result := assess(
		position(entities.AssetTypeCrypto, "BTC", 6000, 6000),
		position(entities.AssetTypeStock, "AAPL", 4000, 4000),
	)

	require.NotEmpty(t, result.ConcentrationWarnings)
	assert.Contains(t, result.ConcentrationWarnings[0], "BTC")
	assert.Contains(t, result.ConcentrationWarnings[0], "60")

	found := false
	for _, w := range result.ConcentrationWarnings {
		if w == "Crypto allocation is 60%, above the 50% threshold" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAssessInsufficientDiversificationWarning(t *testing.T) {
	result := assess(position(entities.AssetTypeStock, "AAPL", 1000, 1000))

	found := false
	for _, w := range result.ConcentrationWarnings {
		if w == "Insufficient diversification: fewer than 2 asset types above 5%" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAssessRealEstateConcentrationWarning(t *testing.T) {
	result := assess(
		position(entities.AssetTypeRealEstate, "", 7000, 7000),
		position(entities.AssetTypeStock, "AAPL", 3000, 3000),
	)

	found := false
	for _, w := range result.ConcentrationWarnings {
		if w == "Real estate allocation is 70%, above the 60% threshold" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAssessMemeCoinAlert(t *testing.T) {
	result := assess(
		position(entities.AssetTypeCrypto, "DOGE", 1000, 1000),
		position(entities.AssetTypeStock, "AAPL", 9000, 9000),
	)

	require.NotEmpty(t, result.VolatilityAlerts)
	assert.Contains(t, result.VolatilityAlerts[0], "DOGE")
	assert.Contains(t, result.VolatilityAlerts[0], "high-volatility")
}

func TestAssessMemeCoinBelowThresholdNoAlert(t *testing.T) {
	result := assess(
		position(entities.AssetTypeCrypto, "SHIB", 100, 100),
		position(entities.AssetTypeStock, "AAPL", 9900, 9900),
	)
	assert.Empty(t, result.VolatilityAlerts)
}

func TestAssessLargeSwingAlert(t *testing.T) {
	result := assess(
		position(entities.AssetTypeStock, "NVDA", 1000, 1500),
		position(entities.AssetTypeStock, "AAPL", 9000, 9000),
	)

	require.NotEmpty(t, result.VolatilityAlerts)
	assert.Contains(t, result.VolatilityAlerts[0], "NVDA")
	assert.Contains(t, result.VolatilityAlerts[0], "50")
}

func TestAssessRecommendationRules(t *testing.T) {
	result := assess(position(entities.AssetTypeCrypto, "BTC", 10000, 12000))

	require.Len(t, result.Recommendations, 4)
	assert.Contains(t, result.Recommendations, "Diversify across more asset types to spread risk")
	assert.Contains(t, result.Recommendations, "Reduce crypto exposure to lower overall portfolio volatility")
	assert.Contains(t, result.Recommendations, "Add a gold allocation as a hedge against market swings")
	assert.Contains(t, result.Recommendations, "Increase stock exposure for long-term growth")
}

func TestAssessDiversifyCountsSignificantTypesOnly(t *testing.T) {
	// the gold position is present but at exactly 5% it is not significant,
	// leaving only 2 meaningful asset types
	result := assess(
		position(entities.AssetTypeCrypto, "BTC", 4500, 4500),
		position(entities.AssetTypeStock, "AAPL", 5000, 5000),
		position(entities.AssetTypeGold, "XAU", 500, 500),
	)
	assert.Contains(t, result.Recommendations, "Diversify across more asset types to spread risk")
}

func TestAssessRecommendsTakingProfits(t *testing.T) {
	result := assess(
		position(entities.AssetTypeStock, "NVDA", 1000, 2200),
		position(entities.AssetTypeGold, "XAU", 500, 500),
		position(entities.AssetTypeRealEstate, "", 500, 500),
	)
	assert.Contains(t, result.Recommendations, "Consider taking some profits after large gains")
}

func TestAssessRecommendationsNeverEmpty(t *testing.T) {
	balanced := assess(
		position(entities.AssetTypeCrypto, "BTC", 1000, 1000),
		position(entities.AssetTypeStock, "AAPL", 3000, 3000),
		position(entities.AssetTypeGold, "XAU", 3000, 3000),
		position(entities.AssetTypeRealEstate, "", 3000, 3000),
	)
	assert.NotEmpty(t, balanced.Recommendations)
	assert.NotEmpty(t, balanced.Summary)
}
