package risk

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/folio-service/folio_service/internal/domain/entities"
)

var (
	hundred = decimal.NewFromInt(100)

	pct5  = decimal.NewFromInt(5)
	pct10 = decimal.NewFromInt(10)
	pct15 = decimal.NewFromInt(15)
	pct20 = decimal.NewFromInt(20)
	pct30 = decimal.NewFromInt(30)
	pct40 = decimal.NewFromInt(40)
	pct50 = decimal.NewFromInt(50)
	pct60 = decimal.NewFromInt(60)
	pct70 = decimal.NewFromInt(70)

	thousand = decimal.NewFromInt(1000)
)

// memeCoins are crypto symbols treated as high-volatility holdings
var memeCoins = map[string]struct{}{
	"DOGE":  {},
	"SHIB":  {},
	"PEPE":  {},
	"FLOKI": {},
	"BONK":  {},
}

// Assess scores a valuated portfolio with a fixed rule set. The function is
// pure: same inputs, same output, no external calls. The score starts at 50
// and each rule adjusts it; the result is clamped to [0,100]. Allocation
// tiers are mutually exclusive, only the highest applicable tier fires.
func Assess(enriched []entities.EnrichedAsset, summary *entities.PortfolioSummary) *entities.RiskAssessment {
	if len(enriched) == 0 || summary.TotalValue.IsZero() {
		return &entities.RiskAssessment{
			RiskScore:             50,
			ConcentrationWarnings: []string{},
			VolatilityAlerts:      []string{},
			Recommendations:       []string{"Add assets to your portfolio to receive a risk assessment"},
			Summary:               "Portfolio is empty or has no measurable value",
		}
	}

	score := 50
	cryptoPct := summary.Distribution[entities.AssetTypeCrypto].Percent
	stockPct := summary.Distribution[entities.AssetTypeStock].Percent
	goldPct := summary.Distribution[entities.AssetTypeGold].Percent
	realEstatePct := summary.Distribution[entities.AssetTypeRealEstate].Percent

	switch {
	case cryptoPct.GreaterThan(pct50):
		score += 30
	case cryptoPct.GreaterThan(pct30):
		score += 20
	case cryptoPct.GreaterThan(pct15):
		score += 10
	}

	if stockPct.GreaterThan(pct70) {
		score += 10
	}

	// only positions that hold a ticker count toward symbol concentration
	typesPresent := map[entities.AssetType]struct{}{}
	symbols := map[string]struct{}{}
	for i := range enriched {
		typesPresent[enriched[i].Type] = struct{}{}
		if enriched[i].Symbol != nil && *enriched[i].Symbol != "" {
			symbols[*enriched[i].Symbol] = struct{}{}
		}
	}

	switch len(typesPresent) {
	case 1:
		score += 15
	case 2:
		score += 5
	}
	if len(typesPresent) >= 4 {
		score -= 10
	}

	if len(symbols) <= 2 && len(enriched) > 2 {
		score += 10
	}
	if len(symbols) >= 5 {
		score -= 5
	}

	maxShare := decimal.Zero
	for i := range enriched {
		share := enriched[i].TotalValue.Div(summary.TotalValue).Mul(hundred)
		if share.GreaterThan(maxShare) {
			maxShare = share
		}
	}
	switch {
	case maxShare.GreaterThan(pct50):
		score += 15
	case maxShare.GreaterThan(pct30):
		score += 5
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	significantTypes := 0
	for _, share := range summary.Distribution {
		if share.Percent.GreaterThan(pct5) {
			significantTypes++
		}
	}

	warnings := concentrationWarnings(enriched, summary, cryptoPct, realEstatePct, significantTypes)
	alerts := volatilityAlerts(enriched, summary)
	recommendations := recommend(cryptoPct, goldPct, stockPct, summary, significantTypes)

	return &entities.RiskAssessment{
		RiskScore:             score,
		ConcentrationWarnings: warnings,
		VolatilityAlerts:      alerts,
		Recommendations:       recommendations,
		Summary:               summarize(score, len(enriched), len(typesPresent)),
	}
}

func concentrationWarnings(enriched []entities.EnrichedAsset, summary *entities.PortfolioSummary, cryptoPct, realEstatePct decimal.Decimal, significantTypes int) []string {
	warnings := []string{}

	for i := range enriched {
		share := enriched[i].TotalValue.Div(summary.TotalValue).Mul(hundred)
		if share.GreaterThan(pct40) {
			warnings = append(warnings, fmt.Sprintf(
				"%s makes up %s%% of your portfolio",
				enriched[i].SymbolOrType(), share.Round(1).String()))
		}
	}

	if cryptoPct.GreaterThan(pct50) {
		warnings = append(warnings, fmt.Sprintf(
			"Crypto allocation is %s%%, above the 50%% threshold", cryptoPct.Round(1).String()))
	}
	if realEstatePct.GreaterThan(pct60) {
		warnings = append(warnings, fmt.Sprintf(
			"Real estate allocation is %s%%, above the 60%% threshold", realEstatePct.Round(1).String()))
	}

	if significantTypes < 2 {
		warnings = append(warnings, "Insufficient diversification: fewer than 2 asset types above 5%")
	}

	return warnings
}

func volatilityAlerts(enriched []entities.EnrichedAsset, summary *entities.PortfolioSummary) []string {
	alerts := []string{}

	for i := range enriched {
		a := &enriched[i]

		if a.Type == entities.AssetTypeCrypto && a.Symbol != nil {
			if _, meme := memeCoins[strings.ToUpper(*a.Symbol)]; meme {
				share := a.TotalValue.Div(summary.TotalValue).Mul(hundred)
				if share.GreaterThan(pct5) {
					alerts = append(alerts, fmt.Sprintf(
						"%s is a high-volatility asset at %s%% of your portfolio",
						strings.ToUpper(*a.Symbol), share.Round(1).String()))
				}
			}
		}

		if a.ProfitLossPercent.Abs().GreaterThan(pct30) {
			alerts = append(alerts, fmt.Sprintf(
				"%s has moved %s%% from its buy price",
				a.SymbolOrType(), a.ProfitLossPercent.Round(1).String()))
		}
	}

	return alerts
}

func recommend(cryptoPct, goldPct, stockPct decimal.Decimal, summary *entities.PortfolioSummary, significantTypes int) []string {
	recommendations := []string{}

	if significantTypes < 3 {
		recommendations = append(recommendations, "Diversify across more asset types to spread risk")
	}
	if cryptoPct.GreaterThan(pct30) {
		recommendations = append(recommendations, "Reduce crypto exposure to lower overall portfolio volatility")
	}
	if goldPct.LessThan(pct10) && summary.TotalValue.GreaterThan(thousand) {
		recommendations = append(recommendations, "Add a gold allocation as a hedge against market swings")
	}
	if stockPct.LessThan(pct20) {
		recommendations = append(recommendations, "Increase stock exposure for long-term growth")
	}
	if summary.TotalProfitLossPercent.GreaterThan(pct50) {
		recommendations = append(recommendations, "Consider taking some profits after large gains")
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Allocation looks balanced; keep reviewing it periodically")
	}

	return recommendations
}

func summarize(score, assetCount, typeCount int) string {
	level := "low"
	switch {
	case score >= 75:
		level = "high"
	case score >= 55:
		level = "moderate"
	}
	return fmt.Sprintf("Risk score %d/100 (%s) across %d assets in %d asset types",
		score, level, assetCount, typeCount)
}
