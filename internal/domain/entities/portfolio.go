package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EnrichedAsset is an Asset joined with a resolved current price and the
// derived financial metrics. When price resolution failed, CurrentPrice
// equals BuyPrice and PriceError carries the failure reason.
type EnrichedAsset struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"account_id"`
	AccountName string    `json:"account_name,omitempty"`
	Type        AssetType `json:"type"`
	Symbol      *string   `json:"symbol"`

	Quantity decimal.Decimal `json:"quantity"`
	BuyPrice decimal.Decimal `json:"buy_price"`

	CurrentPrice      decimal.Decimal `json:"current_price"`
	TotalInvested     decimal.Decimal `json:"total_invested"`
	TotalValue        decimal.Decimal `json:"total_value"`
	ProfitLoss        decimal.Decimal `json:"profit_loss"`
	ProfitLossPercent decimal.Decimal `json:"profit_loss_percent"`
	PriceError        *string         `json:"price_error"`

	// Real-estate attributes, echoed for REAL_ESTATE assets only
	Location         *string          `json:"location,omitempty"`
	Area             *decimal.Decimal `json:"area,omitempty"`
	PropertyType     *PropertyType    `json:"property_type,omitempty"`
	CurrentValuation *decimal.Decimal `json:"current_valuation,omitempty"`
	RentalIncome     *decimal.Decimal `json:"rental_income,omitempty"`
	Notes            *string          `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// SymbolOrType returns the symbol when present, else the asset type name.
// Used when labelling warnings and alerts.
func (a *EnrichedAsset) SymbolOrType() string {
	if a.Symbol != nil && *a.Symbol != "" {
		return *a.Symbol
	}
	return string(a.Type)
}

// TypeShare is the value and percent-of-total held in one asset type
type TypeShare struct {
	Value   decimal.Decimal `json:"value"`
	Percent decimal.Decimal `json:"percent"`
}

// PortfolioSummary aggregates a valuated portfolio. Per-type distribution
// values reconcile with TotalValue; percents sum to 100 when TotalValue is
// positive and are all zero otherwise.
type PortfolioSummary struct {
	TotalValue             decimal.Decimal         `json:"total_value"`
	TotalInvested          decimal.Decimal         `json:"total_invested"`
	TotalProfitLoss        decimal.Decimal         `json:"total_profit_loss"`
	TotalProfitLossPercent decimal.Decimal         `json:"total_profit_loss_percent"`
	Distribution           map[AssetType]TypeShare `json:"distribution"`
	AssetCount             int                     `json:"asset_count"`
}

// EmptyPortfolioSummary returns a zeroed summary with a full distribution
func EmptyPortfolioSummary() *PortfolioSummary {
	distribution := make(map[AssetType]TypeShare, len(AllAssetTypes))
	for _, t := range AllAssetTypes {
		distribution[t] = TypeShare{Value: decimal.Zero, Percent: decimal.Zero}
	}
	return &PortfolioSummary{
		TotalValue:             decimal.Zero,
		TotalInvested:          decimal.Zero,
		TotalProfitLoss:        decimal.Zero,
		TotalProfitLossPercent: decimal.Zero,
		Distribution:           distribution,
	}
}

// RiskAssessment is the deterministic heuristic output over a valuated
// portfolio. Score is clamped to [0,100]; the string lists keep the order
// in which rules fired.
type RiskAssessment struct {
	RiskScore             int      `json:"risk_score"`
	ConcentrationWarnings []string `json:"concentration_warnings"`
	VolatilityAlerts      []string `json:"volatility_alerts"`
	Recommendations       []string `json:"recommendations"`
	Summary               string   `json:"summary"`
}
