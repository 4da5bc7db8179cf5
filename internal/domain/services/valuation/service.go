package valuation

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
	"github.com/folio-service/folio_service/pkg/metrics"
)

var hundred = decimal.NewFromInt(100)

// Resolver resolves a batch of price queries into quotes and failures
type Resolver interface {
	ResolveBatch(ctx context.Context, queries []entities.PriceQuery) entities.PriceMap
}

// Service values portfolios. One batch price resolution covers all assets;
// each asset then resolves its current price with a fixed priority: a
// real-estate manual valuation wins over any quote, a quote wins over the
// buy price, and the buy price is the terminal fallback so a valuation
// always completes.
type Service struct {
	resolver Resolver
	logger   *zap.Logger
}

// NewService creates a new valuation service
func NewService(resolver Resolver, logger *zap.Logger) *Service {
	return &Service{resolver: resolver, logger: logger}
}

// Valuate enriches every asset with a current price and derived metrics and
// aggregates them into a portfolio summary. It never fails: assets whose
// price could not be resolved fall back to their buy price and carry the
// failure reason.
func (s *Service) Valuate(ctx context.Context, assets []entities.Asset) ([]entities.EnrichedAsset, *entities.PortfolioSummary) {
	if len(assets) == 0 {
		return []entities.EnrichedAsset{}, entities.EmptyPortfolioSummary()
	}

	queries := make([]entities.PriceQuery, 0, len(assets))
	for i := range assets {
		queries = append(queries, assets[i].PriceQuery())
	}
	prices := s.resolver.ResolveBatch(ctx, queries)

	enriched := make([]entities.EnrichedAsset, 0, len(assets))
	for i := range assets {
		enriched = append(enriched, Enrich(&assets[i], prices))
	}

	summary := Summarize(enriched)
	metrics.ValuationsTotal.Inc()

	s.logger.Debug("portfolio valuated",
		zap.Int("assets", len(assets)),
		zap.String("total_value", summary.TotalValue.String()))

	return enriched, summary
}

// Enrich joins one asset with its resolved price and computes the derived
// metrics. Intermediate amounts stay unrounded; only the profit/loss percent
// is rounded, to two decimal places, since it is purely presentational.
func Enrich(asset *entities.Asset, prices entities.PriceMap) entities.EnrichedAsset {
	currentPrice, priceError := resolvePrice(asset, prices)

	totalInvested := asset.Quantity.Mul(asset.BuyPrice)
	totalValue := asset.Quantity.Mul(currentPrice)
	profitLoss := totalValue.Sub(totalInvested)

	profitLossPercent := decimal.Zero
	if !totalInvested.IsZero() {
		profitLossPercent = profitLoss.Div(totalInvested).Mul(hundred).Round(2)
	}

	return entities.EnrichedAsset{
		ID:                asset.ID,
		AccountID:         asset.AccountID,
		Type:              asset.Type,
		Symbol:            asset.Symbol,
		Quantity:          asset.Quantity,
		BuyPrice:          asset.BuyPrice,
		CurrentPrice:      currentPrice,
		TotalInvested:     totalInvested,
		TotalValue:        totalValue,
		ProfitLoss:        profitLoss,
		ProfitLossPercent: profitLossPercent,
		PriceError:        priceError,
		Location:          asset.Location,
		Area:              asset.Area,
		PropertyType:      asset.PropertyType,
		CurrentValuation:  asset.CurrentValuation,
		RentalIncome:      asset.RentalIncome,
		Notes:             asset.Notes,
		CreatedAt:         asset.CreatedAt,
	}
}

// resolvePrice picks the current price for an asset. A real-estate manual
// valuation overrides everything, including a live quote; otherwise a quote
// from the batch wins; the buy price is the terminal fallback and carries
// the failure reason when one exists.
func resolvePrice(asset *entities.Asset, prices entities.PriceMap) (decimal.Decimal, *string) {
	if asset.Type == entities.AssetTypeRealEstate && asset.CurrentValuation != nil {
		return *asset.CurrentValuation, nil
	}

	query := asset.PriceQuery()
	if quote := prices.QuoteFor(query); quote != nil {
		return quote.Price, nil
	}

	if failure := prices.FailureFor(query); failure != nil {
		reason := failure.Reason
		return asset.BuyPrice, &reason
	}

	reason := "no price data available"
	return asset.BuyPrice, &reason
}

// Summarize aggregates enriched assets into portfolio totals and the
// per-type distribution. Totals accumulate unrounded and are rounded to two
// decimal places only here, at the presentation boundary. A zero invested
// total yields a zero percent rather than a division error, and the
// distribution always lists every asset type.
func Summarize(enriched []entities.EnrichedAsset) *entities.PortfolioSummary {
	if len(enriched) == 0 {
		return entities.EmptyPortfolioSummary()
	}

	totalValue := decimal.Zero
	totalInvested := decimal.Zero
	typeValues := make(map[entities.AssetType]decimal.Decimal, len(entities.AllAssetTypes))
	for _, t := range entities.AllAssetTypes {
		typeValues[t] = decimal.Zero
	}

	for i := range enriched {
		totalValue = totalValue.Add(enriched[i].TotalValue)
		totalInvested = totalInvested.Add(enriched[i].TotalInvested)
		typeValues[enriched[i].Type] = typeValues[enriched[i].Type].Add(enriched[i].TotalValue)
	}

	totalProfitLoss := totalValue.Sub(totalInvested)
	totalProfitLossPercent := decimal.Zero
	if !totalInvested.IsZero() {
		totalProfitLossPercent = totalProfitLoss.Div(totalInvested).Mul(hundred)
	}

	distribution := make(map[entities.AssetType]entities.TypeShare, len(entities.AllAssetTypes))
	for _, t := range entities.AllAssetTypes {
		value := typeValues[t]
		percent := decimal.Zero
		if !totalValue.IsZero() {
			percent = value.Div(totalValue).Mul(hundred)
		}
		distribution[t] = entities.TypeShare{
			Value:   value.Round(2),
			Percent: percent.Round(2),
		}
	}

	return &entities.PortfolioSummary{
		TotalValue:             totalValue.Round(2),
		TotalInvested:          totalInvested.Round(2),
		TotalProfitLoss:        totalProfitLoss.Round(2),
		TotalProfitLossPercent: totalProfitLossPercent.Round(2),
		Distribution:           distribution,
		AssetCount:             len(enriched),
	}
}
