package revaluation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
	"github.com/folio-service/folio_service/internal/domain/services/valuation"
	"github.com/folio-service/folio_service/pkg/metrics"
)

var hundred = decimal.NewFromInt(100)

// AssetSource lists the positions with live pricing
type AssetSource interface {
	ListPriceable(ctx context.Context) ([]entities.Asset, error)
}

// HistoryRecorder stores one price sample per asset per run
type HistoryRecorder interface {
	Record(ctx context.Context, assetID uuid.UUID, price decimal.Decimal, at time.Time) error
}

// RuleStore lists armed threshold rules and marks fired ones
type RuleStore interface {
	ListArmed(ctx context.Context) ([]entities.NotificationRule, error)
	MarkTriggered(ctx context.Context, id uuid.UUID, at time.Time) error
}

// RunStats summarizes one revaluation run
type RunStats struct {
	AssetsProcessed        int                              `json:"assets_processed"`
	PricesRecorded         int                              `json:"prices_recorded"`
	PriceFailures          int                              `json:"price_failures"`
	NotificationsTriggered int                              `json:"notifications_triggered"`
	Triggered              []entities.TriggeredNotification `json:"triggered"`
	Duration               time.Duration                    `json:"duration"`
}

// Job revalues every priceable position system-wide: one batch price
// resolution, a price-history sample per resolved position, and an
// evaluation of all armed threshold rules against the change from buy
// price. Rules fire one-shot; a fired rule stays fired.
type Job struct {
	assets        AssetSource
	history       HistoryRecorder
	notifications RuleStore
	resolver      valuation.Resolver
	logger        *zap.Logger
}

// NewJob creates a new revaluation job
func NewJob(
	assets AssetSource,
	history HistoryRecorder,
	notifications RuleStore,
	resolver valuation.Resolver,
	logger *zap.Logger,
) *Job {
	return &Job{
		assets:        assets,
		history:       history,
		notifications: notifications,
		resolver:      resolver,
		logger:        logger,
	}
}

// Run executes one revaluation pass
func (j *Job) Run(ctx context.Context) (*RunStats, error) {
	start := time.Now()

	positions, err := j.assets.ListPriceable(ctx)
	if err != nil {
		metrics.RevaluationRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	stats := &RunStats{
		AssetsProcessed: len(positions),
		Triggered:       []entities.TriggeredNotification{},
	}
	if len(positions) == 0 {
		stats.Duration = time.Since(start)
		metrics.RevaluationRunsTotal.WithLabelValues("success").Inc()
		return stats, nil
	}

	queries := make([]entities.PriceQuery, 0, len(positions))
	for i := range positions {
		queries = append(queries, positions[i].PriceQuery())
	}
	prices := j.resolver.ResolveBatch(ctx, queries)

	armed, err := j.notifications.ListArmed(ctx)
	if err != nil {
		metrics.RevaluationRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	rulesByAsset := make(map[uuid.UUID][]entities.NotificationRule, len(armed))
	for _, rule := range armed {
		rulesByAsset[rule.AssetID] = append(rulesByAsset[rule.AssetID], rule)
	}

	now := time.Now().UTC()
	for i := range positions {
		asset := &positions[i]

		quote := prices.QuoteFor(asset.PriceQuery())
		if quote == nil {
			stats.PriceFailures++
			continue
		}

		if err := j.history.Record(ctx, asset.ID, quote.Price, now); err != nil {
			j.logger.Warn("Failed to record price sample",
				zap.String("asset_id", asset.ID.String()),
				zap.Error(err))
		} else {
			stats.PricesRecorded++
		}

		rules := rulesByAsset[asset.ID]
		if len(rules) == 0 || asset.BuyPrice.IsZero() {
			continue
		}

		changePercent := quote.Price.Sub(asset.BuyPrice).Div(asset.BuyPrice).Mul(hundred)
		for _, rule := range rules {
			if !rule.ShouldTrigger(changePercent) {
				continue
			}
			if err := j.notifications.MarkTriggered(ctx, rule.ID, now); err != nil {
				j.logger.Warn("Failed to mark rule triggered",
					zap.String("rule_id", rule.ID.String()),
					zap.Error(err))
				continue
			}
			stats.NotificationsTriggered++
			metrics.NotificationsTriggeredTotal.Inc()
			stats.Triggered = append(stats.Triggered, entities.TriggeredNotification{
				AssetID:          asset.ID,
				Symbol:           asset.Symbol,
				RuleID:           rule.ID,
				Direction:        rule.Direction,
				ThresholdPercent: rule.ThresholdPercent,
				ActualPercent:    changePercent.Round(2),
			})
		}
	}

	stats.Duration = time.Since(start)
	metrics.RevaluationRunsTotal.WithLabelValues("success").Inc()

	j.logger.Info("Revaluation run complete",
		zap.Int("assets", stats.AssetsProcessed),
		zap.Int("recorded", stats.PricesRecorded),
		zap.Int("failures", stats.PriceFailures),
		zap.Int("notifications", stats.NotificationsTriggered),
		zap.Duration("duration", stats.Duration))

	return stats, nil
}
