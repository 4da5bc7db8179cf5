package revaluation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
)

type fakeAssets struct {
	assets []entities.Asset
	err    error
}

func (f *fakeAssets) ListPriceable(ctx context.Context) ([]entities.Asset, error) {
	return f.assets, f.err
}

type recordedSample struct {
	assetID uuid.UUID
	price   decimal.Decimal
}

type fakeHistory struct {
	samples []recordedSample
	err     error
}

func (f *fakeHistory) Record(ctx context.Context, assetID uuid.UUID, price decimal.Decimal, at time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.samples = append(f.samples, recordedSample{assetID: assetID, price: price})
	return nil
}

type fakeRules struct {
	armed   []entities.NotificationRule
	marked  []uuid.UUID
	markErr error
}

func (f *fakeRules) ListArmed(ctx context.Context) ([]entities.NotificationRule, error) {
	return f.armed, nil
}

func (f *fakeRules) MarkTriggered(ctx context.Context, id uuid.UUID, at time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, id)
	return nil
}

type fakeResolver struct {
	prices entities.PriceMap
	calls  int
}

func (f *fakeResolver) ResolveBatch(ctx context.Context, queries []entities.PriceQuery) entities.PriceMap {
	f.calls++
	return f.prices
}

func strPtr(s string) *string { return &s }

func cryptoAsset(symbol string, buyPrice float64) entities.Asset {
	return entities.Asset{
		ID:       uuid.New(),
		Type:     entities.AssetTypeCrypto,
		Symbol:   strPtr(symbol),
		Quantity: decimal.NewFromInt(1),
		BuyPrice: decimal.NewFromFloat(buyPrice),
	}
}

func TestRunEmptyPortfolio(t *testing.T) {
	resolver := &fakeResolver{}
	job := NewJob(&fakeAssets{}, &fakeHistory{}, &fakeRules{}, resolver, zap.NewNop())

	stats, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.AssetsProcessed)
	assert.Equal(t, 0, resolver.calls)
}

func TestRunListError(t *testing.T) {
	job := NewJob(&fakeAssets{err: errors.New("db down")}, &fakeHistory{}, &fakeRules{}, &fakeResolver{}, zap.NewNop())

	_, err := job.Run(context.Background())
	assert.Error(t, err)
}

func TestRunRecordsHistoryAndCountsFailures(t *testing.T) {
	btc := cryptoAsset("BTC", 10000)
	doge := cryptoAsset("DOGE", 1)

	resolver := &fakeResolver{prices: entities.PriceMap{
		btc.PriceQuery():  entities.Quote{Symbol: "BTC", Price: decimal.NewFromInt(15000)},
		doge.PriceQuery(): entities.PriceFailure{Symbol: "DOGE", Reason: "no price data available for DOGE"},
	}}
	history := &fakeHistory{}
	job := NewJob(&fakeAssets{assets: []entities.Asset{btc, doge}}, history, &fakeRules{}, resolver, zap.NewNop())

	stats, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.AssetsProcessed)
	assert.Equal(t, 1, stats.PricesRecorded)
	assert.Equal(t, 1, stats.PriceFailures)
	assert.Equal(t, 1, resolver.calls)

	require.Len(t, history.samples, 1)
	assert.Equal(t, btc.ID, history.samples[0].assetID)
	assert.True(t, history.samples[0].price.Equal(decimal.NewFromInt(15000)))
}

func TestRunTriggersRulesOneShot(t *testing.T) {
	btc := cryptoAsset("BTC", 10000)

	fires := entities.NotificationRule{
		ID: uuid.New(), AssetID: btc.ID,
		Direction: entities.DirectionUp, ThresholdPercent: 20,
	}
	holds := entities.NotificationRule{
		ID: uuid.New(), AssetID: btc.ID,
		Direction: entities.DirectionUp, ThresholdPercent: 60,
	}

	resolver := &fakeResolver{prices: entities.PriceMap{
		btc.PriceQuery(): entities.Quote{Symbol: "BTC", Price: decimal.NewFromInt(15000)},
	}}
	rules := &fakeRules{armed: []entities.NotificationRule{fires, holds}}
	job := NewJob(&fakeAssets{assets: []entities.Asset{btc}}, &fakeHistory{}, rules, resolver, zap.NewNop())

	stats, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NotificationsTriggered)
	assert.Equal(t, []uuid.UUID{fires.ID}, rules.marked)

	require.Len(t, stats.Triggered, 1)
	triggered := stats.Triggered[0]
	assert.Equal(t, btc.ID, triggered.AssetID)
	assert.Equal(t, fires.ID, triggered.RuleID)
	assert.Equal(t, "50", triggered.ActualPercent.String())
}

func TestRunTriggersDownRule(t *testing.T) {
	btc := cryptoAsset("BTC", 10000)
	rule := entities.NotificationRule{
		ID: uuid.New(), AssetID: btc.ID,
		Direction: entities.DirectionDown, ThresholdPercent: 10,
	}

	resolver := &fakeResolver{prices: entities.PriceMap{
		btc.PriceQuery(): entities.Quote{Symbol: "BTC", Price: decimal.NewFromInt(8500)},
	}}
	rules := &fakeRules{armed: []entities.NotificationRule{rule}}
	job := NewJob(&fakeAssets{assets: []entities.Asset{btc}}, &fakeHistory{}, rules, resolver, zap.NewNop())

	stats, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NotificationsTriggered)
	assert.Equal(t, "-15", stats.Triggered[0].ActualPercent.String())
}

func TestRunMarkFailureDoesNotCountTrigger(t *testing.T) {
	btc := cryptoAsset("BTC", 10000)
	rule := entities.NotificationRule{
		ID: uuid.New(), AssetID: btc.ID,
		Direction: entities.DirectionUp, ThresholdPercent: 10,
	}

	resolver := &fakeResolver{prices: entities.PriceMap{
		btc.PriceQuery(): entities.Quote{Symbol: "BTC", Price: decimal.NewFromInt(15000)},
	}}
	rules := &fakeRules{armed: []entities.NotificationRule{rule}, markErr: errors.New("db down")}
	job := NewJob(&fakeAssets{assets: []entities.Asset{btc}}, &fakeHistory{}, rules, resolver, zap.NewNop())

	stats, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.NotificationsTriggered)
	assert.Empty(t, stats.Triggered)
}

func TestRunHistoryFailureKeepsGoing(t *testing.T) {
	btc := cryptoAsset("BTC", 10000)

	resolver := &fakeResolver{prices: entities.PriceMap{
		btc.PriceQuery(): entities.Quote{Symbol: "BTC", Price: decimal.NewFromInt(15000)},
	}}
	job := NewJob(&fakeAssets{assets: []entities.Asset{btc}}, &fakeHistory{err: errors.New("db down")}, &fakeRules{}, resolver, zap.NewNop())

	stats, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.PricesRecorded)
	assert.Equal(t, 1, stats.AssetsProcessed)
}
