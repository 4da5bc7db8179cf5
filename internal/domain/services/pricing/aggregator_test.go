package pricing

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
)

type fakeBatchSource struct {
	calls   int32
	results map[string]entities.PriceResult
}

func (f *fakeBatchSource) FetchBatch(ctx context.Context, symbols []string) map[string]entities.PriceResult {
	atomic.AddInt32(&f.calls, 1)
	out := make(map[string]entities.PriceResult, len(symbols))
	for _, s := range symbols {
		if r, ok := f.results[s]; ok {
			out[s] = r
		}
	}
	return out
}

type fakeSymbolSource struct {
	calls   int32
	results map[string]entities.PriceResult
}

func (f *fakeSymbolSource) Fetch(ctx context.Context, symbol string) entities.PriceResult {
	atomic.AddInt32(&f.calls, 1)
	if r, ok := f.results[symbol]; ok {
		return r
	}
	return entities.PriceFailure{Symbol: symbol, Reason: "not found", Source: "fake"}
}

func quoteOf(symbol string, price float64, source string) entities.Quote {
	return entities.Quote{
		Symbol:   symbol,
		Price:    decimal.NewFromFloat(price),
		Currency: "USD",
		Source:   source,
	}
}

func TestResolveBatchPartitionsByType(t *testing.T) {
	crypto := &fakeBatchSource{results: map[string]entities.PriceResult{
		"BTC": quoteOf("BTC", 45000, "coingecko"),
		"ETH": quoteOf("ETH", 2500, "coingecko"),
	}}
	stock := &fakeSymbolSource{results: map[string]entities.PriceResult{
		"AAPL": quoteOf("AAPL", 178, "finnhub"),
	}}
	gold := &fakeSymbolSource{results: map[string]entities.PriceResult{
		"XAU": quoteOf("XAU", 2034, "goldapi"),
	}}

	agg := NewAggregator(crypto, stock, gold, zap.NewNop())

	queries := []entities.PriceQuery{
		{Type: entities.AssetTypeCrypto, Symbol: "BTC"},
		{Type: entities.AssetTypeCrypto, Symbol: "ETH"},
		{Type: entities.AssetTypeStock, Symbol: "AAPL"},
		{Type: entities.AssetTypeGold, Symbol: "XAU"},
		{Type: entities.AssetTypeRealEstate},
		{Type: entities.AssetTypeOther},
	}

	results := agg.ResolveBatch(context.Background(), queries)
	require.Len(t, results, 6)

	btc := results.QuoteFor(entities.PriceQuery{Type: entities.AssetTypeCrypto, Symbol: "BTC"})
	require.NotNil(t, btc)
	assert.True(t, btc.Price.Equal(decimal.NewFromInt(45000)))

	aapl := results.QuoteFor(entities.PriceQuery{Type: entities.AssetTypeStock, Symbol: "AAPL"})
	require.NotNil(t, aapl)

	re := results.FailureFor(entities.PriceQuery{Type: entities.AssetTypeRealEstate})
	require.NotNil(t, re)
	assert.Equal(t, "manual valuation required", re.Reason)

	other := results.FailureFor(entities.PriceQuery{Type: entities.AssetTypeOther})
	require.NotNil(t, other)
	assert.Equal(t, "manual valuation required", other.Reason)
}

func TestResolveBatchDeduplicates(t *testing.T) {
	crypto := &fakeBatchSource{results: map[string]entities.PriceResult{
		"BTC": quoteOf("BTC", 45000, "coingecko"),
	}}
	stock := &fakeSymbolSource{results: map[string]entities.PriceResult{
		"AAPL": quoteOf("AAPL", 178, "finnhub"),
	}}
	gold := &fakeSymbolSource{}

	agg := NewAggregator(crypto, stock, gold, zap.NewNop())

	queries := []entities.PriceQuery{
		{Type: entities.AssetTypeCrypto, Symbol: "BTC"},
		{Type: entities.AssetTypeCrypto, Symbol: "BTC"},
		{Type: entities.AssetTypeCrypto, Symbol: "BTC"},
		{Type: entities.AssetTypeStock, Symbol: "AAPL"},
		{Type: entities.AssetTypeStock, Symbol: "AAPL"},
	}

	results := agg.ResolveBatch(context.Background(), queries)
	assert.Len(t, results, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&crypto.calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&stock.calls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&gold.calls))
}

func TestResolveBatchSingleCryptoCallForManySymbols(t *testing.T) {
	crypto := &fakeBatchSource{results: map[string]entities.PriceResult{
		"BTC": quoteOf("BTC", 45000, "coingecko"),
		"ETH": quoteOf("ETH", 2500, "coingecko"),
		"SOL": quoteOf("SOL", 98, "coingecko"),
	}}
	agg := NewAggregator(crypto, &fakeSymbolSource{}, &fakeSymbolSource{}, zap.NewNop())

	queries := []entities.PriceQuery{
		{Type: entities.AssetTypeCrypto, Symbol: "BTC"},
		{Type: entities.AssetTypeCrypto, Symbol: "ETH"},
		{Type: entities.AssetTypeCrypto, Symbol: "SOL"},
	}

	results := agg.ResolveBatch(context.Background(), queries)
	assert.Len(t, results, 3)
	assert.Equal(t, int32(1), atomic.LoadInt32(&crypto.calls))
}

func TestResolveBatchMissingSymbol(t *testing.T) {
	agg := NewAggregator(&fakeBatchSource{}, &fakeSymbolSource{}, &fakeSymbolSource{}, zap.NewNop())

	results := agg.ResolveBatch(context.Background(), []entities.PriceQuery{
		{Type: entities.AssetTypeCrypto},
		{Type: entities.AssetTypeStock},
	})

	cryptoFailure := results.FailureFor(entities.PriceQuery{Type: entities.AssetTypeCrypto})
	require.NotNil(t, cryptoFailure)
	assert.Equal(t, "symbol required for crypto", cryptoFailure.Reason)

	stockFailure := results.FailureFor(entities.PriceQuery{Type: entities.AssetTypeStock})
	require.NotNil(t, stockFailure)
	assert.Equal(t, "symbol required for stock", stockFailure.Reason)
}

func TestResolveBatchCryptoSymbolAbsentFromBatch(t *testing.T) {
	agg := NewAggregator(&fakeBatchSource{}, &fakeSymbolSource{}, &fakeSymbolSource{}, zap.NewNop())

	results := agg.ResolveBatch(context.Background(), []entities.PriceQuery{
		{Type: entities.AssetTypeCrypto, Symbol: "GHOST"},
	})

	failure := results.FailureFor(entities.PriceQuery{Type: entities.AssetTypeCrypto, Symbol: "GHOST"})
	require.NotNil(t, failure)
	assert.Equal(t, "price data not found for GHOST", failure.Reason)
}

func TestResolveBatchEmpty(t *testing.T) {
	agg := NewAggregator(&fakeBatchSource{}, &fakeSymbolSource{}, &fakeSymbolSource{}, zap.NewNop())
	results := agg.ResolveBatch(context.Background(), nil)
	assert.Empty(t, results)
}
