package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
)

func TestCoinID(t *testing.T) {
	assert.Equal(t, "bitcoin", coinID("BTC"))
	assert.Equal(t, "bitcoin", coinID("btc"))
	assert.Equal(t, "avalanche-2", coinID("AVAX"))
	assert.Equal(t, "newcoin", coinID("NEWCOIN"))
}

func TestGoldCode(t *testing.T) {
	assert.Equal(t, "XAU", goldCode("GOLD"))
	assert.Equal(t, "XAU", goldCode("xau"))
	assert.Equal(t, "XAG", goldCode("silver"))
	assert.Equal(t, "XAU", goldCode("PLATINUM"))
	assert.Equal(t, "XAU", goldCode(""))
}

func TestCoinGeckoFetchBatch(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"bitcoin": {"usd": 45000.5, "last_updated_at": 1700000000},
			"ethereum": {"usd": 2500, "last_updated_at": 1700000000}
		}`))
	}))
	defer server.Close()

	adapter := NewCoinGeckoAdapter(server.URL, time.Second, zap.NewNop())
	results := adapter.FetchBatch(context.Background(), []string{"BTC", "ETH", "FAKECOIN"})

	require.Len(t, results, 3)
	assert.Equal(t, 1, calls)

	btc, ok := results["BTC"].(entities.Quote)
	require.True(t, ok)
	assert.True(t, btc.Price.Equal(decimal.NewFromFloat(45000.5)))
	assert.Equal(t, "USD", btc.Currency)
	assert.Equal(t, SourceCoinGecko, btc.Source)

	eth, ok := results["ETH"].(entities.Quote)
	require.True(t, ok)
	assert.True(t, eth.Price.Equal(decimal.NewFromInt(2500)))

	failure, ok := results["FAKECOIN"].(entities.PriceFailure)
	require.True(t, ok)
	assert.Equal(t, "price data not found for FAKECOIN", failure.Reason)
	assert.Equal(t, SourceCoinGecko, failure.Source)
}

func TestCoinGeckoFetchBatchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	adapter := NewCoinGeckoAdapter(server.URL, time.Second, zap.NewNop())
	results := adapter.FetchBatch(context.Background(), []string{"BTC", "ETH"})

	require.Len(t, results, 2)
	for _, result := range results {
		failure, ok := result.(entities.PriceFailure)
		require.True(t, ok)
		assert.Equal(t, "CoinGecko API returned 429", failure.Reason)
	}
}

func TestCoinGeckoFetchBatchEmpty(t *testing.T) {
	adapter := NewCoinGeckoAdapter("http://unused", time.Second, zap.NewNop())
	results := adapter.FetchBatch(context.Background(), nil)
	assert.Empty(t, results)
}

func TestCoinGeckoFetchSingle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"solana": {"usd": 98.7, "last_updated_at": 1700000000}}`))
	}))
	defer server.Close()

	adapter := NewCoinGeckoAdapter(server.URL, time.Second, zap.NewNop())
	result := adapter.Fetch(context.Background(), "SOL")

	quote, ok := result.(entities.Quote)
	require.True(t, ok)
	assert.Equal(t, "SOL", quote.Symbol)
	assert.True(t, quote.Price.Equal(decimal.NewFromFloat(98.7)))
}

func TestGoldAPIFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/XAU/USD", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-access-token"))
		w.Write([]byte(`{"price": 2034.25, "timestamp": 1700000000}`))
	}))
	defer server.Close()

	adapter := NewGoldAPIAdapter(server.URL, "test-key", time.Second, zap.NewNop())
	result := adapter.Fetch(context.Background(), "GOLD")

	quote, ok := result.(entities.Quote)
	require.True(t, ok)
	assert.Equal(t, "XAU", quote.Symbol)
	assert.True(t, quote.Price.Equal(decimal.NewFromFloat(2034.25)))
	assert.Equal(t, SourceGoldAPI, quote.Source)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), quote.ObservedAt)
}

func TestGoldAPIFetchMissingKey(t *testing.T) {
	adapter := NewGoldAPIAdapter("http://unused", "", time.Second, zap.NewNop())
	result := adapter.Fetch(context.Background(), "XAU")

	failure, ok := result.(entities.PriceFailure)
	require.True(t, ok)
	assert.Equal(t, "GoldAPI key not configured", failure.Reason)
	assert.Equal(t, SourceGoldAPI, failure.Source)
}

func TestGoldAPIFetchUpstreamErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "quota exceeded"}`))
	}))
	defer server.Close()

	adapter := NewGoldAPIAdapter(server.URL, "test-key", time.Second, zap.NewNop())
	result := adapter.Fetch(context.Background(), "SILVER")

	failure, ok := result.(entities.PriceFailure)
	require.True(t, ok)
	assert.Equal(t, "XAG", failure.Symbol)
	assert.Equal(t, "quota exceeded", failure.Reason)
}

func TestFinnhubFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))
		w.Write([]byte(`{"c": 178.32, "t": 1700000000}`))
	}))
	defer server.Close()

	adapter := NewFinnhubAdapter(server.URL, "test-token", time.Second, zap.NewNop())
	result := adapter.Fetch(context.Background(), "aapl")

	quote, ok := result.(entities.Quote)
	require.True(t, ok)
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.True(t, quote.Price.Equal(decimal.NewFromFloat(178.32)))
	assert.Equal(t, SourceFinnhub, quote.Source)
}

func TestFinnhubFetchMissingKey(t *testing.T) {
	adapter := NewFinnhubAdapter("http://unused", "", time.Second, zap.NewNop())
	result := adapter.Fetch(context.Background(), "AAPL")

	failure, ok := result.(entities.PriceFailure)
	require.True(t, ok)
	assert.Equal(t, "Finnhub API key not configured", failure.Reason)
}

func TestFinnhubFetchNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c": 0, "t": 0}`))
	}))
	defer server.Close()

	adapter := NewFinnhubAdapter(server.URL, "test-token", time.Second, zap.NewNop())
	result := adapter.Fetch(context.Background(), "UNKNOWN")

	failure, ok := result.(entities.PriceFailure)
	require.True(t, ok)
	assert.Equal(t, "no price data available for UNKNOWN", failure.Reason)
}

func TestFinnhubFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"c": 1, "t": 1}`))
	}))
	defer server.Close()

	adapter := NewFinnhubAdapter(server.URL, "test-token", 50*time.Millisecond, zap.NewNop())
	result := adapter.Fetch(context.Background(), "SLOW")

	_, ok := result.(entities.PriceFailure)
	assert.True(t, ok)
}
