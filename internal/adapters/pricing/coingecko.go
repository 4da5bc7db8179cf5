package pricing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
	"github.com/folio-service/folio_service/pkg/circuitbreaker"
)

// cryptoIDMap maps common ticker symbols to CoinGecko coin identifiers.
// Symbols absent from the table are lowercased and passed through.
var cryptoIDMap = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"BNB":   "binancecoin",
	"XRP":   "ripple",
	"ADA":   "cardano",
	"SOL":   "solana",
	"DOGE":  "dogecoin",
	"DOT":   "polkadot",
	"MATIC": "matic-network",
	"SHIB":  "shiba-inu",
	"LTC":   "litecoin",
	"AVAX":  "avalanche-2",
	"LINK":  "chainlink",
	"UNI":   "uniswap",
	"ATOM":  "cosmos",
}

// coinID resolves a ticker symbol to a CoinGecko coin identifier
func coinID(symbol string) string {
	if id, ok := cryptoIDMap[strings.ToUpper(symbol)]; ok {
		return id
	}
	return strings.ToLower(symbol)
}

// CoinGeckoAdapter resolves crypto spot prices in USD. CoinGecko needs no
// credential and supports querying many coins in a single call.
type CoinGeckoAdapter struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewCoinGeckoAdapter creates a new CoinGecko adapter
func NewCoinGeckoAdapter(baseURL string, timeout time.Duration, logger *zap.Logger) *CoinGeckoAdapter {
	return &CoinGeckoAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeout),
		breaker: circuitbreaker.New("coingecko", circuitbreaker.DefaultConfig()),
		logger:  logger,
	}
}

type coinGeckoEntry struct {
	USD           float64 `json:"usd"`
	LastUpdatedAt int64   `json:"last_updated_at"`
}

// Fetch resolves a single crypto symbol to a PriceResult. It never returns
// an error; every failure mode is captured as a PriceFailure.
func (a *CoinGeckoAdapter) Fetch(ctx context.Context, symbol string) entities.PriceResult {
	results := a.FetchBatch(ctx, []string{symbol})
	if result, ok := results[symbol]; ok {
		return result
	}
	return entities.PriceFailure{
		Symbol: strings.ToUpper(symbol),
		Reason: fmt.Sprintf("price data not found for %s", strings.ToUpper(symbol)),
		Source: SourceCoinGecko,
	}
}

// FetchBatch resolves all given symbols with a single upstream call. The
// returned map is keyed by the symbols as passed. When the batched call
// fails outright, every symbol degrades to an individual PriceFailure
// carrying the call error.
func (a *CoinGeckoAdapter) FetchBatch(ctx context.Context, symbols []string) map[string]entities.PriceResult {
	results := make(map[string]entities.PriceResult, len(symbols))
	if len(symbols) == 0 {
		return results
	}

	ids := make([]string, 0, len(symbols))
	seen := make(map[string]struct{}, len(symbols))
	for _, symbol := range symbols {
		id := coinID(symbol)
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", "usd")
	query.Set("include_last_updated_at", "true")
	endpoint := fmt.Sprintf("%s/simple/price?%s", a.baseURL, query.Encode())

	payload, err := a.breaker.Execute(func() (interface{}, error) {
		var data map[string]coinGeckoEntry
		if err := getJSON(ctx, a.client, endpoint, nil, "CoinGecko", &data); err != nil {
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		a.logger.Warn("CoinGecko batch call failed",
			zap.Int("symbols", len(symbols)),
			zap.Error(err))
		for _, symbol := range symbols {
			results[symbol] = entities.PriceFailure{
				Symbol: strings.ToUpper(symbol),
				Reason: err.Error(),
				Source: SourceCoinGecko,
			}
		}
		return results
	}

	data := payload.(map[string]coinGeckoEntry)
	for _, symbol := range symbols {
		entry, ok := data[coinID(symbol)]
		if !ok {
			results[symbol] = entities.PriceFailure{
				Symbol: strings.ToUpper(symbol),
				Reason: fmt.Sprintf("price data not found for %s", strings.ToUpper(symbol)),
				Source: SourceCoinGecko,
			}
			continue
		}
		results[symbol] = entities.Quote{
			Symbol:     strings.ToUpper(symbol),
			Price:      decimal.NewFromFloat(entry.USD),
			Currency:   "USD",
			Source:     SourceCoinGecko,
			ObservedAt: time.Unix(entry.LastUpdatedAt, 0).UTC(),
		}
	}

	return results
}
