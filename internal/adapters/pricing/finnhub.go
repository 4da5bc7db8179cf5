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

// FinnhubAdapter resolves equity quotes in USD. It requires both a symbol
// and a configured API key; a missing key degrades every lookup to a
// PriceFailure instead of failing at startup.
type FinnhubAdapter struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewFinnhubAdapter creates a new Finnhub adapter
func NewFinnhubAdapter(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *FinnhubAdapter {
	return &FinnhubAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  newHTTPClient(timeout),
		breaker: circuitbreaker.New("finnhub", circuitbreaker.DefaultConfig()),
		logger:  logger,
	}
}

type finnhubQuote struct {
	Current   float64 `json:"c"`
	Timestamp int64   `json:"t"`
}

// Fetch resolves an equity symbol to a PriceResult. A zero current price in
// the upstream payload means "no data" rather than a genuine quote, so it is
// reported as a PriceFailure. Fetch never returns an error.
func (a *FinnhubAdapter) Fetch(ctx context.Context, symbol string) entities.PriceResult {
	normalized := strings.ToUpper(symbol)

	if a.apiKey == "" {
		return entities.PriceFailure{
			Symbol: normalized,
			Reason: "Finnhub API key not configured",
			Source: SourceFinnhub,
		}
	}

	query := url.Values{}
	query.Set("symbol", normalized)
	query.Set("token", a.apiKey)
	endpoint := fmt.Sprintf("%s/quote?%s", a.baseURL, query.Encode())

	payload, err := a.breaker.Execute(func() (interface{}, error) {
		var data finnhubQuote
		if err := getJSON(ctx, a.client, endpoint, nil, "Finnhub", &data); err != nil {
			return nil, err
		}
		return &data, nil
	})
	if err != nil {
		a.logger.Warn("Finnhub call failed", zap.String("symbol", normalized), zap.Error(err))
		return entities.PriceFailure{
			Symbol: normalized,
			Reason: err.Error(),
			Source: SourceFinnhub,
		}
	}

	data := payload.(*finnhubQuote)
	if data.Current == 0 {
		return entities.PriceFailure{
			Symbol: normalized,
			Reason: fmt.Sprintf("no price data available for %s", normalized),
			Source: SourceFinnhub,
		}
	}

	return entities.Quote{
		Symbol:     normalized,
		Price:      decimal.NewFromFloat(data.Current),
		Currency:   "USD",
		Source:     SourceFinnhub,
		ObservedAt: time.Unix(data.Timestamp, 0).UTC(),
	}
}
