package pricing

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
	"github.com/folio-service/folio_service/pkg/circuitbreaker"
)

// goldSymbolMap normalizes commodity symbols to GoldAPI codes. Anything
// unrecognized defaults to gold.
var goldSymbolMap = map[string]string{
	"XAU":    "XAU",
	"GOLD":   "XAU",
	"XAG":    "XAG",
	"SILVER": "XAG",
}

func goldCode(symbol string) string {
	if code, ok := goldSymbolMap[strings.ToUpper(symbol)]; ok {
		return code
	}
	return "XAU"
}

// GoldAPIAdapter resolves gold and silver spot prices in USD. It requires a
// configured API key; a missing key degrades every lookup to a PriceFailure
// instead of failing at startup.
type GoldAPIAdapter struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewGoldAPIAdapter creates a new GoldAPI adapter
func NewGoldAPIAdapter(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *GoldAPIAdapter {
	return &GoldAPIAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  newHTTPClient(timeout),
		breaker: circuitbreaker.New("goldapi", circuitbreaker.DefaultConfig()),
		logger:  logger,
	}
}

type goldAPIResponse struct {
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
	Error     string  `json:"error"`
}

// Fetch resolves a commodity symbol to a PriceResult. It never returns an
// error; every failure mode is captured as a PriceFailure.
func (a *GoldAPIAdapter) Fetch(ctx context.Context, symbol string) entities.PriceResult {
	code := goldCode(symbol)

	if a.apiKey == "" {
		return entities.PriceFailure{
			Symbol: code,
			Reason: "GoldAPI key not configured",
			Source: SourceGoldAPI,
		}
	}

	endpoint := fmt.Sprintf("%s/%s/USD", a.baseURL, code)
	headers := map[string]string{
		"x-access-token": a.apiKey,
		"Content-Type":   "application/json",
	}

	payload, err := a.breaker.Execute(func() (interface{}, error) {
		var data goldAPIResponse
		if err := getJSON(ctx, a.client, endpoint, headers, "GoldAPI", &data); err != nil {
			return nil, err
		}
		return &data, nil
	})
	if err != nil {
		a.logger.Warn("GoldAPI call failed", zap.String("symbol", code), zap.Error(err))
		return entities.PriceFailure{
			Symbol: code,
			Reason: err.Error(),
			Source: SourceGoldAPI,
		}
	}

	data := payload.(*goldAPIResponse)
	if data.Error != "" {
		return entities.PriceFailure{
			Symbol: code,
			Reason: data.Error,
			Source: SourceGoldAPI,
		}
	}

	return entities.Quote{
		Symbol:     code,
		Price:      decimal.NewFromFloat(data.Price),
		Currency:   "USD",
		Source:     SourceGoldAPI,
		ObservedAt: time.Unix(data.Timestamp, 0).UTC(),
	}
}
