package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/adapters/pricing"
	"github.com/folio-service/folio_service/internal/domain/entities"
	"github.com/folio-service/folio_service/pkg/metrics"
)

// BatchSource resolves many symbols in one upstream call
type BatchSource interface {
	FetchBatch(ctx context.Context, symbols []string) map[string]entities.PriceResult
}

// SymbolSource resolves one symbol per upstream call
type SymbolSource interface {
	Fetch(ctx context.Context, symbol string) entities.PriceResult
}

// Aggregator fans a heterogeneous batch of price queries out to the
// per-asset-type sources and gathers the results into a single PriceMap.
// Crypto symbols share one batched upstream call; stock and gold symbols
// resolve concurrently, one call each. Types without live pricing are
// synthesized as failures so every query in the batch has exactly one
// result.
type Aggregator struct {
	crypto BatchSource
	stock  SymbolSource
	gold   SymbolSource
	logger *zap.Logger
}

// NewAggregator creates a new price aggregator
func NewAggregator(crypto BatchSource, stock, gold SymbolSource, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		crypto: crypto,
		stock:  stock,
		gold:   gold,
		logger: logger,
	}
}

// ResolveBatch resolves every distinct query in the batch. It never returns
// an error: each query maps to either a Quote or a PriceFailure. Duplicate
// queries are collapsed before any upstream call is made.
func (a *Aggregator) ResolveBatch(ctx context.Context, queries []entities.PriceQuery) entities.PriceMap {
	results := make(entities.PriceMap, len(queries))
	if len(queries) == 0 {
		return results
	}

	start := time.Now()

	distinct := make([]entities.PriceQuery, 0, len(queries))
	seen := make(map[entities.PriceQuery]struct{}, len(queries))
	for _, q := range queries {
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		distinct = append(distinct, q)
	}
	metrics.PriceBatchSize.Observe(float64(len(distinct)))

	var (
		cryptoSymbols []string
		mu            sync.Mutex
		wg            sync.WaitGroup
	)

	store := func(q entities.PriceQuery, result entities.PriceResult) {
		mu.Lock()
		results[q] = result
		mu.Unlock()
		outcome := "quote"
		source := pricing.SourceSystem
		switch r := result.(type) {
		case entities.Quote:
			source = r.Source
		case entities.PriceFailure:
			outcome = "failure"
			source = r.Source
		}
		metrics.PriceFetchesTotal.WithLabelValues(source, outcome).Inc()
	}

	for _, q := range distinct {
		switch q.Type {
		case entities.AssetTypeCrypto:
			if q.Symbol == "" {
				store(q, entities.PriceFailure{
					Reason: "symbol required for crypto",
					Source: pricing.SourceSystem,
				})
				continue
			}
			cryptoSymbols = append(cryptoSymbols, q.Symbol)

		case entities.AssetTypeStock:
			if q.Symbol == "" {
				store(q, entities.PriceFailure{
					Reason: "symbol required for stock",
					Source: pricing.SourceSystem,
				})
				continue
			}
			wg.Add(1)
			go func(q entities.PriceQuery) {
				defer wg.Done()
				store(q, a.stock.Fetch(ctx, q.Symbol))
			}(q)

		case entities.AssetTypeGold:
			wg.Add(1)
			go func(q entities.PriceQuery) {
				defer wg.Done()
				store(q, a.gold.Fetch(ctx, q.Symbol))
			}(q)

		default:
			// REAL_ESTATE and OTHER carry owner-provided values
			store(q, entities.PriceFailure{
				Symbol: q.Symbol,
				Reason: "manual valuation required",
				Source: pricing.SourceSystem,
			})
		}
	}

	if len(cryptoSymbols) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batch := a.crypto.FetchBatch(ctx, cryptoSymbols)
			for _, symbol := range cryptoSymbols {
				q := entities.PriceQuery{Type: entities.AssetTypeCrypto, Symbol: symbol}
				result, ok := batch[symbol]
				if !ok {
					result = entities.PriceFailure{
						Symbol: symbol,
						Reason: fmt.Sprintf("price data not found for %s", symbol),
						Source: pricing.SourceCoinGecko,
					}
				}
				store(q, result)
			}
		}()
	}

	wg.Wait()
	metrics.PriceBatchDuration.Observe(time.Since(start).Seconds())

	a.logger.Debug("batch price resolution complete",
		zap.Int("queries", len(queries)),
		zap.Int("distinct", len(distinct)),
		zap.Duration("elapsed", time.Since(start)))

	return results
}
