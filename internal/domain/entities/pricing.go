package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PriceQuery is the aggregator's lookup key: an asset type plus an optional
// symbol. The zero symbol stands for "no symbol". Queries compare by value,
// so they can be used directly as map keys.
type PriceQuery struct {
	Type   AssetType
	Symbol string
}

// String renders the query in TYPE:symbol form, matching the wire format
// used in logs and the scheduled job output.
func (q PriceQuery) String() string {
	symbol := q.Symbol
	if symbol == "" {
		symbol = "null"
	}
	return fmt.Sprintf("%s:%s", q.Type, symbol)
}

// PriceResult is a tagged union: exactly one of Quote or PriceFailure.
// Consumers type-switch on the concrete variant; there is no shared
// "is-error" accessor.
type PriceResult interface {
	priceResult()
}

// Quote is a successfully resolved live price
type Quote struct {
	Symbol     string          `json:"symbol"`
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
	Source     string          `json:"source"`
	ObservedAt time.Time       `json:"observed_at"`
}

func (Quote) priceResult() {}

// PriceFailure is a per-symbol resolution failure. It is data, not an
// error return: valuation continues and the reason is surfaced per asset.
type PriceFailure struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
	Source string `json:"source"`
}

func (PriceFailure) priceResult() {}

// PriceMap holds one result per distinct query in a batch resolution
type PriceMap map[PriceQuery]PriceResult

// QuoteFor returns the quote for q, or nil when q is absent or failed
func (m PriceMap) QuoteFor(q PriceQuery) *Quote {
	if result, ok := m[q]; ok {
		if quote, ok := result.(Quote); ok {
			return &quote
		}
	}
	return nil
}

// FailureFor returns the failure for q, or nil when q resolved to a quote
// or is absent from the map
func (m PriceMap) FailureFor(q PriceQuery) *PriceFailure {
	if result, ok := m[q]; ok {
		if failure, ok := result.(PriceFailure); ok {
			return &failure
		}
	}
	return nil
}
