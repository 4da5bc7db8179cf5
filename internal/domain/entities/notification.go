package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NotificationDirection is the side of the threshold a rule watches
type NotificationDirection string

const (
	DirectionUp   NotificationDirection = "UP"
	DirectionDown NotificationDirection = "DOWN"
)

// IsValid reports whether d is a known direction
func (d NotificationDirection) IsValid() bool {
	return d == DirectionUp || d == DirectionDown
}

// NotificationRule is a standing threshold alert on an asset: trigger when
// the live price moves ThresholdPercent away from the buy price in the
// watched direction. Rules are one-shot; once triggered they stay triggered.
type NotificationRule struct {
	ID               uuid.UUID             `json:"id" db:"id"`
	AssetID          uuid.UUID             `json:"asset_id" db:"asset_id"`
	Direction        NotificationDirection `json:"direction" db:"direction"`
	ThresholdPercent int                   `json:"threshold_percent" db:"threshold_percent"`
	Triggered        bool                  `json:"triggered" db:"triggered"`
	LastTriggeredAt  *time.Time            `json:"last_triggered_at,omitempty" db:"last_triggered_at"`
	CreatedAt        time.Time             `json:"created_at" db:"created_at"`
}

// ShouldTrigger evaluates the rule against the percent change between the
// live price and the acquisition price
func (r *NotificationRule) ShouldTrigger(changePercent decimal.Decimal) bool {
	threshold := decimal.NewFromInt(int64(r.ThresholdPercent))
	switch r.Direction {
	case DirectionUp:
		return changePercent.GreaterThanOrEqual(threshold)
	case DirectionDown:
		return changePercent.LessThanOrEqual(threshold.Neg())
	}
	return false
}

// PricePoint is one sample in an asset's price history, recorded by the
// scheduled revaluation job for successfully resolved prices only.
type PricePoint struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	AssetID    uuid.UUID       `json:"asset_id" db:"asset_id"`
	Price      decimal.Decimal `json:"price" db:"price"`
	RecordedAt time.Time       `json:"recorded_at" db:"recorded_at"`
}

// TriggeredNotification reports one rule firing during a revaluation run
type TriggeredNotification struct {
	AssetID          uuid.UUID             `json:"asset_id"`
	Symbol           *string               `json:"symbol"`
	RuleID           uuid.UUID             `json:"rule_id"`
	Direction        NotificationDirection `json:"direction"`
	ThresholdPercent int                   `json:"threshold_percent"`
	ActualPercent    decimal.Decimal       `json:"actual_percent"`
}
