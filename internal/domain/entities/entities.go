package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetType enumerates the supported asset classes. It determines which
// upstream provider (if any) supplies live pricing.
type AssetType string

const (
	AssetTypeGold       AssetType = "GOLD"
	AssetTypeStock      AssetType = "STOCK"
	AssetTypeCrypto     AssetType = "CRYPTO"
	AssetTypeRealEstate AssetType = "REAL_ESTATE"
	AssetTypeOther      AssetType = "OTHER"
)

// AllAssetTypes lists every asset type in a stable order, used when building
// full distribution breakdowns.
var AllAssetTypes = []AssetType{
	AssetTypeGold,
	AssetTypeStock,
	AssetTypeCrypto,
	AssetTypeRealEstate,
	AssetTypeOther,
}

// IsValid reports whether t is a known asset type
func (t AssetType) IsValid() bool {
	switch t {
	case AssetTypeGold, AssetTypeStock, AssetTypeCrypto, AssetTypeRealEstate, AssetTypeOther:
		return true
	}
	return false
}

// RequiresSymbol reports whether a symbol is mandatory for this type
func (t AssetType) RequiresSymbol() bool {
	return t == AssetTypeStock || t == AssetTypeCrypto
}

// HasLivePricing reports whether this type resolves via an upstream provider
func (t AssetType) HasLivePricing() bool {
	switch t {
	case AssetTypeCrypto, AssetTypeStock, AssetTypeGold:
		return true
	}
	return false
}

// User is a device-registered owner of accounts
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	DeviceID  string    `json:"device_id" db:"device_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Account groups assets under a user-chosen name
type Account struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PropertyType categorizes real-estate holdings
type PropertyType string

const (
	PropertyApartment  PropertyType = "apartment"
	PropertyLand       PropertyType = "land"
	PropertyVilla      PropertyType = "villa"
	PropertyCommercial PropertyType = "commercial"
	PropertyOffice     PropertyType = "office"
	PropertyWarehouse  PropertyType = "warehouse"
	PropertyOther      PropertyType = "other"
)

// IsValid reports whether p is a known property type
func (p PropertyType) IsValid() bool {
	switch p {
	case PropertyApartment, PropertyLand, PropertyVilla, PropertyCommercial,
		PropertyOffice, PropertyWarehouse, PropertyOther:
		return true
	}
	return false
}

// Asset is a held quantity of a specific asset type/symbol. Quantity and
// BuyPrice are always positive; Symbol is required exactly when the type is
// STOCK or CRYPTO. Real-estate attributes are nil for every other type.
type Asset struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	AccountID uuid.UUID       `json:"account_id" db:"account_id"`
	Type      AssetType       `json:"type" db:"type"`
	Symbol    *string         `json:"symbol" db:"symbol"`
	Quantity  decimal.Decimal `json:"quantity" db:"quantity"`
	BuyPrice  decimal.Decimal `json:"buy_price" db:"buy_price"`

	// Real-estate attributes
	Location         *string          `json:"location,omitempty" db:"location"`
	Area             *decimal.Decimal `json:"area,omitempty" db:"area"`
	PropertyType     *PropertyType    `json:"property_type,omitempty" db:"property_type"`
	CurrentValuation *decimal.Decimal `json:"current_valuation,omitempty" db:"current_valuation"`
	RentalIncome     *decimal.Decimal `json:"rental_income,omitempty" db:"rental_income"`
	Notes            *string          `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SymbolOrEmpty returns the symbol, or "" when none is set
func (a *Asset) SymbolOrEmpty() string {
	if a.Symbol == nil {
		return ""
	}
	return *a.Symbol
}

// PriceQuery identifies the aggregator's lookup key for an asset
func (a *Asset) PriceQuery() PriceQuery {
	return PriceQuery{Type: a.Type, Symbol: a.SymbolOrEmpty()}
}

// ErrorResponse is the standard error payload returned by the API
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
