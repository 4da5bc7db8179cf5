package assets

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
	"github.com/folio-service/folio_service/internal/infrastructure/repositories"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
)

// Service owns asset and notification-rule lifecycle. All lookups are
// ownership-scoped: an asset reachable only through another user's account
// behaves as absent.
type Service struct {
	accounts      *repositories.AccountRepository
	assets        *repositories.AssetRepository
	notifications *repositories.NotificationRepository
	history       *repositories.PriceHistoryRepository
	logger        *zap.Logger
}

// NewService creates a new asset service
func NewService(
	accounts *repositories.AccountRepository,
	assets *repositories.AssetRepository,
	notifications *repositories.NotificationRepository,
	history *repositories.PriceHistoryRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		accounts:      accounts,
		assets:        assets,
		notifications: notifications,
		history:       history,
		logger:        logger,
	}
}

// CreateInput carries the caller-supplied fields for a new asset
type CreateInput struct {
	Type             entities.AssetType
	Symbol           *string
	Quantity         decimal.Decimal
	BuyPrice         decimal.Decimal
	Location         *string
	Area             *decimal.Decimal
	PropertyType     *entities.PropertyType
	CurrentValuation *decimal.Decimal
	RentalIncome     *decimal.Decimal
	Notes            *string
}

// maxAmount caps quantity and price inputs
var maxAmount = decimal.New(1, 15)

const (
	maxSymbolLen   = 20
	maxLocationLen = 500
	maxNotesLen    = 2000
)

func (in *CreateInput) validate() error {
	if !in.Type.IsValid() {
		return apperrors.ValidationError("unknown asset type")
	}
	if in.Type.RequiresSymbol() && (in.Symbol == nil || *in.Symbol == "") {
		return apperrors.New(apperrors.ErrCodeMissingField, "symbol is required for this asset type")
	}
	if in.Symbol != nil && len(*in.Symbol) > maxSymbolLen {
		return apperrors.ValidationError("symbol is too long")
	}
	if !in.Quantity.IsPositive() || in.Quantity.GreaterThan(maxAmount) {
		return apperrors.ValidationError("quantity must be positive")
	}
	if !in.BuyPrice.IsPositive() || in.BuyPrice.GreaterThan(maxAmount) {
		return apperrors.ValidationError("buy price must be positive")
	}
	if in.Type != entities.AssetTypeRealEstate &&
		(in.Location != nil || in.Area != nil || in.PropertyType != nil ||
			in.CurrentValuation != nil || in.RentalIncome != nil) {
		return apperrors.ValidationError("real estate attributes are only valid for REAL_ESTATE assets")
	}
	return validateRealEstate(in.Location, in.Area, in.PropertyType, in.CurrentValuation, in.RentalIncome, in.Notes)
}

func validateRealEstate(location *string, area *decimal.Decimal, propertyType *entities.PropertyType, currentValuation, rentalIncome *decimal.Decimal, notes *string) error {
	if propertyType != nil && !propertyType.IsValid() {
		return apperrors.ValidationError("unknown property type")
	}
	if location != nil && len(*location) > maxLocationLen {
		return apperrors.ValidationError("location is too long")
	}
	if area != nil && !area.IsPositive() {
		return apperrors.ValidationError("area must be positive")
	}
	if currentValuation != nil && !currentValuation.IsPositive() {
		return apperrors.ValidationError("current valuation must be positive")
	}
	if rentalIncome != nil && rentalIncome.IsNegative() {
		return apperrors.ValidationError("rental income cannot be negative")
	}
	if notes != nil && len(*notes) > maxNotesLen {
		return apperrors.ValidationError("notes are too long")
	}
	return nil
}

// Create validates and stores a new asset in the given account
func (s *Service) Create(ctx context.Context, userID, accountID uuid.UUID, in *CreateInput) (*entities.Asset, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.accounts.GetForUser(ctx, accountID, userID); err != nil {
		return nil, err
	}

	asset := &entities.Asset{
		AccountID:        accountID,
		Type:             in.Type,
		Symbol:           in.Symbol,
		Quantity:         in.Quantity,
		BuyPrice:         in.BuyPrice,
		Location:         in.Location,
		Area:             in.Area,
		PropertyType:     in.PropertyType,
		CurrentValuation: in.CurrentValuation,
		RentalIncome:     in.RentalIncome,
		Notes:            in.Notes,
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// UpdateInput carries the mutable fields of an asset; nil leaves a field
// unchanged
type UpdateInput struct {
	Symbol           *string
	Quantity         *decimal.Decimal
	BuyPrice         *decimal.Decimal
	Location         *string
	Area             *decimal.Decimal
	PropertyType     *entities.PropertyType
	CurrentValuation *decimal.Decimal
	RentalIncome     *decimal.Decimal
	Notes            *string
}

// Update applies a partial update to an asset owned by the user
func (s *Service) Update(ctx context.Context, userID, assetID uuid.UUID, in *UpdateInput) (*entities.Asset, error) {
	asset, err := s.assets.GetForUser(ctx, assetID, userID)
	if err != nil {
		return nil, err
	}

	if in.Symbol != nil {
		if len(*in.Symbol) > maxSymbolLen {
			return nil, apperrors.ValidationError("symbol is too long")
		}
		asset.Symbol = in.Symbol
	}
	if in.Quantity != nil {
		if !in.Quantity.IsPositive() || in.Quantity.GreaterThan(maxAmount) {
			return nil, apperrors.ValidationError("quantity must be positive")
		}
		asset.Quantity = *in.Quantity
	}
	if in.BuyPrice != nil {
		if !in.BuyPrice.IsPositive() || in.BuyPrice.GreaterThan(maxAmount) {
			return nil, apperrors.ValidationError("buy price must be positive")
		}
		asset.BuyPrice = *in.BuyPrice
	}
	if in.PropertyType != nil {
		asset.PropertyType = in.PropertyType
	}
	if in.Location != nil {
		asset.Location = in.Location
	}
	if in.Area != nil {
		asset.Area = in.Area
	}
	if in.CurrentValuation != nil {
		asset.CurrentValuation = in.CurrentValuation
	}
	if in.RentalIncome != nil {
		asset.RentalIncome = in.RentalIncome
	}
	if in.Notes != nil {
		asset.Notes = in.Notes
	}

	if asset.Type.RequiresSymbol() && asset.SymbolOrEmpty() == "" {
		return nil, apperrors.New(apperrors.ErrCodeMissingField, "symbol is required for this asset type")
	}
	if err := validateRealEstate(asset.Location, asset.Area, asset.PropertyType, asset.CurrentValuation, asset.RentalIncome, asset.Notes); err != nil {
		return nil, err
	}

	if err := s.assets.Update(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Get retrieves one asset owned by the user
func (s *Service) Get(ctx context.Context, userID, assetID uuid.UUID) (*entities.Asset, error) {
	return s.assets.GetForUser(ctx, assetID, userID)
}

// ListByAccount lists the assets in one of the user's accounts
func (s *Service) ListByAccount(ctx context.Context, userID, accountID uuid.UUID) ([]entities.Asset, error) {
	if _, err := s.accounts.GetForUser(ctx, accountID, userID); err != nil {
		return nil, err
	}
	return s.assets.ListByAccount(ctx, accountID)
}

// Delete removes an asset owned by the user
func (s *Service) Delete(ctx context.Context, userID, assetID uuid.UUID) error {
	return s.assets.Delete(ctx, assetID, userID)
}

// CreateRule validates and stores a threshold notification rule on an asset
// owned by the user
func (s *Service) CreateRule(ctx context.Context, userID, assetID uuid.UUID, direction entities.NotificationDirection, thresholdPercent int) (*entities.NotificationRule, error) {
	if !direction.IsValid() {
		return nil, apperrors.ValidationError("direction must be UP or DOWN")
	}
	if thresholdPercent < 1 || thresholdPercent > 100 {
		return nil, apperrors.ValidationError("threshold must be between 1 and 100")
	}
	if _, err := s.assets.GetForUser(ctx, assetID, userID); err != nil {
		return nil, err
	}

	rule := &entities.NotificationRule{
		AssetID:          assetID,
		Direction:        direction,
		ThresholdPercent: thresholdPercent,
	}
	if err := s.notifications.CreateRule(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// ListRules lists the rules on an asset owned by the user
func (s *Service) ListRules(ctx context.Context, userID, assetID uuid.UUID) ([]entities.NotificationRule, error) {
	if _, err := s.assets.GetForUser(ctx, assetID, userID); err != nil {
		return nil, err
	}
	return s.notifications.ListByAsset(ctx, assetID)
}

// DeleteRule removes a rule on an asset owned by the user
func (s *Service) DeleteRule(ctx context.Context, userID, ruleID uuid.UUID) error {
	return s.notifications.DeleteRule(ctx, ruleID, userID)
}

// PriceHistory lists recorded price samples for an asset owned by the user
func (s *Service) PriceHistory(ctx context.Context, userID, assetID uuid.UUID, limit int) ([]entities.PricePoint, error) {
	if _, err := s.assets.GetForUser(ctx, assetID, userID); err != nil {
		return nil, err
	}
	return s.history.ListByAsset(ctx, assetID, limit)
}
