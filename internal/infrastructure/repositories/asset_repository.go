package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
)

// AssetWithAccount is an asset row joined with its account name, used when
// valuating across a user's whole portfolio.
type AssetWithAccount struct {
	entities.Asset
	AccountName string `db:"account_name"`
}

// AssetRepository persists asset positions in PostgreSQL
type AssetRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *sqlx.DB, logger *zap.Logger) *AssetRepository {
	return &AssetRepository{db: db, logger: logger}
}

const assetColumns = `id, account_id, type, symbol, quantity, buy_price,
	location, area, property_type, current_valuation, rental_income, notes,
	created_at, updated_at`

// Create inserts a new asset position
func (r *AssetRepository) Create(ctx context.Context, asset *entities.Asset) error {
	now := time.Now().UTC()
	asset.ID = uuid.New()
	asset.CreatedAt = now
	asset.UpdatedAt = now

	query := `
		INSERT INTO assets (
			id, account_id, type, symbol, quantity, buy_price,
			location, area, property_type, current_valuation, rental_income, notes,
			created_at, updated_at
		) VALUES (
			:id, :account_id, :type, :symbol, :quantity, :buy_price,
			:location, :area, :property_type, :current_valuation, :rental_income, :notes,
			:created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, asset); err != nil {
		r.logger.Error("Failed to create asset", zap.Error(err), zap.String("account_id", asset.AccountID.String()))
		return apperrors.Database("failed to create asset")
	}

	r.logger.Debug("Asset created",
		zap.String("asset_id", asset.ID.String()),
		zap.String("type", string(asset.Type)))
	return nil
}

// Update rewrites the mutable fields of an asset position
func (r *AssetRepository) Update(ctx context.Context, asset *entities.Asset) error {
	asset.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE assets SET
			symbol = :symbol, quantity = :quantity, buy_price = :buy_price,
			location = :location, area = :area, property_type = :property_type,
			current_valuation = :current_valuation, rental_income = :rental_income,
			notes = :notes, updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, asset)
	if err != nil {
		r.logger.Error("Failed to update asset", zap.Error(err), zap.String("asset_id", asset.ID.String()))
		return apperrors.Database("failed to update asset")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.New(apperrors.ErrCodeAssetNotFound, "asset not found")
	}
	return nil
}

// GetForUser retrieves an asset owned (transitively) by the given user
func (r *AssetRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*entities.Asset, error) {
	var asset entities.Asset
	query := `
		SELECT a.id, a.account_id, a.type, a.symbol, a.quantity, a.buy_price,
			a.location, a.area, a.property_type, a.current_valuation, a.rental_income, a.notes,
			a.created_at, a.updated_at
		FROM assets a
		JOIN accounts acc ON acc.id = a.account_id
		WHERE a.id = $1 AND acc.user_id = $2`

	if err := r.db.GetContext(ctx, &asset, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.New(apperrors.ErrCodeAssetNotFound, "asset not found")
		}
		r.logger.Error("Failed to get asset", zap.Error(err), zap.String("asset_id", id.String()))
		return nil, apperrors.Database("failed to get asset")
	}
	return &asset, nil
}

// ListByAccount lists the positions in one account, oldest first
func (r *AssetRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]entities.Asset, error) {
	assets := []entities.Asset{}
	query := `SELECT ` + assetColumns + ` FROM assets WHERE account_id = $1 ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &assets, query, accountID); err != nil {
		r.logger.Error("Failed to list assets", zap.Error(err), zap.String("account_id", accountID.String()))
		return nil, apperrors.Database("failed to list assets")
	}
	return assets, nil
}

// ListByUser lists every position across all of a user's accounts, joined
// with the account name
func (r *AssetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]AssetWithAccount, error) {
	assets := []AssetWithAccount{}
	query := `
		SELECT a.id, a.account_id, a.type, a.symbol, a.quantity, a.buy_price,
			a.location, a.area, a.property_type, a.current_valuation, a.rental_income, a.notes,
			a.created_at, a.updated_at, acc.name AS account_name
		FROM assets a
		JOIN accounts acc ON acc.id = a.account_id
		WHERE acc.user_id = $1
		ORDER BY a.created_at`

	if err := r.db.SelectContext(ctx, &assets, query, userID); err != nil {
		r.logger.Error("Failed to list user assets", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperrors.Database("failed to list assets")
	}
	return assets, nil
}

// ListPriceable lists every position system-wide whose type has live
// pricing. The scheduled revaluation job walks this set.
func (r *AssetRepository) ListPriceable(ctx context.Context) ([]entities.Asset, error) {
	assets := []entities.Asset{}
	query := `SELECT ` + assetColumns + ` FROM assets WHERE type IN ('CRYPTO', 'STOCK', 'GOLD') ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &assets, query); err != nil {
		r.logger.Error("Failed to list priceable assets", zap.Error(err))
		return nil, apperrors.Database("failed to list priceable assets")
	}
	return assets, nil
}

// Delete removes an asset owned (transitively) by the given user
func (r *AssetRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `
		DELETE FROM assets a
		USING accounts acc
		WHERE a.id = $1 AND acc.id = a.account_id AND acc.user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete asset", zap.Error(err), zap.String("asset_id", id.String()))
		return apperrors.Database("failed to delete asset")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.New(apperrors.ErrCodeAssetNotFound, "asset not found")
	}
	return nil
}
