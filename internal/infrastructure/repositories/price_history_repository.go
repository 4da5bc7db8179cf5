package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
)

// PriceHistoryRepository persists price samples recorded by the scheduled
// revaluation job
type PriceHistoryRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPriceHistoryRepository creates a new price history repository
func NewPriceHistoryRepository(db *sqlx.DB, logger *zap.Logger) *PriceHistoryRepository {
	return &PriceHistoryRepository{db: db, logger: logger}
}

// Record inserts one price sample for an asset
func (r *PriceHistoryRepository) Record(ctx context.Context, assetID uuid.UUID, price decimal.Decimal, at time.Time) error {
	query := `INSERT INTO price_history (id, asset_id, price, recorded_at) VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, uuid.New(), assetID, price, at); err != nil {
		r.logger.Error("Failed to record price sample", zap.Error(err), zap.String("asset_id", assetID.String()))
		return apperrors.Database("failed to record price sample")
	}
	return nil
}

// ListByAsset lists the most recent samples for an asset, newest first
func (r *PriceHistoryRepository) ListByAsset(ctx context.Context, assetID uuid.UUID, limit int) ([]entities.PricePoint, error) {
	if limit <= 0 {
		limit = 100
	}

	points := []entities.PricePoint{}
	query := `
		SELECT id, asset_id, price, recorded_at
		FROM price_history WHERE asset_id = $1
		ORDER BY recorded_at DESC LIMIT $2`

	if err := r.db.SelectContext(ctx, &points, query, assetID, limit); err != nil {
		r.logger.Error("Failed to list price history", zap.Error(err), zap.String("asset_id", assetID.String()))
		return nil, apperrors.Database("failed to list price history")
	}
	return points, nil
}
