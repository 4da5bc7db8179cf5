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

// NotificationRepository persists threshold notification rules
type NotificationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sqlx.DB, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{db: db, logger: logger}
}

// CreateRule inserts a new armed rule
func (r *NotificationRepository) CreateRule(ctx context.Context, rule *entities.NotificationRule) error {
	rule.ID = uuid.New()
	rule.Triggered = false
	rule.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO notification_rules (id, asset_id, direction, threshold_percent, triggered, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.db.ExecContext(ctx, query,
		rule.ID, rule.AssetID, rule.Direction, rule.ThresholdPercent, rule.Triggered, rule.CreatedAt); err != nil {
		r.logger.Error("Failed to create notification rule", zap.Error(err), zap.String("asset_id", rule.AssetID.String()))
		return apperrors.Database("failed to create notification rule")
	}
	return nil
}

// ListByAsset lists all rules on one asset, oldest first
func (r *NotificationRepository) ListByAsset(ctx context.Context, assetID uuid.UUID) ([]entities.NotificationRule, error) {
	rules := []entities.NotificationRule{}
	query := `
		SELECT id, asset_id, direction, threshold_percent, triggered, last_triggered_at, created_at
		FROM notification_rules WHERE asset_id = $1 ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &rules, query, assetID); err != nil {
		r.logger.Error("Failed to list notification rules", zap.Error(err), zap.String("asset_id", assetID.String()))
		return nil, apperrors.Database("failed to list notification rules")
	}
	return rules, nil
}

// ListArmed lists every rule system-wide that has not yet fired
func (r *NotificationRepository) ListArmed(ctx context.Context) ([]entities.NotificationRule, error) {
	rules := []entities.NotificationRule{}
	query := `
		SELECT id, asset_id, direction, threshold_percent, triggered, last_triggered_at, created_at
		FROM notification_rules WHERE triggered = FALSE ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &rules, query); err != nil {
		r.logger.Error("Failed to list armed rules", zap.Error(err))
		return nil, apperrors.Database("failed to list armed rules")
	}
	return rules, nil
}

// MarkTriggered fires a rule one-shot; it does not re-arm
func (r *NotificationRepository) MarkTriggered(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE notification_rules SET triggered = TRUE, last_triggered_at = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		r.logger.Error("Failed to mark rule triggered", zap.Error(err), zap.String("rule_id", id.String()))
		return apperrors.Database("failed to mark rule triggered")
	}
	return nil
}

// DeleteRule removes a rule if it belongs to an asset owned by the user
func (r *NotificationRepository) DeleteRule(ctx context.Context, id, userID uuid.UUID) error {
	query := `
		DELETE FROM notification_rules n
		USING assets a, accounts acc
		WHERE n.id = $1 AND a.id = n.asset_id AND acc.id = a.account_id AND acc.user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete notification rule", zap.Error(err), zap.String("rule_id", id.String()))
		return apperrors.Database("failed to delete notification rule")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("notification rule")
	}
	return nil
}

// GetRuleForUser retrieves a rule owned (transitively) by the given user
func (r *NotificationRepository) GetRuleForUser(ctx context.Context, id, userID uuid.UUID) (*entities.NotificationRule, error) {
	var rule entities.NotificationRule
	query := `
		SELECT n.id, n.asset_id, n.direction, n.threshold_percent, n.triggered, n.last_triggered_at, n.created_at
		FROM notification_rules n
		JOIN assets a ON a.id = n.asset_id
		JOIN accounts acc ON acc.id = a.account_id
		WHERE n.id = $1 AND acc.user_id = $2`

	if err := r.db.GetContext(ctx, &rule, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("notification rule")
		}
		r.logger.Error("Failed to get notification rule", zap.Error(err), zap.String("rule_id", id.String()))
		return nil, apperrors.Database("failed to get notification rule")
	}
	return &rule, nil
}
