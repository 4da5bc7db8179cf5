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

// AccountRepository persists accounts in PostgreSQL
type AccountRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *sqlx.DB, logger *zap.Logger) *AccountRepository {
	return &AccountRepository{db: db, logger: logger}
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, userID uuid.UUID, name string) (*entities.Account, error) {
	account := &entities.Account{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	query := `INSERT INTO accounts (id, user_id, name, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, account.ID, account.UserID, account.Name, account.CreatedAt); err != nil {
		r.logger.Error("Failed to create account", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperrors.Database("failed to create account")
	}
	return account, nil
}

// GetForUser retrieves an account owned by the given user. Ownership is part
// of the lookup, a foreign account behaves as absent.
func (r *AccountRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*entities.Account, error) {
	var account entities.Account
	query := `SELECT id, user_id, name, created_at FROM accounts WHERE id = $1 AND user_id = $2`

	if err := r.db.GetContext(ctx, &account, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.New(apperrors.ErrCodeAccountNotFound, "account not found")
		}
		r.logger.Error("Failed to get account", zap.Error(err), zap.String("account_id", id.String()))
		return nil, apperrors.Database("failed to get account")
	}
	return &account, nil
}

// ListByUser lists all accounts owned by a user, oldest first
func (r *AccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entities.Account, error) {
	accounts := []entities.Account{}
	query := `SELECT id, user_id, name, created_at FROM accounts WHERE user_id = $1 ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &accounts, query, userID); err != nil {
		r.logger.Error("Failed to list accounts", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperrors.Database("failed to list accounts")
	}
	return accounts, nil
}

// Delete removes an account and, via cascade, its assets
func (r *AccountRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM accounts WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete account", zap.Error(err), zap.String("account_id", id.String()))
		return apperrors.Database("failed to delete account")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.New(apperrors.ErrCodeAccountNotFound, "account not found")
	}
	return nil
}
