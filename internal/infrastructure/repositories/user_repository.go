package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
)

// UserRepository persists device-registered users in PostgreSQL
type UserRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// GetOrCreateByDeviceID returns the user for a device, registering it on
// first contact. Concurrent first contacts for the same device resolve to a
// single row via the unique constraint.
func (r *UserRepository) GetOrCreateByDeviceID(ctx context.Context, deviceID string) (*entities.User, error) {
	user, err := r.GetByDeviceID(ctx, deviceID)
	if err == nil {
		return user, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}

	created := &entities.User{
		ID:        uuid.New(),
		DeviceID:  deviceID,
		CreatedAt: time.Now().UTC(),
	}

	query := `INSERT INTO users (id, device_id, created_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, created.ID, created.DeviceID, created.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// lost the registration race, the row exists now
			return r.GetByDeviceID(ctx, deviceID)
		}
		r.logger.Error("Failed to create user", zap.Error(err))
		return nil, apperrors.Database("failed to create user")
	}

	r.logger.Debug("User registered", zap.String("user_id", created.ID.String()))
	return created, nil
}

// GetByDeviceID retrieves a user by device identifier
func (r *UserRepository) GetByDeviceID(ctx context.Context, deviceID string) (*entities.User, error) {
	var user entities.User
	query := `SELECT id, device_id, created_at FROM users WHERE device_id = $1`

	if err := r.db.GetContext(ctx, &user, query, deviceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user")
		}
		r.logger.Error("Failed to get user by device", zap.Error(err))
		return nil, apperrors.Database("failed to get user")
	}
	return &user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	query := `SELECT id, device_id, created_at FROM users WHERE id = $1`

	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user")
		}
		r.logger.Error("Failed to get user", zap.Error(err), zap.String("user_id", id.String()))
		return nil, apperrors.Database("failed to get user")
	}
	return &user, nil
}
