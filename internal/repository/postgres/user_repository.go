package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/influencerinsights/backend-go/internal/domain"
	"github.com/influencerinsights/backend-go/internal/repository"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts inside a transaction so two concurrent signups for the
// same email cannot both pass the existence check.
func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, user.Email,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check user email: %w", err)
		}
		if exists {
			return repository.ErrDuplicateEmail
		}

		query := `
			INSERT INTO users (id, email, password_hash, name, subscription_tier, subscription_status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`

		if _, err := tx.ExecContext(ctx, query,
			user.ID,
			user.Email,
			user.PasswordHash,
			user.Name,
			user.SubscriptionTier,
			user.SubscriptionStatus,
			user.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, email, password_hash, name, subscription_tier, subscription_status, created_at
		FROM users WHERE email = $1`

	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, email, password_hash, name, subscription_tier, subscription_status, created_at
		FROM users WHERE id = $1`

	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &user, nil
}
