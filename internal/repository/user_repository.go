// backend-go/internal/repository/user_repository.go
package repository

import (
	"context"
	"errors"

	"github.com/influencerinsights/backend-go/internal/domain"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when an insert would reuse an email.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository is the persistent credential store. The demo-era in-memory
// user list is gone on purpose: credentials survive restarts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}
