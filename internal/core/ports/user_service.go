package ports

import (
	"context"

	"github.com/uhndata/delirium-scorecard/internal/core/domain"
)

// CreateUserInput carries the fields needed to create an account.
type CreateUserInput struct {
	Username string
	Email    string
	Role     string
	Password string
}

// UpdateUserInput carries the fields an admin may change on an account.
// Password is optional; empty means keep the current one.
type UpdateUserInput struct {
	Username string
	Email    string
	Role     string
	Password string
}

// UserService implements admin-facing user management plus the one-time
// bootstrap of the initial administrator.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	List(ctx context.Context, skip, limit int) ([]*domain.User, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error)
	// Delete returns domain.ErrUserNotFound when no such user exists.
	Delete(ctx context.Context, id int64) error

	// EnsureAdmin creates the reserved administrator account if absent.
	// Safe to call repeatedly and under concurrent startups: the losing
	// racer observes the winner's row via the uniqueness constraint.
	EnsureAdmin(ctx context.Context) (*domain.User, error)
}
