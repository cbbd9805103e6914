package ports

import (
	"context"

	"github.com/uhndata/delirium-scorecard/internal/core/domain"
)

// UserRepository defines the interface for durable user persistence.
// Implementations must commit each mutation atomically and surface
// uniqueness violations as domain.ErrUserExists.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns users ordered by ascending id, skipping skip rows and
	// returning at most limit.
	List(ctx context.Context, skip, limit int) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
	// Delete reports whether a row was removed; absence is not an error.
	Delete(ctx context.Context, id int64) (bool, error)
}
