package ports

import (
	"context"

	"github.com/uhndata/delirium-scorecard/internal/core/domain"
)

// AuthService implements credential-based sign-in, session resolution and
// self-service password changes.
type AuthService interface {
	// SignIn verifies credentials and issues a session token. Unknown
	// usernames and wrong passwords are indistinguishable to the caller:
	// both return domain.ErrInvalidCredentials.
	SignIn(ctx context.Context, username, password string) (string, *domain.User, error)

	// ResolveUser validates a session token and loads the acting user,
	// rejecting inactive accounts.
	ResolveUser(ctx context.Context, tokenString string) (*domain.User, error)

	// UpdatePassword changes user's password after re-proving the current one.
	UpdatePassword(ctx context.Context, user *domain.User, currentPassword, newPassword string) error
}
