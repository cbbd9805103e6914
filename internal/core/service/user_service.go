package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/uhndata/delirium-scorecard/internal/core/domain"
	"github.com/uhndata/delirium-scorecard/internal/core/ports"
	"github.com/uhndata/delirium-scorecard/internal/pkg/password"
)

const defaultListLimit = 100

// BootstrapAdmin is the seed credential for the reserved administrator
// account created at first startup.
type BootstrapAdmin struct {
	Username string
	Email    string
	Password string
}

// UserService implements admin user management and the initial-admin bootstrap.
type UserService struct {
	repo      ports.UserRepository
	hasher    *password.Hasher
	bootstrap BootstrapAdmin
}

func NewUserService(repo ports.UserRepository, hasher *password.Hasher, bootstrap BootstrapAdmin) *UserService {
	return &UserService{repo: repo, hasher: hasher, bootstrap: bootstrap}
}

// Create adds a new account, hashing the password before it reaches storage.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if !domain.ValidRole(input.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrForbidden, input.Role)
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:       input.Username,
		Email:          input.Email,
		HashedPassword: hashed,
		Role:           input.Role,
		IsActive:       true,
	}
	return s.repo.Create(ctx, user)
}

// List returns users in ascending id order. limit <= 0 selects the default
// page size.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]*domain.User, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.repo.List(ctx, skip, limit)
}

// Update changes username, email and role; a non-empty Password also
// rotates the stored hash within the same transaction.
func (s *UserService) Update(ctx context.Context, id int64, input ports.UpdateUserInput) (*domain.User, error) {
	if !domain.ValidRole(input.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrForbidden, input.Role)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current.Username = input.Username
	current.Email = input.Email
	current.Role = input.Role
	if input.Password != "" {
		hashed, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		current.HashedPassword = hashed
	}
	return s.repo.Update(ctx, current)
}

// Delete removes the account, reporting absence as domain.ErrUserNotFound.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureAdmin creates the reserved administrator if it does not exist yet.
// Under concurrent startups the uniqueness constraint on username is the
// arbiter: the loser sees ErrUserExists and re-reads the winner's row.
func (s *UserService) EnsureAdmin(ctx context.Context) (*domain.User, error) {
	admin, err := s.repo.GetByUsername(ctx, s.bootstrap.Username)
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := s.hasher.Hash(s.bootstrap.Password)
	if err != nil {
		return nil, err
	}
	admin, err = s.repo.Create(ctx, &domain.User{
		Username:       s.bootstrap.Username,
		Email:          s.bootstrap.Email,
		HashedPassword: hashed,
		Role:           domain.RoleAdmin,
		IsActive:       true,
	})
	if err == nil {
		return admin, nil
	}
	if errors.Is(err, domain.ErrUserExists) {
		// Lost the race: another instance inserted it first.
		return s.repo.GetByUsername(ctx, s.bootstrap.Username)
	}
	return nil, fmt.Errorf("bootstrap admin: %w", err)
}
