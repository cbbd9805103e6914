package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/uhndata/delirium-scorecard/internal/core/domain"
	"github.com/uhndata/delirium-scorecard/internal/core/ports"
	"github.com/uhndata/delirium-scorecard/internal/pkg/password"
	"github.com/uhndata/delirium-scorecard/internal/pkg/token"
)

// AuthService implements sign-in, session resolution and password changes.
type AuthService struct {
	repo   ports.UserRepository
	hasher *password.Hasher
	tokens *token.Service
}

func NewAuthService(repo ports.UserRepository, hasher *password.Hasher, tokens *token.Service) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens}
}

// SignIn verifies the credentials and issues a session token. The caller
// cannot tell an unknown username from a wrong password.
func (s *AuthService) SignIn(ctx context.Context, username, pass string) (string, *domain.User, error) {
	if username == "" || pass == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	ok, err := s.hasher.Verify(pass, user.HashedPassword)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, domain.ErrInvalidCredentials
	}

	tkn, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		return "", nil, err
	}
	return tkn, user, nil
}

// ResolveUser turns a presented token into the acting user. Token failures
// and unknown subjects collapse to the generic unauthenticated error so a
// probing caller learns nothing; an expired token keeps its own kind, and
// an inactive account is rejected after authentication succeeds.
func (s *AuthService) ResolveUser(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.repo.GetByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}
	return user, nil
}

// UpdatePassword changes user's own password after re-proving the current
// one against the stored hash.
func (s *AuthService) UpdatePassword(ctx context.Context, user *domain.User, currentPassword, newPassword string) error {
	ok, err := s.hasher.Verify(currentPassword, user.HashedPassword)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidCredentials
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
