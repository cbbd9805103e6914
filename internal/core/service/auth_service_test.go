package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/uhndata/delirium-scorecard/internal/core/domain"
	"github.com/uhndata/delirium-scorecard/internal/core/ports"
	"github.com/uhndata/delirium-scorecard/internal/pkg/password"
	"github.com/uhndata/delirium-scorecard/internal/pkg/token"
)

func newAuthFixture(t *testing.T) (*AuthService, *UserService, *stubUserRepo) {
	t.Helper()
	repo := newStubUserRepo()
	hasher := password.NewHasher(4)
	tokens, err := token.NewService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	auth := NewAuthService(repo, hasher, tokens)
	users := NewUserService(repo, hasher, BootstrapAdmin{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "admin_password",
	})
	return auth, users, repo
}

func TestAuthService_SignIn_AfterBootstrap(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	if _, err := users.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}

	tkn, user, err := auth.SignIn(context.Background(), "admin", "admin_password")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if tkn == "" {
		t.Fatalf("expected a token")
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role %q", user.Role)
	}

	// The issued token decodes back to the admin role.
	resolved, err := auth.ResolveUser(context.Background(), tkn)
	if err != nil {
		t.Fatalf("ResolveUser returned error: %v", err)
	}
	if resolved.Role != domain.RoleAdmin || resolved.Username != "admin" {
		t.Fatalf("resolved wrong identity: %+v", resolved)
	}
}

func TestAuthService_SignIn_WrongPassword(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	if _, err := users.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}

	tkn, _, err := auth.SignIn(context.Background(), "admin", "nope")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if tkn != "" {
		t.Fatalf("no token must be issued on failure")
	}
}

func TestAuthService_SignIn_UnknownUserIndistinguishable(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	if _, err := users.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}

	_, _, unknownErr := auth.SignIn(context.Background(), "ghost", "whatever")
	_, _, wrongPassErr := auth.SignIn(context.Background(), "admin", "whatever")

	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) || !errors.Is(wrongPassErr, domain.ErrInvalidCredentials) {
		t.Fatalf("both failures must be ErrInvalidCredentials, got %v / %v", unknownErr, wrongPassErr)
	}
}

func TestAuthService_SignIn_MissingFields(t *testing.T) {
	auth, _, _ := newAuthFixture(t)

	if _, _, err := auth.SignIn(context.Background(), "", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := auth.SignIn(context.Background(), "user", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_ResolveUser_Inactive(t *testing.T) {
	auth, users, repo := newAuthFixture(t)
	admin, err := users.EnsureAdmin(context.Background())
	if err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}

	tkn, _, err := auth.SignIn(context.Background(), "admin", "admin_password")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}

	// Deactivate after the token was issued: the gate must still reject.
	admin.IsActive = false
	if _, err := repo.Update(context.Background(), admin); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if _, err := auth.ResolveUser(context.Background(), tkn); !errors.Is(err, domain.ErrInactiveUser) {
		t.Fatalf("expected ErrInactiveUser, got %v", err)
	}
}

func TestAuthService_ResolveUser_BadToken(t *testing.T) {
	auth, _, _ := newAuthFixture(t)

	if _, err := auth.ResolveUser(context.Background(), "garbage"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthService_UpdatePassword(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	admin, err := users.EnsureAdmin(context.Background())
	if err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}

	if err := auth.UpdatePassword(context.Background(), admin, "admin_password", "brand-new"); err != nil {
		t.Fatalf("UpdatePassword returned error: %v", err)
	}

	// Old credential no longer works, new one does.
	if _, _, err := auth.SignIn(context.Background(), "admin", "admin_password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, _, err := auth.SignIn(context.Background(), "admin", "brand-new"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestAuthService_UpdatePassword_WrongCurrent(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	admin, err := users.EnsureAdmin(context.Background())
	if err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}

	err = auth.UpdatePassword(context.Background(), admin, "not-the-password", "new")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	// The stored credential is untouched.
	if _, _, err := auth.SignIn(context.Background(), "admin", "admin_password"); err != nil {
		t.Fatalf("original password must still work: %v", err)
	}
}

var _ ports.AuthService = (*AuthService)(nil)
