package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/uhndata/delirium-scorecard/internal/api/middleware"
	"github.com/uhndata/delirium-scorecard/internal/core/domain"
	"github.com/uhndata/delirium-scorecard/internal/core/ports"
)

type stubAuthService struct {
	token       string
	user        *domain.User
	signInErr   error
	passwordErr error
}

func (s *stubAuthService) SignIn(context.Context, string, string) (string, *domain.User, error) {
	if s.signInErr != nil {
		return "", nil, s.signInErr
	}
	return s.token, s.user, nil
}

func (s *stubAuthService) ResolveUser(context.Context, string) (*domain.User, error) {
	return s.user, nil
}

func (s *stubAuthService) UpdatePassword(context.Context, *domain.User, string, string) error {
	return s.passwordErr
}

type stubUserService struct {
	user      *domain.User
	users     []*domain.User
	err       error
	deletedID int64
}

func (s *stubUserService) Create(_ context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.User{ID: 2, Username: input.Username, Email: input.Email, Role: input.Role, IsActive: true}, nil
}

func (s *stubUserService) List(context.Context, int, int) ([]*domain.User, error) {
	return s.users, s.err
}

func (s *stubUserService) Update(_ context.Context, id int64, input ports.UpdateUserInput) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.User{ID: id, Username: input.Username, Email: input.Email, Role: input.Role, IsActive: true}, nil
}

func (s *stubUserService) Delete(_ context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	s.deletedID = id
	return nil
}

func (s *stubUserService) EnsureAdmin(context.Context) (*domain.User, error) {
	return s.user, s.err
}

// newRequestContext builds an echo context with the validator wired, the way
// the router configures it.
func newRequestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_SignIn(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		token: "token-123",
		user:  &domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin, IsActive: true},
	}, &stubUserService{})

	c, rec := newRequestContext(http.MethodPost, "/auth/signin", `{"username":"admin","password":"admin_password"}`)
	if err := h.SignIn(c); err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp signinResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.AccessToken != "token-123" || resp.TokenType != "bearer" {
		t.Fatalf("unexpected token payload: %+v", resp)
	}
	if resp.User.Username != "admin" || resp.User.Role != domain.RoleAdmin {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}
}

func TestAuthHandler_SignIn_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{})

	c, _ := newRequestContext(http.MethodPost, "/auth/signin", `{"username":"admin"}`)
	err := h.SignIn(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestAuthHandler_SignIn_BadCredentials(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{signInErr: domain.ErrInvalidCredentials}, &stubUserService{})

	c, _ := newRequestContext(http.MethodPost, "/auth/signin", `{"username":"admin","password":"wrong"}`)
	if err := h.SignIn(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Session(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{})

	c, rec := newRequestContext(http.MethodGet, "/auth/session", "")
	c.Set(middleware.UserContextKey, &domain.User{ID: 1, Username: "admin", Email: "admin@example.com", Role: domain.RoleAdmin})

	if err := h.Session(c); err != nil {
		t.Fatalf("Session returned error: %v", err)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.User.Email != "admin@example.com" {
		t.Fatalf("unexpected session payload: %+v", resp.User)
	}
}

func TestAuthHandler_Session_NoUser(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{})

	c, _ := newRequestContext(http.MethodGet, "/auth/session", "")
	if err := h.Session(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthHandler_SignOut(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{})

	c, rec := newRequestContext(http.MethodPost, "/auth/signout", "")
	c.Set(middleware.UserContextKey, &domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin})

	if err := h.SignOut(c); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}

	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Message != "Successfully signed out" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestAuthHandler_SignUp(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{})

	c, rec := newRequestContext(http.MethodPost, "/auth/signup",
		`{"username":"nurse1","email":"nurse1@example.com","role":"staff","password":"s3cret"}`)
	if err := h.SignUp(c); err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var created domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if created.Username != "nurse1" || created.Role != domain.RoleStaff {
		t.Fatalf("unexpected created user: %+v", created)
	}
	if strings.Contains(rec.Body.String(), "hashed_password") {
		t.Fatalf("response must not expose the password hash: %s", rec.Body.String())
	}
}

func TestAuthHandler_SignUp_InvalidRole(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{})

	c, _ := newRequestContext(http.MethodPost, "/auth/signup",
		`{"username":"nurse1","email":"nurse1@example.com","role":"superuser","password":"s3cret"}`)
	err := h.SignUp(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestAuthHandler_SignUp_Conflict(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{err: domain.ErrUserExists})

	c, _ := newRequestContext(http.MethodPost, "/auth/signup",
		`{"username":"nurse1","email":"nurse1@example.com","role":"staff","password":"s3cret"}`)
	if err := h.SignUp(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{})

	c, rec := newRequestContext(http.MethodPost, "/auth/update-password",
		`{"currentPassword":"old","newPassword":"new"}`)
	c.Set(middleware.UserContextKey, &domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin})

	if err := h.UpdatePassword(c); err != nil {
		t.Fatalf("UpdatePassword returned error: %v", err)
	}

	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Message != "Password updated successfully" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestAuthHandler_UpdatePassword_WrongCurrent(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{passwordErr: domain.ErrInvalidCredentials}, &stubUserService{})

	c, _ := newRequestContext(http.MethodPost, "/auth/update-password",
		`{"currentPassword":"wrong","newPassword":"new"}`)
	c.Set(middleware.UserContextKey, &domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin})

	err := h.UpdatePassword(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if he.Message != "Incorrect current password" {
		t.Fatalf("unexpected message %v", he.Message)
	}
}

func TestAuthHandler_UpdatePassword_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{})

	c, _ := newRequestContext(http.MethodPost, "/auth/update-password", `{"currentPassword":"old"}`)
	c.Set(middleware.UserContextKey, &domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin})

	err := h.UpdatePassword(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

var _ ports.AuthService = (*stubAuthService)(nil)
var _ ports.UserService = (*stubUserService)(nil)
