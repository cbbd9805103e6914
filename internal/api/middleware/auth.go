package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/uhndata/delirium-scorecard/internal/api/metrics"
	"github.com/uhndata/delirium-scorecard/internal/core/domain"
	"github.com/uhndata/delirium-scorecard/internal/core/ports"
)

// UserContextKey is where Auth stores the resolved *domain.User on the
// request context.
const UserContextKey = "auth_user"

// Auth extracts the bearer token, validates it and resolves the acting
// user, rejecting requests before any handler runs. Handlers behind it can
// rely on an authenticated, active user being present in context.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthRejectionsTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}

			user, err := auth.ResolveUser(c.Request().Context(), parts[1])
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTokenExpired):
					metrics.AuthRejectionsTotal.WithLabelValues("expired").Inc()
				case errors.Is(err, domain.ErrInactiveUser):
					metrics.AuthRejectionsTotal.WithLabelValues("inactive").Inc()
				default:
					metrics.AuthRejectionsTotal.WithLabelValues("unauthenticated").Inc()
				}
				return err
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}
