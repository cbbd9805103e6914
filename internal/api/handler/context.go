package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/uhndata/delirium-scorecard/internal/api/middleware"
	"github.com/uhndata/delirium-scorecard/internal/core/domain"
)

// currentUser extracts the user resolved by the Auth middleware and performs
// a fast-fail check before any service call: presence proves the middleware
// ran. A route wired without Auth would otherwise reach the service with a
// nil caller identity.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.UserContextKey).(*domain.User)
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}
