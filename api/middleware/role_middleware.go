package middleware

import (
	"errors"
	"net/http"

	"profilehub/internal/authz"
	"profilehub/internal/entity"

	"github.com/labstack/echo/v4"
)

func RequireRole(roles ...entity.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, _ := IdentityFromContext(c)
			err := authz.Authorize(identity, roles...)
			switch {
			case err == nil:
				return next(c)
			case errors.Is(err, authz.ErrUnauthenticated):
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			default:
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
		}
	}
}
