package middleware

import (
	"net/http"
	"strings"

	"profilehub/internal/authz"
	"profilehub/internal/entity"
	"profilehub/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type SessionVerifier interface {
	Parse(token string, kind utils.TokenKind) (*utils.Claims, error)
}

type AuthMiddleware struct {
	Tokens SessionVerifier
}

// RequireAuth accepts only session tokens; verify and reset tokens are
// rejected here even when their signature is valid.
func (m AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.Tokens == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		token := extractBearerToken(c.Request())
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "access token is required")
		}
		claims, err := m.Tokens.Parse(token, utils.SessionToken)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		SetIdentity(c, &authz.Identity{
			UserID: userID,
			Email:  claims.Email,
			Name:   claims.Name,
			Role:   entity.UserRole(claims.Role),
		})
		return next(c)
	}
}

func extractBearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
