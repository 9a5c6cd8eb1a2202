package middleware

import (
	"profilehub/internal/authz"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const contextIdentityKey = "auth_identity"

func SetIdentity(c echo.Context, identity *authz.Identity) {
	c.Set(contextIdentityKey, identity)
}

func IdentityFromContext(c echo.Context) (*authz.Identity, bool) {
	identity, ok := c.Get(contextIdentityKey).(*authz.Identity)
	return identity, ok && identity != nil
}

func UserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	identity, ok := IdentityFromContext(c)
	if !ok {
		return uuid.Nil, false
	}
	return identity.UserID, true
}
