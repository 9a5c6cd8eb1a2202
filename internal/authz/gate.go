// Package authz decides whether a resolved caller may run a protected operation.
package authz

import (
	"errors"
	"slices"

	"profilehub/internal/entity"

	"github.com/google/uuid"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("insufficient permission")
)

// Identity is the caller attached to a request by the authentication step.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Role   entity.UserRole
}

// Authorize fails with ErrUnauthenticated when no identity is attached and
// with ErrForbidden when the identity's role is not among allowed. An empty
// allowed set only requires authentication.
func Authorize(identity *Identity, allowed ...entity.UserRole) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if len(allowed) == 0 {
		return nil
	}
	if !slices.Contains(allowed, identity.Role) {
		return ErrForbidden
	}
	return nil
}
