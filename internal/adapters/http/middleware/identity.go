package middleware

import (
	"github.com/labstack/echo/v4"

	"farmaid-portal/internal/domain"
)

const identityKey = "identity"

// SetIdentity stashes the verified identity on the request context for
// the handlers to pick up.
func SetIdentity(c echo.Context, identity domain.Identity) {
	c.Set(identityKey, identity)
}

// IdentityFrom returns the identity set by the auth middleware, or the
// zero identity for unauthenticated requests.
func IdentityFrom(c echo.Context) domain.Identity {
	identity, _ := c.Get(identityKey).(domain.Identity)
	return identity
}
