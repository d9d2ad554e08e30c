package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"farmaid-portal/internal/domain"
	"farmaid-portal/internal/infrastructure/config"
)

// Debug identity headers honored when AUTH_MODE=none. They stand in for
// the identity provider during local development and tests.
const (
	HeaderDebugUser  = "X-Debug-User"
	HeaderDebugEmail = "X-Debug-Email"
	HeaderDebugName  = "X-Debug-Name"
)

// AuthMiddleware selects the identity source for the deployment. With
// ModeCognito, verify must be the Cognito token handler; with ModeNone,
// identity comes from the debug headers.
func AuthMiddleware(mode config.Mode, verify echo.MiddlewareFunc) (echo.MiddlewareFunc, error) {
	switch mode {
	case config.ModeNone:
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				SetIdentity(c, domain.Identity{
					UID:   c.Request().Header.Get(HeaderDebugUser),
					Email: c.Request().Header.Get(HeaderDebugEmail),
					Name:  c.Request().Header.Get(HeaderDebugName),
				})
				return next(c)
			}
		}, nil
	case config.ModeCognito:
		if verify == nil {
			return nil, errors.New("token verifier is required when AUTH_MODE=cognito")
		}
		return verify, nil
	default:
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return echo.NewHTTPError(http.StatusInternalServerError, "invalid auth mode")
			}
		}, errors.New("invalid auth mode")
	}
}
