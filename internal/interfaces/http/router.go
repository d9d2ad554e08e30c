package http

import (
	stdhttp "net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Middleware struct {
	Auth          echo.MiddlewareFunc
	XRay          echo.MiddlewareFunc
	RequestLogger echo.MiddlewareFunc
}

// NewRouter wires the full route surface. Health stays outside the auth
// boundary; everything else requires an identity, and the admin-only
// rules live in the services rather than the routing table.
func NewRouter(
	sessions *SessionHandler,
	crops *CropsHandler,
	schemes *SchemesHandler,
	grants *GrantsHandler,
	stats *StatsHandler,
	mw Middleware,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if mw.XRay != nil {
		e.Use(mw.XRay)
	}
	if mw.RequestLogger != nil {
		e.Use(mw.RequestLogger)
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(stdhttp.StatusOK, map[string]string{"status": "ok"})
	})

	g := e.Group("")
	if mw.Auth != nil {
		g.Use(mw.Auth)
	}

	g.GET("/me", sessions.Me)
	g.POST("/logout", sessions.Logout)

	g.GET("/crops", crops.List)
	g.POST("/crops", crops.Create)
	g.PUT("/crops/:id", crops.Update)
	g.DELETE("/crops/:id", crops.Delete)

	g.GET("/schemes", schemes.List)
	g.POST("/schemes", schemes.Create)
	g.PUT("/schemes/:id", schemes.Update)
	g.DELETE("/schemes/:id", schemes.Delete)

	g.POST("/schemes/:id/applications", grants.Apply)
	g.GET("/applications/mine", grants.ListMine)
	g.GET("/applications", grants.ListAll)
	g.PATCH("/applications/:id/status", grants.SetStatus)

	g.GET("/stats", stats.Overview)

	return e
}
