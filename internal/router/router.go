// Package router registers the HTTP surface.  Each Register function owns
// one group of routes and the middleware that guards it.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotelhub-pms/internal/handler"
	"github.com/iliyamo/hotelhub-pms/internal/middleware"
	"github.com/iliyamo/hotelhub-pms/internal/model"
)

// RegisterRoutes registers the unauthenticated probes.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	if db != nil {
		e.GET("/readyz", handler.Ready(db))
	}
}

// RegisterAuth registers staff login under /v1/auth and the protected
// /v1/me.  Logout is reachable without a JWT so a refresh token alone can
// end a session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleFrontDesk),
	)
	auth.GET("/me", a.Me)
}
