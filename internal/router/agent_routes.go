package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotelhub-pms/internal/handler"
	"github.com/iliyamo/hotelhub-pms/internal/middleware"
	"github.com/iliyamo/hotelhub-pms/internal/model"
)

// RegisterAgent registers the voice-agent endpoints.  The session
// bootstrap is gated by a paid session; the booking webhook by an AGENT
// token.
func RegisterAgent(e *echo.Echo, a *handler.AgentHandler, jwtSecret string, paid, limit echo.MiddlewareFunc) {
	e.GET("/v1/agent/session", a.Session, paid)
	e.POST("/v1/agent/reservations", a.Book,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAgent),
		limit,
	)
}
