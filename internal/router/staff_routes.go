package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotelhub-pms/internal/handler"
	"github.com/iliyamo/hotelhub-pms/internal/middleware"
	"github.com/iliyamo/hotelhub-pms/internal/model"
)

// StaffHandlers groups the handlers of the front-desk API.
type StaffHandlers struct {
	Rooms        *handler.RoomHandler
	Photos       *handler.PhotoHandler
	Guests       *handler.GuestHandler
	Reservations *handler.ReservationHandler
}

// RegisterStaff registers the PMS endpoints under /v1.  Every route needs
// a staff JWT; room inventory changes need ADMIN.  cache wraps the room
// listing and limit wraps the booking endpoint.
func RegisterStaff(e *echo.Echo, h StaffHandlers, jwtSecret string, cache, limit echo.MiddlewareFunc) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleFrontDesk),
	)
	admin := middleware.RequireRole(model.RoleAdmin)

	// ---- Rooms ----
	g.GET("/rooms", h.Rooms.List, cache)
	g.GET("/rooms/:id", h.Rooms.Get)
	g.GET("/rooms/:id/availability", h.Rooms.Availability)
	g.POST("/rooms", h.Rooms.Create, admin)
	g.PATCH("/rooms/:id", h.Rooms.Patch, admin)
	g.PATCH("/rooms/:id/status", h.Rooms.SetStatus)

	// ---- Room photos ----
	g.POST("/rooms/:id/photos", h.Photos.Upload, admin)
	g.DELETE("/rooms/:id/photos/:photoId", h.Photos.Delete, admin)

	// ---- Guests ----
	g.GET("/guests", h.Guests.List)
	g.GET("/guests/:id", h.Guests.Get)
	g.POST("/guests", h.Guests.Create)

	// ---- Reservations ----
	g.GET("/reservations", h.Reservations.List)
	g.GET("/reservations/:id", h.Reservations.Get)
	g.POST("/reservations", h.Reservations.Create, limit)
	g.POST("/reservations/:id/check-in", h.Reservations.CheckIn)
	g.POST("/reservations/:id/check-out", h.Reservations.CheckOut)
	g.POST("/reservations/:id/cancel", h.Reservations.Cancel)
}
