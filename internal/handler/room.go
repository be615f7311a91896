package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotelhub-pms/internal/booking"
	"github.com/iliyamo/hotelhub-pms/internal/middleware"
	"github.com/iliyamo/hotelhub-pms/internal/model"
	"github.com/iliyamo/hotelhub-pms/internal/repository"
)

// Availability answers whether a room is free for a stay.  booking.Engine
// implements it.
type Availability interface {
	Available(ctx context.Context, roomID string, in, out time.Time) (bool, error)
}

// RoomHandler serves the room inventory.  Writes drop the cached room
// listings when a Redis client is configured.
type RoomHandler struct {
	Rooms       *repository.RoomRepo
	Photos      *repository.PhotoRepo
	Avail       Availability
	Cache       *redis.Client
	CachePrefix string
}

func NewRoomHandler(rooms *repository.RoomRepo, photos *repository.PhotoRepo, avail Availability, rdb *redis.Client, cachePrefix string) *RoomHandler {
	if rooms == nil || photos == nil || avail == nil {
		panic("nil dependency passed to NewRoomHandler")
	}
	return &RoomHandler{Rooms: rooms, Photos: photos, Avail: avail, Cache: rdb, CachePrefix: cachePrefix}
}

type createRoomReq struct {
	RoomNumber    string  `json:"roomNumber" validate:"required,max=20"`
	RoomType      string  `json:"roomType" validate:"required,oneof=standard deluxe suite"`
	PricePerNight float64 `json:"pricePerNight" validate:"gt=0"`
	Status        string  `json:"status" validate:"omitempty,oneof=available occupied cleaning maintenance"`
	Description   *string `json:"description"`
}

type patchRoomReq struct {
	RoomNumber    *string  `json:"roomNumber" validate:"omitempty,min=1,max=20"`
	RoomType      *string  `json:"roomType" validate:"omitempty,oneof=standard deluxe suite"`
	PricePerNight *float64 `json:"pricePerNight" validate:"omitempty,gt=0"`
	Status        *string  `json:"status" validate:"omitempty,oneof=available occupied cleaning maintenance"`
	Description   *string  `json:"description"`
}

type roomStatusReq struct {
	Status string `json:"status" validate:"required,oneof=available occupied cleaning maintenance"`
}

func (h *RoomHandler) invalidate(c echo.Context) {
	if err := middleware.InvalidateCache(c.Request().Context(), h.Cache, h.CachePrefix); err != nil {
		c.Logger().Warnf("room cache invalidation: %v", err)
	}
}

// List handles GET /v1/rooms?status=&type=.
func (h *RoomHandler) List(c echo.Context) error {
	f := repository.RoomFilter{
		Status: model.RoomStatus(strings.ToLower(strings.TrimSpace(c.QueryParam("status")))),
		Type:   model.RoomType(strings.ToLower(strings.TrimSpace(c.QueryParam("type")))),
	}
	if f.Status != "" && !f.Status.Valid() {
		return fail(c, http.StatusBadRequest, "invalid status filter")
	}
	if f.Type != "" && !f.Type.Valid() {
		return fail(c, http.StatusBadRequest, "invalid type filter")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rooms, err := h.Rooms.List(ctx, f)
	if err != nil {
		return failRepo(c, err, "rooms")
	}
	out := make([]roomView, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, toRoomView(rm))
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": out})
}

// Get handles GET /v1/rooms/:id and includes the room's photos.
func (h *RoomHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	rm, err := h.Rooms.GetByID(ctx, c.Param("id"))
	if err != nil {
		return failRepo(c, err, "room")
	}
	photos, err := h.Photos.ListByRoom(ctx, rm.ID)
	if err != nil {
		return failRepo(c, err, "room photos")
	}
	v := toRoomView(rm)
	for _, p := range photos {
		v.Photos = append(v.Photos, toPhotoView(p))
	}
	return c.JSON(http.StatusOK, v)
}

// Create handles POST /v1/rooms.
func (h *RoomHandler) Create(c echo.Context) error {
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	req.RoomNumber = strings.TrimSpace(req.RoomNumber)
	req.RoomType = strings.ToLower(strings.TrimSpace(req.RoomType))
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := validate.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, validationMessage(err))
	}

	rm := model.Room{
		RoomNumber:    req.RoomNumber,
		RoomType:      model.RoomType(req.RoomType),
		PricePerNight: model.MoneyFromFloat(req.PricePerNight),
		Status:        model.RoomStatus(req.Status),
		Description:   req.Description,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Rooms.Create(ctx, &rm); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fail(c, http.StatusConflict, "room number already exists")
		}
		return failRepo(c, err, "room")
	}
	h.invalidate(c)
	created, err := h.Rooms.GetByID(ctx, rm.ID)
	if err != nil {
		return c.JSON(http.StatusCreated, toRoomView(rm))
	}
	return c.JSON(http.StatusCreated, toRoomView(created))
}

// Patch handles PATCH /v1/rooms/:id.  Absent fields keep their value.
func (h *RoomHandler) Patch(c echo.Context) error {
	var req patchRoomReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.RoomType != nil {
		t := strings.ToLower(strings.TrimSpace(*req.RoomType))
		req.RoomType = &t
	}
	if req.Status != nil {
		s := strings.ToLower(strings.TrimSpace(*req.Status))
		req.Status = &s
	}
	if req.RoomNumber != nil {
		n := strings.TrimSpace(*req.RoomNumber)
		req.RoomNumber = &n
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, validationMessage(err))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rm, err := h.Rooms.GetByID(ctx, c.Param("id"))
	if err != nil {
		return failRepo(c, err, "room")
	}
	if req.RoomNumber != nil {
		rm.RoomNumber = *req.RoomNumber
	}
	if req.RoomType != nil {
		rm.RoomType = model.RoomType(*req.RoomType)
	}
	if req.PricePerNight != nil {
		rm.PricePerNight = model.MoneyFromFloat(*req.PricePerNight)
	}
	if req.Status != nil {
		rm.Status = model.RoomStatus(*req.Status)
	}
	if req.Description != nil {
		rm.Description = strOrNil(strings.TrimSpace(*req.Description))
	}
	if err := h.Rooms.Update(ctx, rm); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fail(c, http.StatusConflict, "room number already exists")
		}
		return failRepo(c, err, "room")
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, toRoomView(rm))
}

// SetStatus handles PATCH /v1/rooms/:id/status.
func (h *RoomHandler) SetStatus(c echo.Context) error {
	var req roomStatusReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := validate.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, validationMessage(err))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Rooms.UpdateStatus(ctx, c.Param("id"), model.RoomStatus(req.Status)); err != nil {
		return failRepo(c, err, "room")
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "status": req.Status})
}

// Availability handles GET /v1/rooms/:id/availability?checkIn=&checkOut=.
// A failure to read reservations answers 503 with available=false.
func (h *RoomHandler) Availability(c echo.Context) error {
	in, err1 := booking.ParseDate(c.QueryParam("checkIn"))
	out, err2 := booking.ParseDate(c.QueryParam("checkOut"))
	if err1 != nil || err2 != nil {
		return fail(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
	}
	if !out.After(in) {
		return fail(c, http.StatusBadRequest, "Check-out date must be after check-in date")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rm, err := h.Rooms.GetByID(ctx, c.Param("id"))
	if err != nil {
		return failRepo(c, err, "room")
	}
	free, err := h.Avail.Available(ctx, rm.ID, in, out)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"available": false, "error": "Could not check room availability"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"available": free,
		"nights":    booking.Nights(in, out),
		"total":     booking.Total(rm.PricePerNight, booking.Nights(in, out)),
	})
}
