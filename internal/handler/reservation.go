package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotelhub-pms/internal/apperr"
	"github.com/iliyamo/hotelhub-pms/internal/booking"
	"github.com/iliyamo/hotelhub-pms/internal/middleware"
	"github.com/iliyamo/hotelhub-pms/internal/model"
	"github.com/iliyamo/hotelhub-pms/internal/repository"
)

// Booker runs a booking attempt.  booking.Engine implements it.
type Booker interface {
	Book(ctx context.Context, req booking.Request) (booking.Outcome, error)
}

// ReservationHandler serves reservations: new bookings go through the
// booking engine, lifecycle moves run in one transaction with the room
// status they imply.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Rooms        *repository.RoomRepo
	Guests       *repository.GuestRepo
	Engine       Booker
	Clock        clockwork.Clock
	Cache        *redis.Client
	CachePrefix  string
}

func NewReservationHandler(res *repository.ReservationRepo, rooms *repository.RoomRepo, guests *repository.GuestRepo, engine Booker, clock clockwork.Clock) *ReservationHandler {
	if res == nil || rooms == nil || guests == nil || engine == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ReservationHandler{Reservations: res, Rooms: rooms, Guests: guests, Engine: engine, Clock: clock}
}

// WithCache makes lifecycle moves drop the cached room listings.
func (h *ReservationHandler) WithCache(rdb *redis.Client, prefix string) *ReservationHandler {
	h.Cache, h.CachePrefix = rdb, prefix
	return h
}

// List handles GET /v1/reservations?status=&room_id=&guest_id=.
func (h *ReservationHandler) List(c echo.Context) error {
	f := repository.ReservationFilter{
		Status:  model.ReservationStatus(strings.ToLower(strings.TrimSpace(c.QueryParam("status")))),
		RoomID:  strings.TrimSpace(c.QueryParam("room_id")),
		GuestID: strings.TrimSpace(c.QueryParam("guest_id")),
	}
	if f.Status != "" && !f.Status.Valid() {
		return fail(c, http.StatusBadRequest, "invalid status filter")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Reservations.List(ctx, f)
	if err != nil {
		return failRepo(c, err, "reservations")
	}
	out := make([]reservationView, 0, len(list))
	for _, r := range list {
		out = append(out, toReservationView(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	r, err := h.Reservations.GetByID(ctx, c.Param("id"))
	if err != nil {
		return failRepo(c, err, "reservation")
	}
	return c.JSON(http.StatusOK, toReservationView(r))
}

// Create handles POST /v1/reservations, the staff booking form.  The body
// and the answer follow the booking contract.
func (h *ReservationHandler) Create(c echo.Context) error {
	return book(c, h.Engine, "staff")
}

// book binds a booking.Request, runs it and answers with booking.Result:
// 201 on success, the error's status otherwise.
func book(c echo.Context, engine Booker, source string) error {
	var req booking.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, booking.Result{Success: false, Error: "Invalid request body"})
	}
	req.Source = source
	out, err := engine.Book(c.Request().Context(), req)
	if err != nil {
		return c.JSON(apperr.Status(err), out.Result())
	}
	return c.JSON(http.StatusCreated, out.Result())
}

// CheckIn handles POST /v1/reservations/:id/check-in.
func (h *ReservationHandler) CheckIn(c echo.Context) error {
	return h.transition(c, model.StatusCheckedIn, model.RoomOccupied, false,
		model.StatusPending, model.StatusConfirmed)
}

// CheckOut handles POST /v1/reservations/:id/check-out.  The room goes to
// cleaning and the guest's stay is recorded.
func (h *ReservationHandler) CheckOut(c echo.Context) error {
	return h.transition(c, model.StatusCheckedOut, model.RoomCleaning, true,
		model.StatusCheckedIn)
}

// Cancel handles POST /v1/reservations/:id/cancel.  Only reservations that
// have not started can be cancelled.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	return h.transition(c, model.StatusCancelled, "", false,
		model.StatusPending, model.StatusConfirmed)
}

// transition moves the reservation to `to` and, in the same transaction,
// sets the room to roomStatus (when non-empty) and records the guest's
// stay (when recordStay).
func (h *ReservationHandler) transition(c echo.Context, to model.ReservationStatus, roomStatus model.RoomStatus, recordStay bool, from ...model.ReservationStatus) error {
	id := c.Param("id")

	ctx, cancel := reqCtx(c)
	defer cancel()

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.Reservations.TransitionTx(ctx, tx, id, to, from...)
	if errors.Is(err, repository.ErrConflict) {
		return fail(c, http.StatusConflict, "reservation is "+string(res.Status)+" and cannot become "+string(to))
	}
	if err != nil {
		return failRepo(c, err, "reservation")
	}
	if err := h.sideEffectsTx(ctx, tx, res, roomStatus, recordStay); err != nil {
		return failRepo(c, err, "reservation")
	}
	if err := tx.Commit(); err != nil {
		return fail(c, http.StatusInternalServerError, "failed to commit transaction")
	}
	committed = true

	if roomStatus != "" {
		if err := middleware.InvalidateCache(c.Request().Context(), h.Cache, h.CachePrefix); err != nil {
			c.Logger().Warnf("room cache invalidation: %v", err)
		}
	}
	return c.JSON(http.StatusOK, toReservationView(res))
}

func (h *ReservationHandler) sideEffectsTx(ctx context.Context, tx *sql.Tx, res model.Reservation, roomStatus model.RoomStatus, recordStay bool) error {
	if roomStatus != "" {
		if err := h.Rooms.UpdateStatusTx(ctx, tx, res.RoomID, roomStatus); err != nil {
			return err
		}
	}
	if recordStay {
		if err := h.Guests.RecordStayTx(ctx, tx, res.GuestID, h.Clock.Now()); err != nil {
			return err
		}
	}
	return nil
}
