package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotelhub-pms/internal/model"
	"github.com/iliyamo/hotelhub-pms/internal/repository"
)

// GuestHandler serves the guest register.  Guests are created here by
// staff or implicitly by the booking engine; they are never deleted.
type GuestHandler struct {
	Guests *repository.GuestRepo
}

func NewGuestHandler(guests *repository.GuestRepo) *GuestHandler {
	if guests == nil {
		panic("nil repository passed to NewGuestHandler")
	}
	return &GuestHandler{Guests: guests}
}

type createGuestReq struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,max=40"`
	Notes string `json:"notes"`
}

// List handles GET /v1/guests.
func (h *GuestHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	guests, err := h.Guests.List(ctx)
	if err != nil {
		return failRepo(c, err, "guests")
	}
	out := make([]guestView, 0, len(guests))
	for _, g := range guests {
		out = append(out, toGuestView(g))
	}
	return c.JSON(http.StatusOK, echo.Map{"guests": out})
}

// Get handles GET /v1/guests/:id.
func (h *GuestHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	g, err := h.Guests.GetByID(ctx, c.Param("id"))
	if err != nil {
		return failRepo(c, err, "guest")
	}
	return c.JSON(http.StatusOK, toGuestView(g))
}

// Create handles POST /v1/guests.
func (h *GuestHandler) Create(c echo.Context) error {
	var req createGuestReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Notes = strings.TrimSpace(req.Notes)
	if err := validate.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, validationMessage(err))
	}

	g := model.Guest{
		Name:  req.Name,
		Email: strOrNil(req.Email),
		Phone: strOrNil(req.Phone),
		Notes: strOrNil(req.Notes),
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Guests.Create(ctx, &g); err != nil {
		return failRepo(c, err, "guest")
	}
	return c.JSON(http.StatusCreated, toGuestView(g))
}
