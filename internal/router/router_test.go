package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotelhub-pms/internal/booking"
	"github.com/iliyamo/hotelhub-pms/internal/config"
	"github.com/iliyamo/hotelhub-pms/internal/handler"
	"github.com/iliyamo/hotelhub-pms/internal/middleware"
	"github.com/iliyamo/hotelhub-pms/internal/model"
	"github.com/iliyamo/hotelhub-pms/internal/payment"
	"github.com/iliyamo/hotelhub-pms/internal/repository"
	"github.com/iliyamo/hotelhub-pms/internal/utils"
)

const secret = "router-test-secret"

type stubIntake struct{}

func (stubIntake) Handle(context.Context, []byte) (booking.Result, error) {
	return booking.Result{Success: true, ReservationID: "r-1"}, nil
}

type stubBooker struct{}

func (stubBooker) Book(context.Context, booking.Request) (booking.Outcome, error) {
	return booking.Outcome{State: booking.Committed, ReservationID: "r-1"}, nil
}

type stubAvail struct{}

func (stubAvail) Available(context.Context, string, time.Time, time.Time) (bool, error) {
	return true, nil
}

type noRooms struct{}

func (noRooms) List(context.Context, repository.RoomFilter) ([]model.Room, error) { return nil, nil }
func (noRooms) GetByNumber(context.Context, string) (model.Room, error) {
	return model.Room{}, repository.ErrNotFound
}

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	pass := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	store := payment.NewMemoryStore()
	clock := clockwork.NewRealClock()

	rooms := repository.NewRoomRepo(nil)
	photos := repository.NewPhotoRepo(nil)
	guests := repository.NewGuestRepo(nil)
	res := repository.NewReservationRepo(nil)

	e := echo.New()
	RegisterRoutes(e, nil)
	RegisterAuth(e, handler.NewAuthHandler(config.Config{JWTSecret: secret}, repository.NewUserRepo(nil), repository.NewTokenRepo(nil)), secret)
	RegisterStaff(e, StaffHandlers{
		Rooms:        handler.NewRoomHandler(rooms, photos, stubAvail{}, nil, ""),
		Photos:       handler.NewPhotoHandler(rooms, photos, nil),
		Guests:       handler.NewGuestHandler(guests),
		Reservations: handler.NewReservationHandler(res, rooms, guests, stubBooker{}, clock),
	}, secret, pass, pass)
	RegisterPayment(e, handler.NewPaymentHandler(nil, store, clock, 0, ""), pass)
	RegisterAgent(e, handler.NewAgentHandler(config.AgentConfig{AgentID: "a"}, noRooms{}, stubIntake{}), secret,
		middleware.RequirePaidSession(store, clock, 0), pass)
	return e
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, "user-1", role, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + tok.Token
}

func serve(e *echo.Echo, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouteGuards(t *testing.T) {
	e := newServer(t)
	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		body   string
		status int
	}{
		{"health", http.MethodGet, "/healthz", "", "", http.StatusOK},
		{"rooms need a token", http.MethodGet, "/v1/rooms", "", "", http.StatusUnauthorized},
		{"agent token cannot list rooms", http.MethodGet, "/v1/rooms", token(t, model.RoleAgent), "", http.StatusForbidden},
		{"front desk cannot create rooms", http.MethodPost, "/v1/rooms", token(t, model.RoleFrontDesk), `{}`, http.StatusForbidden},
		{"staff books", http.MethodPost, "/v1/reservations", token(t, model.RoleFrontDesk),
			`{"guestName":"Ann","roomId":"r","checkInDate":"2024-03-15","checkOutDate":"2024-03-16"}`, http.StatusCreated},
		{"agent webhook needs agent role", http.MethodPost, "/v1/agent/reservations", token(t, model.RoleFrontDesk), `{}`, http.StatusForbidden},
		{"agent webhook", http.MethodPost, "/v1/agent/reservations", token(t, model.RoleAgent), `{}`, http.StatusOK},
		{"agent session needs payment", http.MethodGet, "/v1/agent/session", "", "", http.StatusPaymentRequired},
		{"checkout at root", http.MethodPost, "/create-checkout-session", "", `{}`, http.StatusBadRequest},
		{"checkout under api", http.MethodPost, "/api/create-checkout-session", "", `{}`, http.StatusBadRequest},
		{"verify under api", http.MethodPost, "/api/verify-payment", "", `{}`, http.StatusBadRequest},
		{"payment session is public", http.MethodGet, "/v1/payment/session", "", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, tt.method, tt.path, tt.auth, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("%s %s = %d, want %d (%s)", tt.method, tt.path, rec.Code, tt.status, rec.Body)
			}
		})
	}
}
