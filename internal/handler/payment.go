package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotelhub-pms/internal/apperr"
	"github.com/iliyamo/hotelhub-pms/internal/payment"
)

// PaymentHandler serves checkout creation, checkout verification and the
// paid session that verification opens.  Gateway is nil when no secret
// key is configured.
type PaymentHandler struct {
	Gateway          payment.Gateway
	Stores           payment.StoreProvider
	Clock            clockwork.Clock
	TTL              time.Duration
	DefaultReturnURL string
}

func NewPaymentHandler(gw payment.Gateway, stores payment.StoreProvider, clock clockwork.Clock, ttl time.Duration, defaultReturnURL string) *PaymentHandler {
	if stores == nil {
		panic("nil session store passed to NewPaymentHandler")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &PaymentHandler{Gateway: gw, Stores: stores, Clock: clock, TTL: ttl, DefaultReturnURL: defaultReturnURL}
}

type checkoutReq struct {
	PriceID   string `json:"priceId"`
	ReturnURL string `json:"returnUrl"`
}

type verifyReq struct {
	SessionID string `json:"sessionId"`
}

type verifyResp struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

var errKeyMissing = apperr.New(apperr.ConfigurationMissing, "Stripe secret key not configured")

func (h *PaymentHandler) gate(c echo.Context) *payment.Gate {
	return payment.NewGate(h.Stores.For(c.Response(), c.Request()), h.Clock, h.TTL)
}

// CreateCheckout handles POST /create-checkout-session.
func (h *PaymentHandler) CreateCheckout(c echo.Context) error {
	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	req.PriceID = strings.TrimSpace(req.PriceID)
	if req.PriceID == "" {
		return fail(c, http.StatusBadRequest, "Price ID is required")
	}
	if h.Gateway == nil {
		return failApp(c, errKeyMissing, "")
	}
	returnURL := strings.TrimSpace(req.ReturnURL)
	if returnURL == "" {
		returnURL = h.DefaultReturnURL
	}
	if returnURL == "" {
		return fail(c, http.StatusBadRequest, "Return URL is required")
	}

	success, cancel := payment.ReturnURLs(returnURL)
	url, err := h.Gateway.CreateCheckout(c.Request().Context(), payment.CheckoutRequest{
		PriceID:    req.PriceID,
		SuccessURL: success,
		CancelURL:  cancel,
	})
	if err != nil {
		c.Logger().Errorf("create checkout: %v", err)
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}

// VerifyPayment handles POST /verify-payment.  A paid checkout opens the
// paid session; an unpaid one answers 200 with success=false and leaves
// the session untouched.
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, verifyResp{Error: "invalid request body"})
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, verifyResp{Error: "Session ID is required"})
	}
	if h.Gateway == nil {
		return c.JSON(http.StatusInternalServerError, verifyResp{Error: errKeyMissing.Message})
	}

	ctx := c.Request().Context()
	paid, err := h.Gateway.IsPaid(ctx, req.SessionID)
	if err != nil {
		c.Logger().Errorf("verify payment %s: %v", req.SessionID, err)
		return c.JSON(http.StatusInternalServerError, verifyResp{Error: err.Error()})
	}
	if !paid {
		unpaid := apperr.New(apperr.PaymentVerificationFailed, "Payment not completed")
		return c.JSON(http.StatusOK, verifyResp{Error: unpaid.Message})
	}
	if _, err := h.gate(c).Create(ctx, req.SessionID); err != nil {
		c.Logger().Errorf("store payment session: %v", err)
		return c.JSON(http.StatusInternalServerError, verifyResp{Error: "Could not store payment session"})
	}
	return c.JSON(http.StatusOK, verifyResp{Success: true})
}

type sessionResp struct {
	Valid            bool       `json:"valid"`
	SessionID        string     `json:"sessionId,omitempty"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
	RemainingSeconds int64      `json:"remainingSeconds"`
	Remaining        string     `json:"remaining"`
}

// Session handles GET /v1/payment/session.
func (h *PaymentHandler) Session(c echo.Context) error {
	g := h.gate(c)
	s, err := g.Read(c.Request().Context())
	if err != nil {
		c.Logger().Warnf("read payment session: %v", err)
	}
	if s == nil || !s.Paid {
		return c.JSON(http.StatusOK, sessionResp{Remaining: payment.FormatDuration(0)})
	}
	left := s.ExpiresAt.Sub(h.Clock.Now())
	if left < 0 {
		left = 0
	}
	exp := s.ExpiresAt
	return c.JSON(http.StatusOK, sessionResp{
		Valid:            true,
		SessionID:        s.SessionID,
		ExpiresAt:        &exp,
		RemainingSeconds: int64(left / time.Second),
		Remaining:        payment.FormatDuration(left),
	})
}

// ClearSession handles DELETE /v1/payment/session.
func (h *PaymentHandler) ClearSession(c echo.Context) error {
	if err := h.gate(c).Clear(c.Request().Context()); err != nil {
		return fail(c, http.StatusInternalServerError, "could not clear payment session")
	}
	return c.NoContent(http.StatusNoContent)
}
