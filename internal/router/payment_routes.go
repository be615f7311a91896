package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotelhub-pms/internal/handler"
)

// RegisterPayment registers the checkout endpoints at the root and under
// /api, plus the paid-session endpoints under /v1/payment.  None of them
// need a JWT; the checkout pair is rate limited.
func RegisterPayment(e *echo.Echo, p *handler.PaymentHandler, limit echo.MiddlewareFunc) {
	for _, prefix := range []string{"", "/api"} {
		e.POST(prefix+"/create-checkout-session", p.CreateCheckout, limit)
		e.POST(prefix+"/verify-payment", p.VerifyPayment, limit)
	}
	e.GET("/v1/payment/session", p.Session)
	e.DELETE("/v1/payment/session", p.ClearSession)
}
