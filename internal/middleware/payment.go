package middleware

import (
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotelhub-pms/internal/payment"
)

// RequirePaidSession answers 402 unless the request carries a paid,
// unexpired payment session.
func RequirePaidSession(stores payment.StoreProvider, clock clockwork.Clock, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			gate := payment.NewGate(stores.For(c.Response(), c.Request()), clock, ttl)
			if !gate.IsValid(c.Request().Context()) {
				return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "Payment required"})
			}
			return next(c)
		}
	}
}
