package payment

import (
	"context"
	"net/url"
	"strings"
)

// CheckoutRequest describes a one-item card checkout.
type CheckoutRequest struct {
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// Gateway is the payment provider as the endpoints see it.
type Gateway interface {
	// CreateCheckout starts a hosted checkout and returns its redirect URL.
	CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error)
	// IsPaid reports whether the checkout session has been paid.
	IsPaid(ctx context.Context, sessionID string) (bool, error)
}

// SessionPlaceholder is replaced by the provider with the checkout id.
const SessionPlaceholder = "{CHECKOUT_SESSION_ID}"

// ReturnURLs derives the success and cancel URLs from the caller's return
// URL.  The success URL carries the checkout id back as session_id.
func ReturnURLs(returnURL string) (success, cancel string) {
	returnURL = strings.TrimSpace(returnURL)
	sep := "?"
	if u, err := url.Parse(returnURL); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	return returnURL + sep + "session_id=" + SessionPlaceholder, returnURL
}
