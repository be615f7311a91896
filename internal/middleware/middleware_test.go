package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotelhub-pms/internal/payment"
	"github.com/iliyamo/hotelhub-pms/internal/utils"
)

func ok(c echo.Context) error { return c.String(http.StatusOK, UserID(c)+"/"+Role(c)) }

func serve(h echo.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	e := echo.New()
	rec := httptest.NewRecorder()
	h(e.NewContext(req, rec))
	return rec
}

func TestJWTAuthAndRole(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", "u-1", "FRONT_DESK", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	guarded := JWTAuth("secret")(RequireRole("ADMIN", "FRONT_DESK")(ok))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	if rec := serve(guarded, req); rec.Code != http.StatusOK || rec.Body.String() != "u-1/FRONT_DESK" {
		t.Fatalf("code = %d body = %q", rec.Code, rec.Body.String())
	}

	adminOnly := JWTAuth("secret")(RequireRole("ADMIN")(ok))
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	if rec := serve(adminOnly, req); rec.Code != http.StatusForbidden {
		t.Fatalf("code = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	if rec := serve(JWTAuth("other")(ok), req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: code = %d", rec.Code)
	}

	if rec := serve(guarded, httptest.NewRequest(http.MethodGet, "/", nil)); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: code = %d", rec.Code)
	}
}

func TestRequirePaidSession(t *testing.T) {
	store := payment.NewMemoryStore()
	clock := clockwork.NewFakeClock()
	guard := RequirePaidSession(store, clock, time.Hour)(ok)

	if rec := serve(guard, httptest.NewRequest(http.MethodGet, "/", nil)); rec.Code != http.StatusPaymentRequired {
		t.Fatalf("code = %d, want 402", rec.Code)
	}
	if _, err := payment.NewGate(store, clock, time.Hour).Create(context.Background(), "cs_1"); err != nil {
		t.Fatal(err)
	}
	if rec := serve(guard, httptest.NewRequest(http.MethodGet, "/", nil)); rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	clock.Advance(time.Hour + time.Second)
	if rec := serve(guard, httptest.NewRequest(http.MethodGet, "/", nil)); rec.Code != http.StatusPaymentRequired {
		t.Fatalf("expired: code = %d, want 402", rec.Code)
	}
}

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	b, err := encodePayload(200, hdr, []byte(`{"ok":true}`))
	if err != nil {
		t.Fatal(err)
	}
	st, h, body, good := decodePayload(b)
	if !good || st != 200 || h.Get("Content-Type") != "application/json" || string(body) != `{"ok":true}` {
		t.Fatalf("decoded %d %v %q %v", st, h, body, good)
	}
	if _, _, _, good := decodePayload([]byte{1, 2}); good {
		t.Fatal("short payload accepted")
	}
}
