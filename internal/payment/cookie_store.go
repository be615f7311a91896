package payment

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

// CookieName is the cookie that carries the session record or handle.
const CookieName = "hotelhub_payment"

// CookieCodec signs (and, with a block key, encrypts) the payment cookie.
type CookieCodec struct {
	sc     *securecookie.SecureCookie
	secure bool
}

// NewCookieCodec builds a codec.  An empty hashKey gets a random one, so
// cookies do not survive a restart.
func NewCookieCodec(hashKey, blockKey []byte, secure bool, ttl time.Duration) *CookieCodec {
	if len(hashKey) == 0 {
		log.Printf("payment: COOKIE_HASH_KEY not set, using a random key")
		hashKey = securecookie.GenerateRandomKey(32)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	sc := securecookie.New(hashKey, blockKey)
	sc.SetSerializer(securecookie.JSONEncoder{})
	sc.MaxAge(int((ttl + time.Hour).Seconds()))
	return &CookieCodec{sc: sc, secure: secure}
}

func (c *CookieCodec) read(r *http.Request, dst any) bool {
	ck, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	if err := c.sc.Decode(CookieName, ck.Value, dst); err != nil {
		return false
	}
	return true
}

func (c *CookieCodec) write(w http.ResponseWriter, v any, expires time.Time) error {
	encoded, err := c.sc.Encode(CookieName, v)
	if err != nil {
		return err
	}
	maxAge := int(time.Until(expires).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.secure,
		MaxAge:   maxAge,
	})
	return nil
}

func (c *CookieCodec) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.secure,
		MaxAge:   -1,
	})
}

// CookieStore keeps the whole session record in a signed cookie on the
// client.  It is a convenience gate, not a security boundary.
type CookieStore struct {
	codec *CookieCodec
}

func NewCookieStore(codec *CookieCodec) *CookieStore { return &CookieStore{codec: codec} }

func (s *CookieStore) For(w http.ResponseWriter, r *http.Request) SessionStore {
	return &cookieSession{codec: s.codec, w: w, r: r}
}

// cookieSession is bound to one exchange.  Writes are remembered so a read
// later in the same request sees them.
type cookieSession struct {
	codec   *CookieCodec
	w       http.ResponseWriter
	r       *http.Request
	written bool
	cur     *Session
}

func (s *cookieSession) Get(context.Context) (*Session, error) {
	if s.written {
		if s.cur == nil {
			return nil, nil
		}
		cp := *s.cur
		return &cp, nil
	}
	var sess Session
	if !s.codec.read(s.r, &sess) || sess.SessionID == "" {
		return nil, nil
	}
	return &sess, nil
}

func (s *cookieSession) Set(_ context.Context, sess Session) error {
	if err := s.codec.write(s.w, sess, sess.ExpiresAt); err != nil {
		return err
	}
	s.written, s.cur = true, &sess
	return nil
}

func (s *cookieSession) Clear(context.Context) error {
	s.codec.clear(s.w)
	s.written, s.cur = true, nil
	return nil
}
