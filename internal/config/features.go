package config

import (
	"encoding/base64"
	"log"
	"os"
	"time"
)

// PaymentConfig holds checkout and payment-session settings.  An empty
// SecretKey is allowed at startup; the payment endpoints then answer with
// a configuration error instead of calling the gateway.
type PaymentConfig struct {
	SecretKey        string        // STRIPE_SECRET_KEY
	SessionTTL       time.Duration // lifetime of a paid session
	SessionStore     string        // "cookie" or "redis"
	CookieHashKey    []byte        // HMAC key for the session cookie
	CookieBlockKey   []byte        // AES key for the session cookie (optional)
	CookieSecure     bool          // set the Secure flag on the cookie
	DefaultReturnURL string        // used when a checkout request omits returnUrl
}

func LoadPaymentConfig() PaymentConfig {
	return PaymentConfig{
		SecretKey:        os.Getenv("STRIPE_SECRET_KEY"),
		SessionTTL:       envDur("PAYMENT_SESSION_TTL", 24*time.Hour),
		SessionStore:     envStr("PAYMENT_SESSION_STORE", "cookie"),
		CookieHashKey:    b64Key("COOKIE_HASH_KEY"),
		CookieBlockKey:   b64Key("COOKIE_BLOCK_KEY"),
		CookieSecure:     envBool("COOKIE_SECURE", false),
		DefaultReturnURL: os.Getenv("PAYMENT_DEFAULT_RETURN_URL"),
	}
}

// AgentConfig describes the voice agent and the hotel facts it is given at
// session start.
type AgentConfig struct {
	AgentID              string // AGENT_ID; empty means not configured
	HotelName            string
	CheckInTime          string
	CheckOutTime         string
	CancellationDeadline string
	MinStay              int
}

func LoadAgentConfig() AgentConfig {
	return AgentConfig{
		AgentID:              os.Getenv("AGENT_ID"),
		HotelName:            envStr("HOTEL_NAME", "HotelHub PMS"),
		CheckInTime:          envStr("HOTEL_CHECK_IN_TIME", "14:00"),
		CheckOutTime:         envStr("HOTEL_CHECK_OUT_TIME", "11:00"),
		CancellationDeadline: envStr("HOTEL_CANCELLATION_DEADLINE", "24 hours before check-in"),
		MinStay:              envInt("HOTEL_MIN_STAY", 1),
	}
}

// MailConfig holds SMTP settings for confirmation mails.  Mail is off when
// Host is empty.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (m MailConfig) Enabled() bool { return m.Host != "" }

func LoadMailConfig() MailConfig {
	return MailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     envInt("SMTP_PORT", 587),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     envStr("SMTP_FROM", "reservations@hotelhub.local"),
	}
}

// MediaConfig holds Cloudinary credentials for room photos.  Uploads are
// refused when any credential is missing.
type MediaConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

func (m MediaConfig) Enabled() bool {
	return m.CloudName != "" && m.APIKey != "" && m.APISecret != ""
}

func LoadMediaConfig() MediaConfig {
	return MediaConfig{
		CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		Folder:    envStr("CLOUDINARY_FOLDER", "room-photos"),
	}
}

// b64Key decodes an optional base64 key such as those printed by
// `hotelctl keys`.  A malformed value is fatal; an absent one yields nil.
func b64Key(name string) []byte {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	b, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		log.Fatalf("invalid base64 for %s: %v", name, err)
	}
	return b
}
