package main

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotelhub-pms/internal/config"
	"github.com/iliyamo/hotelhub-pms/internal/payment"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestSessionStores(t *testing.T) {
	cfg := config.PaymentConfig{SessionTTL: time.Hour}

	buf := captureLog(t)
	if _, ok := sessionStores(cfg, nil).(*payment.CookieStore); !ok || buf.Len() != 0 {
		t.Fatalf("default should be a silent cookie store, log %q", buf)
	}

	cfg.SessionStore = "redis"
	if _, ok := sessionStores(cfg, nil).(*payment.CookieStore); !ok {
		t.Fatal("missing redis should fall back to cookies")
	}
	if !strings.Contains(buf.String(), "falling back to cookie sessions") {
		t.Fatalf("no warning logged: %q", buf)
	}

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()
	if _, ok := sessionStores(cfg, rdb).(*payment.RedisStore); !ok {
		t.Fatal("redis store expected when a client is given")
	}
}
