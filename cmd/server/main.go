package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotelhub-pms/internal/agent"
	"github.com/iliyamo/hotelhub-pms/internal/app"
	"github.com/iliyamo/hotelhub-pms/internal/config"
	"github.com/iliyamo/hotelhub-pms/internal/handler"
	"github.com/iliyamo/hotelhub-pms/internal/middleware"
	"github.com/iliyamo/hotelhub-pms/internal/payment"
	"github.com/iliyamo/hotelhub-pms/internal/queue"
	"github.com/iliyamo/hotelhub-pms/internal/router"
	"github.com/iliyamo/hotelhub-pms/internal/service"
)

// sessionStores picks where payment sessions live.  Asking for Redis
// without a reachable Redis falls back to signed cookies with a warning.
func sessionStores(cfg config.PaymentConfig, rdb *redis.Client) payment.StoreProvider {
	codec := payment.NewCookieCodec(cfg.CookieHashKey, cfg.CookieBlockKey, cfg.CookieSecure, cfg.SessionTTL)
	if cfg.SessionStore != "redis" {
		return payment.NewCookieStore(codec)
	}
	if rdb == nil {
		log.Printf("payment: PAYMENT_SESSION_STORE=redis but redis is unavailable, falling back to cookie sessions")
		return payment.NewCookieStore(codec)
	}
	return payment.NewRedisStore(rdb, codec, "hotelhub:payment")
}

func main() {
	cfg := config.Load()
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()
	payCfg := config.LoadPaymentConfig()
	agentCfg := config.LoadAgentConfig()
	mailCfg := config.LoadMailConfig()
	mediaCfg := config.LoadMediaConfig()

	rdb := config.NewRedisClient()
	a, err := app.New(cfg, rdb)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Background work ----
	var notifier queue.Notifier
	if mailCfg.Enabled() {
		notifier = service.NewMailer(mailCfg)
	}
	go func() {
		if err := queue.StartBookingConsumer(ctx, cfg.AMQPURL, &queue.BookingLog{Dir: "logs", Notifier: notifier}); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()
	go func() {
		h := &queue.RoomStatusRetry{Rooms: a.Rooms, Publisher: a.Publisher, MaxAttempts: cfg.StatusAttempts, Invalidate: a.InvalidateRooms}
		if err := queue.StartRoomStatusConsumer(ctx, cfg.AMQPURL, h); err != nil {
			log.Printf("room status consumer stopped: %v", err)
		}
	}()
	sched, err := service.StartReconcileScheduler(a.Reconciler(), cfg.ReconcileEvery, nil)
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	defer func() { _ = sched.Shutdown() }()

	// ---- Payment ----
	stores := sessionStores(payCfg, rdb)
	var gateway payment.Gateway
	if payCfg.SecretKey != "" {
		gateway = payment.NewStripeGateway(payCfg.SecretKey)
	} else {
		log.Printf("payment: STRIPE_SECRET_KEY not set, checkout endpoints will answer 500")
	}

	// ---- Media ----
	var blobs handler.BlobStore
	if mediaCfg.Enabled() {
		store, err := service.NewCloudinaryPhotoStore(mediaCfg)
		if err != nil {
			log.Printf("media: %v; photo uploads disabled", err)
		} else {
			blobs = store
		}
	}

	// ---- HTTP ----
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	limit := middleware.NewTokenBucket(rateCfg, rdb)
	cache := middleware.NewRedisCache(cacheCfg, rdb)

	router.RegisterRoutes(e, a.DB)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, a.Users, a.Tokens), cfg.JWTSecret)
	router.RegisterStaff(e, router.StaffHandlers{
		Rooms:        handler.NewRoomHandler(a.Rooms, a.Photos, a.Engine, rdb, cacheCfg.Prefix),
		Photos:       handler.NewPhotoHandler(a.Rooms, a.Photos, blobs),
		Guests:       handler.NewGuestHandler(a.Guests),
		Reservations: handler.NewReservationHandler(a.Reservations, a.Rooms, a.Guests, a.Engine, a.Clock).WithCache(rdb, cacheCfg.Prefix),
	}, cfg.JWTSecret, cache, limit)
	router.RegisterPayment(e,
		handler.NewPaymentHandler(gateway, stores, a.Clock, payCfg.SessionTTL, payCfg.DefaultReturnURL), limit)
	intake := agent.NewIntake(agent.NewMatcher(a.Rooms, a.Engine), a.Engine)
	router.RegisterAgent(e, handler.NewAgentHandler(agentCfg, a.Rooms, intake), cfg.JWTSecret,
		middleware.RequirePaidSession(stores, a.Clock, payCfg.SessionTTL), limit)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
}
