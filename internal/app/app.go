// Package app assembles the booking engine and its adapters from
// configuration.  The HTTP server and the operator CLI share it so both
// book through exactly the same path.
package app

import (
	"context"
	"log"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotelhub-pms/internal/booking"
	"github.com/iliyamo/hotelhub-pms/internal/config"
	"github.com/iliyamo/hotelhub-pms/internal/database"
	"github.com/iliyamo/hotelhub-pms/internal/middleware"
	"github.com/iliyamo/hotelhub-pms/internal/repository"
	"github.com/iliyamo/hotelhub-pms/internal/service"
)

// App holds the long-lived dependencies of a process.
type App struct {
	Cfg   config.Config
	Clock clockwork.Clock
	DB    *database.DB
	Redis *redis.Client // nil when Redis is not reachable

	// CachePrefix is the key prefix of cached room listings.
	CachePrefix string

	Rooms        *repository.RoomRepo
	Guests       *repository.GuestRepo
	Reservations *repository.ReservationRepo
	Photos       *repository.PhotoRepo
	Users        *repository.UserRepo
	Tokens       *repository.TokenRepo

	Publisher     *service.Publisher
	RoomStatus    *service.RoomStatusUpdater
	Confirmations *service.Confirmations
	Engine        *booking.Engine
}

// New opens the database and wires the engine.  rdb may be nil; bookings
// are then serialized by an in-process lock, which is only correct for a
// single server instance.
func New(cfg config.Config, rdb *redis.Client) (*App, error) {
	db, err := database.Open(cfg.DBDriver, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, err
	}
	a := &App{
		Cfg:          cfg,
		Clock:        clockwork.NewRealClock(),
		DB:           db,
		Redis:        rdb,
		CachePrefix:  config.LoadCacheConfig().Prefix,
		Rooms:        repository.NewRoomRepo(db),
		Guests:       repository.NewGuestRepo(db),
		Reservations: repository.NewReservationRepo(db),
		Photos:       repository.NewPhotoRepo(db),
		Users:        repository.NewUserRepo(db),
		Tokens:       repository.NewTokenRepo(db),
		Publisher:    service.NewPublisher(cfg.AMQPURL),
	}
	a.RoomStatus = service.NewRoomStatusUpdater(a.Rooms, a.Publisher, a.Clock).WithInvalidate(a.InvalidateRooms)
	a.Confirmations = service.NewConfirmations(a.Publisher)

	var locker booking.RoomLocker
	if rdb != nil {
		locker = service.NewRedisRoomLocker(rdb, "", cfg.LockWait)
	} else {
		log.Printf("booking: redis unavailable, using in-process room lock")
		locker = booking.NewLocalLocker()
	}
	a.Engine = booking.New(a.Rooms, a.Guests, a.Reservations,
		booking.WithClock(a.Clock),
		booking.WithLocation(cfg.Location),
		booking.WithLocker(locker),
		booking.WithRoomStatus(a.RoomStatus),
		booking.WithConfirmations(a.Confirmations),
	)
	return a, nil
}

// Reconciler returns a sweep over this App's rooms and reservations.
func (a *App) Reconciler() *service.Reconciler {
	return service.NewReconciler(a.Rooms, a.Reservations, a.Clock, a.Cfg.Location).WithInvalidate(a.InvalidateRooms)
}

// InvalidateRooms drops cached room listings after a background status
// change.  It does nothing without Redis.
func (a *App) InvalidateRooms(ctx context.Context) error {
	return middleware.InvalidateCache(ctx, a.Redis, a.CachePrefix)
}

// Close waits for background side effects to finish, then releases the
// database and Redis.
func (a *App) Close() {
	a.RoomStatus.Wait()
	a.Confirmations.Wait()
	if err := a.DB.Close(); err != nil {
		log.Printf("db close: %v", err)
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}
