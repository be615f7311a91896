package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB couples a connection pool with the SQL dialect it speaks.  Repositories
// write their queries with `?` placeholders and pass them through Rebind.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to MySQL or Postgres and verifies the connection.
func Open(driver, user, pass, host, port, name string) (*DB, error) {
	d, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}

	var (
		driverName string
		dsn        string
	)
	switch d {
	case MySQL:
		auth := user
		if pass != "" {
			auth = fmt.Sprintf("%s:%s", user, pass)
		}
		// parseTime=true -> DATE/DATETIME -> time.Time | loc=UTC keeps times consistent
		// clientFoundRows=true -> RowsAffected counts matched rows, as Postgres does
		driverName = "mysql"
		dsn = fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
			auth, host, port, name)
	case Postgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(user, pass),
			Host:     host + ":" + port,
			Path:     "/" + name,
			RawQuery: "sslmode=prefer&timezone=UTC",
		}
		if pass == "" {
			u.User = url.User(user)
		}
		driverName = "pgx"
		dsn = u.String()
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{DB: db, Dialect: d}, nil
}

// Wrap adopts an existing pool, e.g. one opened by a test harness.
func Wrap(db *sql.DB, d Dialect) *DB { return &DB{DB: db, Dialect: d} }

// Rebind rewrites `?` placeholders for the pool's dialect.
func (db *DB) Rebind(query string) string { return db.Dialect.Rebind(query) }
