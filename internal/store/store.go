// Package store opens the MySQL connection pool the engine borrows
// connections from, and classifies driver errors into the engine's error
// taxonomy. The pool is an explicit value owned by the caller: open it at
// startup, pass it into constructors, close it at shutdown.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Pool hands out dedicated connections. *sql.DB satisfies it.
type Pool interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

// Options configures the connection pool.
type Options struct {
	DSN         string
	Host        string
	Port        int
	User        string
	Password    string
	Database    string
	MaxConns    int
	MaxIdle     int
	DialTimeout time.Duration
}

// FormatDSN returns DSN when set, otherwise builds one from the discrete fields.
func (o Options) FormatDSN() string {
	if o.DSN != "" {
		return o.DSN
	}
	cfg := mysql.NewConfig()
	cfg.User = o.User
	cfg.Passwd = o.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
	cfg.DBName = o.Database
	cfg.ParseTime = true
	if o.DialTimeout > 0 {
		cfg.Timeout = o.DialTimeout
	}
	return cfg.FormatDSN()
}

// Open opens the pool and pings it. The returned *sql.DB must be closed by the caller.
func Open(ctx context.Context, opts Options) (*sql.DB, error) {
	db, err := sql.Open("mysql", opts.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if opts.MaxConns > 0 {
		db.SetMaxOpenConns(opts.MaxConns)
	}
	if opts.MaxIdle > 0 {
		db.SetMaxIdleConns(opts.MaxIdle)
	}

	if pingErr := db.PingContext(ctx); pingErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database: %v; additionally failed to close connection: %w", pingErr, closeErr)
		}
		return nil, Classify(fmt.Errorf("failed to ping database: %w", pingErr))
	}
	return db, nil
}

// WithConn borrows one connection for the duration of fn and releases it on every path.
func WithConn(ctx context.Context, pool Pool, fn func(conn *sql.Conn) error) error {
	conn, err := pool.Conn(ctx)
	if err != nil {
		return Classify(fmt.Errorf("failed to acquire connection: %w", err))
	}
	defer conn.Close()
	return fn(conn)
}
