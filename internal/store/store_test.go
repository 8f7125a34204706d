package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmc/internal/core"
	"gmc/internal/testutil"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code core.Code
	}{
		{"duplicate entry", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, core.CodeConstraintViolation},
		{"foreign key", &mysql.MySQLError{Number: 1452}, core.CodeConstraintViolation},
		{"data too long", &mysql.MySQLError{Number: 1406}, core.CodeConstraintViolation},
		{"missing table", &mysql.MySQLError{Number: 1146}, core.CodeNotFound},
		{"unknown table on drop", &mysql.MySQLError{Number: 1051}, core.CodeNotFound},
		{"access denied", &mysql.MySQLError{Number: 1045}, core.CodeStoreUnavailable},
		{"too many connections", &mysql.MySQLError{Number: 1040}, core.CodeStoreUnavailable},
		{"syntax error", &mysql.MySQLError{Number: 1064}, core.CodeStoreError},
		{"bad connection", driver.ErrBadConn, core.CodeStoreUnavailable},
		{"invalid connection", mysql.ErrInvalidConn, core.CodeStoreUnavailable},
		{"connection done", sql.ErrConnDone, core.CodeStoreUnavailable},
		{"dial error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, core.CodeStoreUnavailable},
		{"deadline", context.DeadlineExceeded, core.CodeStoreUnavailable},
		{"wrapped driver error", fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062}), core.CodeConstraintViolation},
		{"anything else", errors.New("boom"), core.CodeStoreError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.code, core.CodeOf(got))
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassifyKeepsCodedErrors(t *testing.T) {
	assert.NoError(t, Classify(nil))

	coded := core.Errorf(core.CodeNotFound, "table t not found")
	assert.Same(t, coded, Classify(coded))
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(fmt.Errorf("seed: %w", &mysql.MySQLError{Number: 1062})))
	assert.False(t, IsDuplicateKey(&mysql.MySQLError{Number: 1452}))
	assert.False(t, IsDuplicateKey(errors.New("Duplicate entry")))
}

func TestOptionsFormatDSN(t *testing.T) {
	assert.Equal(t, "root:pw@tcp(db:3306)/game", Options{DSN: "root:pw@tcp(db:3306)/game", Host: "ignored"}.FormatDSN())

	dsn := Options{
		Host:        "localhost",
		Port:        3307,
		User:        "gmc",
		Password:    "secret",
		Database:    "game",
		DialTimeout: 2 * time.Second,
	}.FormatDSN()

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "gmc", cfg.User)
	assert.Equal(t, "secret", cfg.Passwd)
	assert.Equal(t, "tcp", cfg.Net)
	assert.Equal(t, "localhost:3307", cfg.Addr)
	assert.Equal(t, "game", cfg.DBName)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

type refusingPool struct {
	calls int
}

func (p *refusingPool) Conn(context.Context) (*sql.Conn, error) {
	p.calls++
	return nil, driver.ErrBadConn
}

func TestWithConnClassifiesAcquireFailure(t *testing.T) {
	pool := &refusingPool{}
	called := false
	err := WithConn(context.Background(), pool, func(*sql.Conn) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "failed to acquire connection")
	assert.False(t, called)
	assert.Equal(t, 1, pool.calls)
}

func TestWithConnReleasesConnection(t *testing.T) {
	m := testutil.StartMySQL(t)
	ctx := context.Background()
	m.DB.SetMaxOpenConns(1)

	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		err := WithConn(ctx, m.DB, func(conn *sql.Conn) error {
			return boom
		})
		require.ErrorIs(t, err, boom)
	}

	// With a single connection allowed, a leaked one would block here.
	timeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := WithConn(timeout, m.DB, func(conn *sql.Conn) error {
		return conn.PingContext(timeout)
	})
	assert.NoError(t, err)
}

func TestOpen(t *testing.T) {
	m := testutil.StartMySQL(t)
	ctx := context.Background()

	db, err := Open(ctx, Options{DSN: m.DSN, MaxConns: 2, MaxIdle: 1})
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, 2, db.Stats().MaxOpenConnections)

	_, err = Open(ctx, Options{Host: "127.0.0.1", Port: 1, User: "root", Database: "x", DialTimeout: time.Second})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
}
