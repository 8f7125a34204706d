// Package testutil starts disposable MySQL servers for integration tests.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
)

// Database is the schema every test container is created with.
const Database = "testdb"

// MySQL is a running test container and a pool connected to it.
type MySQL struct {
	Container *mysql.MySQLContainer
	DSN       string
	DB        *sql.DB
}

// StartMySQL starts a MySQL 8 container and skips the test in short mode.
// The container and pool are released through t.Cleanup.
func StartMySQL(t *testing.T) *MySQL {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	mysqlContainer, err := mysql.Run(ctx, "mysql:8.0",
		mysql.WithDatabase(Database),
		mysql.WithUsername("root"),
		mysql.WithPassword("testpass"),
	)
	require.NoError(t, err, "failed to start MySQL container")

	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(mysqlContainer); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := mysqlContainer.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err, "failed to get connection string")

	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err, "failed to open direct DB connection")
	require.NoError(t, db.PingContext(ctx), "failed to ping database")
	t.Cleanup(func() {
		err := db.Close()
		if err != nil {
			t.Errorf("failed to close DB connection: %v", err)
		}
	})

	return &MySQL{
		Container: mysqlContainer,
		DSN:       dsn,
		DB:        db,
	}
}

// TableExists reports whether table exists in the test schema.
func (m *MySQL) TableExists(t *testing.T, table string) bool {
	t.Helper()
	var count int
	err := m.DB.QueryRow(
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = ? AND table_name = ?",
		Database, table).Scan(&count)
	require.NoError(t, err)
	return count > 0
}

// CountRows returns the row count of table.
func (m *MySQL) CountRows(t *testing.T, table string) int {
	t.Helper()
	var count int
	require.NoError(t, m.DB.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&count))
	return count
}
