// Package mysql contains the introspect implementation for MySQL. Metadata
// comes from information_schema with bound parameters; the only identifiers
// placed in SQL text are sanitized table names.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"gmc/internal/apply"
	"gmc/internal/core"
	"gmc/internal/dialect"
	mysqldialect "gmc/internal/dialect/mysql"
	"gmc/internal/introspect"
	"gmc/internal/store"
)

// Number of rows returned by Describe.
const sampleRows = 5

func init() {
	introspect.Register(dialect.MySQL, func(pool store.Pool, logger *slog.Logger) introspect.Introspector {
		return New(pool, logger)
	})
}

type introspector struct {
	pool      store.Pool
	generator dialect.Generator
	logger    *slog.Logger
	now       func() time.Time
}

type introspectCtx struct {
	conn *sql.Conn
	ctx  context.Context
}

// New returns a MySQL introspector over pool.
func New(pool store.Pool, logger *slog.Logger) introspect.Introspector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &introspector{
		pool:      pool,
		generator: mysqldialect.NewMySQLGenerator(),
		logger:    logger,
		now:       time.Now,
	}
}

func (i *introspector) withConn(ctx context.Context, fn func(ic *introspectCtx) error) error {
	return store.WithConn(ctx, i.pool, func(conn *sql.Conn) error {
		return fn(&introspectCtx{conn: conn, ctx: ctx})
	})
}

func (i *introspector) Describe(ctx context.Context, table core.Identifier) (*core.TableDescriptor, error) {
	if table.IsZero() {
		return nil, core.Errorf(core.CodeInvalidIdentifier, "table name is required")
	}

	d := &core.TableDescriptor{TableName: table.String()}
	err := i.withConn(ctx, func(ic *introspectCtx) error {
		meta, err := tableMeta(ic, table)
		if err != nil {
			return err
		}
		d.Engine = meta.Engine
		d.Collation = meta.Collation
		d.CreatedAt = meta.CreatedAt

		if err := ic.conn.QueryRowContext(ic.ctx, "SELECT COUNT(*) FROM "+table.String()).Scan(&d.RowCount); err != nil {
			return err
		}
		if d.Columns, err = introspectColumns(ic, table); err != nil {
			return err
		}
		if d.Indexes, err = introspectIndexes(ic, table); err != nil {
			return err
		}
		var order core.Identifier
		if d.FindColumn(core.IDColumn.String()) != nil {
			order = core.IDColumn
		}
		d.SampleRows, err = i.sample(ic, table, order)
		return err
	})
	if err != nil {
		return nil, store.Classify(err)
	}
	return d, nil
}

func (i *introspector) sample(ic *introspectCtx, table, orderBy core.Identifier) ([]map[string]any, error) {
	stmt := i.generator.GenerateSampleSelect(table, orderBy, sampleRows)
	rows, err := ic.conn.QueryContext(ic.ctx, stmt.SQL, stmt.BindArgs()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return apply.ScanRows(rows)
}

func (i *introspector) Drop(ctx context.Context, table core.Identifier) (*core.DropResult, error) {
	if table.IsZero() {
		return nil, core.Errorf(core.CodeInvalidIdentifier, "table name is required")
	}
	if core.IsReservedTableName(table.String()) {
		return nil, core.Errorf(core.CodeInvalidIdentifier, "table %q uses a reserved prefix", table)
	}

	err := i.withConn(ctx, func(ic *introspectCtx) error {
		_, err := tableMeta(ic, table)
		return err
	})
	if err != nil {
		return nil, store.Classify(err)
	}

	exec := apply.NewExecutor(i.pool, apply.WithAllowDrop(), apply.WithLogger(i.logger))
	if _, err := exec.Execute(ctx, []core.Statement{i.generator.GenerateDropTable(table)}); err != nil {
		return nil, err
	}
	i.logger.Debug("drop executed", "table", table.String())

	return &core.DropResult{TableName: table.String(), DroppedAt: i.now()}, nil
}

func (i *introspector) ServerInfo(ctx context.Context) (*introspect.ServerInfo, error) {
	info := new(introspect.ServerInfo)
	err := i.withConn(ctx, func(ic *introspectCtx) error {
		var dbName sql.NullString
		if err := ic.conn.QueryRowContext(ic.ctx, "SELECT DATABASE()").Scan(&dbName); err != nil {
			return err
		}
		info.Database = dbName.String

		var err error
		info.Flavor, info.Version, err = detectServer(ic)
		return err
	})
	if err != nil {
		return nil, store.Classify(err)
	}
	return info, nil
}

func notFound(table core.Identifier, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.Errorf(core.CodeNotFound, "table %q does not exist", table)
	}
	return err
}
