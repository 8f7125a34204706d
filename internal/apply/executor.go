// Package apply runs generated statements against the store. Every batch is
// checked against an allow-list before any SQL is issued, then executed
// sequentially on one borrowed connection. Execution stops at the first
// failure; statements that already ran are not rolled back.
package apply

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"gmc/internal/core"
	"gmc/internal/store"
)

// Executor runs allow-listed statement batches.
type Executor struct {
	pool      store.Pool
	analyzer  *StatementAnalyzer
	allowDrop bool
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithAllowDrop permits single-table DROP TABLE statements.
func WithAllowDrop() Option {
	return func(e *Executor) { e.allowDrop = true }
}

// WithClock overrides the time source used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		if now != nil {
			e.now = now
		}
	}
}

// NewExecutor returns an executor that borrows connections from pool.
func NewExecutor(pool store.Pool, opts ...Option) *Executor {
	e := &Executor{
		pool:   pool,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.analyzer = NewStatementAnalyzer(e.allowDrop)
	return e
}

// Preflight analyzes a batch without touching the store.
func (e *Executor) Preflight(statements []core.Statement) *PreflightResult {
	return e.analyzer.AnalyzeStatements(statements)
}

// Execute runs statements in order. A rejected batch returns a
// REJECTED_STATEMENT error and no report. Otherwise the report is always
// returned; the error is the first failure, wrapped as PARTIAL_EXECUTION when
// DDL had already been applied. Duplicate-key errors on INSERT are recorded
// on the result and do not stop the batch.
func (e *Executor) Execute(ctx context.Context, statements []core.Statement) (*Report, error) {
	if len(statements) == 0 {
		return nil, core.Errorf(core.CodeInvalidRequest, "no statements to execute")
	}
	preflight := e.Preflight(statements)
	if err := preflight.Err(); err != nil {
		e.logger.Warn("statement batch rejected", "error", err)
		return nil, err
	}

	report := &Report{
		Results:   make([]StatementResult, len(statements)),
		StartedAt: e.now(),
	}
	for i := range statements {
		report.Results[i] = StatementResult{
			Statement: statements[i],
			Type:      preflight.Analyses[i].StatementType,
			Skipped:   true,
		}
	}

	err := store.WithConn(ctx, e.pool, func(conn *sql.Conn) error {
		return e.run(ctx, conn, preflight, report)
	})
	report.FinishedAt = e.now()
	if err != nil {
		report.err = err
		return report, err
	}
	return report, nil
}

func (e *Executor) run(ctx context.Context, conn *sql.Conn, preflight *PreflightResult, report *Report) error {
	ddlApplied := 0
	for i := range report.Results {
		res := &report.Results[i]
		if err := ctx.Err(); err != nil {
			return e.fail(res, store.Classify(err), ddlApplied)
		}

		res.Skipped = false
		e.logger.Debug("executing statement",
			"index", i+1, "total", len(report.Results), "type", res.Type)
		start := time.Now()
		err := e.runOne(ctx, conn, res)
		res.Duration = time.Since(start)

		if err != nil {
			if res.Type == TypeInsert && store.IsDuplicateKey(err) {
				res.Duplicate = true
				e.logger.Info("duplicate rows ignored", "index", i+1)
				continue
			}
			return e.fail(res, store.Classify(err), ddlApplied)
		}
		if preflight.Analyses[i].IsDDL {
			ddlApplied++
		}
	}
	return nil
}

func (e *Executor) fail(res *StatementResult, err error, ddlApplied int) error {
	res.Skipped = false
	res.Err = err
	e.logger.Warn("statement failed", "type", res.Type, "sql", truncateSQL(res.Statement.SQL), "error", err)
	if ddlApplied > 0 {
		return core.Wrap(core.CodePartialExecution, err,
			"%d DDL statement(s) were already applied and are not rolled back", ddlApplied)
	}
	return err
}

func (e *Executor) runOne(ctx context.Context, conn *sql.Conn, res *StatementResult) error {
	args := res.Statement.BindArgs()
	if res.Statement.Kind == core.StatementQuery {
		rows, err := conn.QueryContext(ctx, res.Statement.SQL, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		res.Rows, err = ScanRows(rows)
		return err
	}

	result, err := conn.ExecContext(ctx, res.Statement.SQL, args...)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil {
		res.AffectedRows = n
	}
	return nil
}

// ScanRows reads every row into a column-name keyed map. Text and blob
// columns come back as strings.
func ScanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
