package service

import (
	"context"
	"fmt"
	"time"

	"gmc/internal/apply"
	"gmc/internal/core"
)

// ExecutionReport is the outcome of creating, seeding and reading back a
// battle-pass table. Store failures are listed in Errors rather than returned.
type ExecutionReport struct {
	TableName    string       `json:"tableName"`
	CreateResult CreateResult `json:"createResult"`
	InsertResult InsertResult `json:"insertResult"`
	Errors       []string     `json:"errors"`
	ExecutedAt   time.Time    `json:"executedAt"`

	err error
}

// CreateResult reports the CREATE TABLE step.
type CreateResult struct {
	AffectedRows int64  `json:"affectedRows"`
	Message      string `json:"message"`
}

// InsertResult reports the seed step and the rows read back afterwards.
type InsertResult struct {
	InsertedRows int64            `json:"insertedRows"`
	Message      string           `json:"message"`
	SampleData   []map[string]any `json:"sampleData"`
}

// Err returns the error that stopped execution, or nil.
func (r *ExecutionReport) Err() error {
	return r.err
}

// Succeeded reports whether every step completed.
func (r *ExecutionReport) Succeeded() bool {
	return len(r.Errors) == 0
}

// ExecuteLiveSchema creates the battle-pass table described by fields, seeds
// it with rows (the demonstration players when rows is empty) and reads up to
// VerifyLimit rows back. Creating and seeding are idempotent: the table is
// created only if absent and rows already present for a (user, season) pair
// are skipped.
//
// Invalid names or rows are returned as errors before any SQL is sent. Once
// statements run, failures are recorded in the report; the table is left in
// place when seeding fails.
func (s *Service) ExecuteLiveSchema(ctx context.Context, fields core.FieldMap, rows []core.SeedRow) (*ExecutionReport, error) {
	ids, err := fields.Identifiers()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		rows = core.DefaultSeedRows()
	}
	if err := core.ValidateSeedRows(rows); err != nil {
		return nil, err
	}
	if s.executor == nil {
		return nil, errNoStore
	}

	create, err := s.generator.GenerateBattlePassTable(fields)
	if err != nil {
		return nil, err
	}
	insert, err := s.generator.GenerateSeedInsert(fields, rows)
	if err != nil {
		return nil, err
	}
	verify := s.generator.GenerateSampleSelect(ids.Table, core.IDColumn, VerifyLimit)

	report, err := s.executor.Execute(ctx, []core.Statement{create, insert, verify})
	if report == nil {
		return nil, err
	}

	out := &ExecutionReport{
		TableName:  ids.Table.String(),
		Errors:     []string{},
		ExecutedAt: report.FinishedAt,
	}
	out.CreateResult = createResult(out.TableName, report.Result(0))
	out.InsertResult = insertResult(len(rows), report.Result(1), report.Result(2))
	if err != nil {
		out.err = err
		out.Errors = append(out.Errors, err.Error())
		s.logger.Warn("live schema execution failed", "table", out.TableName, "error", err)
		return out, nil
	}

	s.logger.Info("live schema executed",
		"table", out.TableName,
		"inserted", out.InsertResult.InsertedRows,
		"requested", len(rows))
	return out, nil
}

func createResult(table string, res apply.StatementResult) CreateResult {
	out := CreateResult{AffectedRows: res.AffectedRows}
	switch {
	case res.Skipped:
		out.Message = fmt.Sprintf("Creating table %s was skipped", table)
	case res.Err != nil:
		out.Message = fmt.Sprintf("Creating table %s failed", table)
	default:
		out.Message = fmt.Sprintf("Table %s is ready", table)
	}
	return out
}

func insertResult(requested int, insert, verify apply.StatementResult) InsertResult {
	out := InsertResult{InsertedRows: insert.AffectedRows, SampleData: verify.Rows}
	if out.SampleData == nil {
		out.SampleData = []map[string]any{}
	}
	switch {
	case insert.Skipped:
		out.Message = "Seeding was skipped"
	case insert.Err != nil:
		out.Message = "Seeding failed"
	case insert.AffectedRows < int64(requested):
		out.Message = fmt.Sprintf("Inserted %d of %d rows; %d already present",
			insert.AffectedRows, requested, int64(requested)-insert.AffectedRows)
	default:
		out.Message = fmt.Sprintf("Inserted %d rows", insert.AffectedRows)
	}
	return out
}
