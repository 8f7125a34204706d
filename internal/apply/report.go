package apply

import (
	"time"

	"gmc/internal/core"
)

// StatementResult is the outcome of one statement in a batch.
type StatementResult struct {
	Statement    core.Statement
	Type         string
	AffectedRows int64
	Rows         []map[string]any
	Err          error
	Duplicate    bool
	Skipped      bool
	Duration     time.Duration
}

// Succeeded reports whether the statement ran without a stopping error.
func (r StatementResult) Succeeded() bool {
	return !r.Skipped && r.Err == nil
}

// Report is the outcome of a batch, one result per statement in input order.
type Report struct {
	Results    []StatementResult
	StartedAt  time.Time
	FinishedAt time.Time

	err error
}

// Err returns the error that stopped the batch, or nil.
func (r *Report) Err() error {
	return r.err
}

// Failed reports whether the batch stopped early.
func (r *Report) Failed() bool {
	return r.err != nil
}

// Errors returns the messages of failed statements.
func (r *Report) Errors() []string {
	var out []string
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res.Err.Error())
		}
	}
	return out
}

// Result returns the i-th result, or the zero value when out of range.
func (r *Report) Result(i int) StatementResult {
	if i < 0 || i >= len(r.Results) {
		return StatementResult{Skipped: true}
	}
	return r.Results[i]
}

// Applied counts statements that ran successfully.
func (r *Report) Applied() int {
	n := 0
	for _, res := range r.Results {
		if res.Succeeded() {
			n++
		}
	}
	return n
}
