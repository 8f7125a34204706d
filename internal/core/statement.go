package core

import "strings"

// StatementKind tells the executor how to run a statement.
type StatementKind string

const (
	// StatementExec statements report affected rows.
	StatementExec StatementKind = "EXEC"
	// StatementQuery statements return rows.
	StatementQuery StatementKind = "QUERY"
)

// Statement is generated SQL text plus its bound values. Only sanitized
// identifiers appear in SQL; all data travels in Args.
type Statement struct {
	SQL  string        `json:"sql"`
	Args []Value       `json:"-"`
	Kind StatementKind `json:"kind"`
}

// ExecStatement returns an exec statement.
func ExecStatement(sql string, args ...Value) Statement {
	return Statement{SQL: sql, Args: args, Kind: StatementExec}
}

// QueryStatement returns a row-returning statement.
func QueryStatement(sql string, args ...Value) Statement {
	return Statement{SQL: sql, Args: args, Kind: StatementQuery}
}

// BindArgs converts Args for database/sql.
func (s Statement) BindArgs() []any {
	if len(s.Args) == 0 {
		return nil
	}
	out := make([]any, len(s.Args))
	for i, v := range s.Args {
		out[i] = v.v
	}
	return out
}

// Placeholders counts the "?" markers in SQL outside of quoted literals.
func (s Statement) Placeholders() int {
	n := 0
	var quote byte
	for i := 0; i < len(s.SQL); i++ {
		c := s.SQL[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '?':
			n++
		}
	}
	return n
}

// String returns the statement text terminated with a semicolon.
func (s Statement) String() string {
	sql := strings.TrimSpace(s.SQL)
	if !strings.HasSuffix(sql, ";") {
		sql += ";"
	}
	return sql
}

// Value is a data value that is always sent as a bound parameter.
type Value struct {
	v any
}

// StringValue wraps a string.
func StringValue(s string) Value { return Value{v: s} }

// IntValue wraps an integer.
func IntValue(n int64) Value { return Value{v: n} }

// FloatValue wraps a float.
func FloatValue(f float64) Value { return Value{v: f} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{v: b} }

// Any returns the wrapped value.
func (v Value) Any() any { return v.v }
