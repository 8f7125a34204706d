// Package mysql provides the MySQL statement generator: column clauses for
// mechanic attributes, CREATE TABLE / CREATE INDEX statements, the fixed
// battle-pass table, seed inserts and the read statements used to verify them.
package mysql

import (
	"fmt"
	"hash/fnv"
	"strings"

	"gmc/internal/core"
	"gmc/internal/dialect"
)

func init() {
	dialect.RegisterDialect(dialect.MySQL, func() dialect.Dialect {
		return NewMySQLDialect()
	})
}

// Dialect represents the MySQL dialect.
type Dialect struct {
	generator *Generator
}

// NewMySQLDialect initializes a new MySQL dialect instance.
func NewMySQLDialect() *Dialect {
	return &Dialect{generator: NewMySQLGenerator()}
}

// Name returns the name of the MySQL dialect.
func (d *Dialect) Name() dialect.Type {
	return dialect.MySQL
}

// Generator returns the statement generator for the MySQL dialect.
func (d *Dialect) Generator() dialect.Generator {
	return d.generator
}

// Generator is a stateless MySQL statement generator.
type Generator struct{}

// NewMySQLGenerator initializes a new MySQL generator instance.
func NewMySQLGenerator() *Generator {
	return &Generator{}
}

// QuoteString renders value as a MySQL string literal.
func (g *Generator) QuoteString(value string) string {
	var b strings.Builder
	b.Grow(len(value) + len(value)/10 + 2)

	b.WriteByte('\'')
	for _, char := range value {
		switch char {
		case '\'':
			b.WriteString("''")
		case '\\':
			b.WriteString(`\\`)
		case '\x00':
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\x1A': // Ctrl+Z
			b.WriteString(`\Z`)
		default:
			b.WriteRune(char)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// RenderScript renders statements as an exportable script with a header comment.
func (g *Generator) RenderScript(title string, stmts []core.Statement) string {
	var b strings.Builder
	title = strings.Join(strings.Fields(title), " ")
	if title != "" {
		b.WriteString("-- Migration for ")
		b.WriteString(title)
		b.WriteString("\n")
	}
	for i, stmt := range stmts {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(stmt.String())
		b.WriteString("\n")
	}
	return b.String()
}

// derivedIdentifier joins prefix and parts with "_" into a new identifier.
// Names longer than MySQL's limit keep a readable head and end with an
// FNV-1a hash of the full name, so the result stays unique and deterministic.
func derivedIdentifier(prefix string, parts ...core.Identifier) (core.Identifier, error) {
	names := make([]string, 0, len(parts)+1)
	names = append(names, prefix)
	for _, p := range parts {
		names = append(names, p.String())
	}
	full := strings.Join(names, "_")
	if len(full) <= core.MaxIdentifierLength {
		return core.Sanitize(full)
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(full))
	suffix := fmt.Sprintf("_%016x", h.Sum64())
	head := strings.TrimRight(full[:core.MaxIdentifierLength-len(suffix)], "_")
	return core.Sanitize(head + suffix)
}
