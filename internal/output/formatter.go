// Package output renders response envelopes for the terminal. It provides
// three formats: JSON (the envelope as is), human (readable text per result
// type) and SQL (the scripts of a generation result).
package output

import (
	"fmt"
	"strings"

	"gmc/internal/api"
)

// Format is an enum type representing the available output formats.
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
	FormatSQL   Format = "sql"
)

// Formatter renders an envelope.
type Formatter interface {
	FormatEnvelope(api.Envelope) (string, error)
}

// NewFormatter creates a new Formatter instance based on the given name.
// If no format is specified, defaults to human format.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatHuman:
		return humanFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	case FormatSQL:
		return sqlFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s; use 'human', 'json', or 'sql'", name)
	}
}

func normalizeStatement(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if stmt != "" && !strings.HasSuffix(stmt, ";") {
		stmt += ";"
	}
	return stmt
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", len(title)))
	sb.WriteString("\n")
}
