package mysql

import (
	"fmt"
	"strconv"
	"strings"

	"gmc/internal/core"
)

const defaultVarcharLength = 255

// ColumnClause maps an attribute to its column type clause (without the name).
// Rules apply in order: base type, VARCHAR length, NOT NULL, DEFAULT, UNIQUE.
// An index flag is not part of the clause; it becomes a separate CREATE INDEX.
func (g *Generator) ColumnClause(attr *core.AttributeSpec) (string, error) {
	t, ok := core.ParseAttributeType(string(attr.Type))
	if !ok {
		return "", core.Errorf(core.CodeInvalidAttribute, "attribute %q has unsupported type %q", attr.Name, attr.Type)
	}

	parts := []string{g.baseType(t, attr.Constraints)}
	if attr.Required {
		parts = append(parts, "NOT NULL")
	}
	if attr.Default != nil {
		lit, err := g.defaultLiteral(t, attr.Default)
		if err != nil {
			return "", fmt.Errorf("attribute %q: %w", attr.Name, err)
		}
		parts = append(parts, "DEFAULT", lit)
	}
	if attr.IsUnique() {
		parts = append(parts, "UNIQUE")
	}
	return strings.Join(parts, " "), nil
}

func (g *Generator) baseType(t core.AttributeType, c *core.AttributeConstraints) string {
	if t != core.AttrVarchar {
		return string(t)
	}
	n := defaultVarcharLength
	if c != nil && c.MaxLength > 0 {
		n = c.MaxLength
	}
	return fmt.Sprintf("VARCHAR(%d)", n)
}

// defaultLiteral renders a default value. Strings are quoted and escaped,
// numbers and booleans are rendered as-is. TEXT and JSON columns only take
// expression defaults, so their literal is wrapped in parentheses.
func (g *Generator) defaultLiteral(t core.AttributeType, v any) (string, error) {
	var lit string
	switch val := v.(type) {
	case string:
		lit = g.QuoteString(val)
	case bool:
		lit = strings.ToUpper(strconv.FormatBool(val))
	case int:
		lit = strconv.Itoa(val)
	case int32:
		lit = strconv.FormatInt(int64(val), 10)
	case int64:
		lit = strconv.FormatInt(val, 10)
	case float32:
		lit = strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		lit = strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return "", core.Errorf(core.CodeInvalidAttribute, "unsupported default value type %T", v)
	}
	if t == core.AttrText || t == core.AttrJSON {
		lit = "(" + lit + ")"
	}
	return lit, nil
}
