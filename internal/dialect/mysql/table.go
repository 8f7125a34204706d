package mysql

import (
	"fmt"
	"strings"

	"gmc/internal/core"
)

var (
	colID        = core.IDColumn
	colCreatedAt = core.MustIdentifier("created_at")
	colUpdatedAt = core.MustIdentifier("updated_at")
)

const (
	createdAtClause = "TIMESTAMP DEFAULT CURRENT_TIMESTAMP"
	updatedAtClause = "TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"
)

// TableName returns the sanitized physical table name of a schema.
func (g *Generator) TableName(schema *core.MechanicSchema) (core.Identifier, error) {
	id, err := core.SanitizeTableName(schema.TableSlug())
	if err != nil {
		return core.Identifier{}, fmt.Errorf("table name for %q: %w", schema.Name, err)
	}
	return id, nil
}

// GenerateCreateTable builds the statements for an attribute-driven mechanic:
// the CREATE TABLE itself, one CREATE INDEX per indexed attribute and one
// ALTER TABLE ... ADD CONSTRAINT per foreign key, in that order.
func (g *Generator) GenerateCreateTable(schema *core.MechanicSchema) ([]core.Statement, error) {
	if schema == nil {
		return nil, core.Errorf(core.CodeInvalidRequest, "schema is nil")
	}
	table, err := g.TableName(schema)
	if err != nil {
		return nil, err
	}

	cols := make([]core.Identifier, len(schema.Attributes))
	seen := make(map[string]bool, len(schema.Attributes))
	lines := make([]string, 0, len(schema.Attributes)+3)
	lines = append(lines, "  "+colID.String()+" BIGINT AUTO_INCREMENT PRIMARY KEY")
	for i := range schema.Attributes {
		attr := &schema.Attributes[i]
		col, err := core.SanitizeColumn(attr.Name)
		if err != nil {
			return nil, fmt.Errorf("attribute %d: %w", i, err)
		}
		key := strings.ToLower(col.String())
		if seen[key] {
			return nil, core.Errorf(core.CodeInvalidAttribute, "duplicate attribute name %q", attr.Name)
		}
		seen[key] = true

		clause, err := g.ColumnClause(attr)
		if err != nil {
			return nil, err
		}
		cols[i] = col
		lines = append(lines, "  "+col.String()+" "+clause)
	}
	lines = append(lines,
		"  "+colCreatedAt.String()+" "+createdAtClause,
		"  "+colUpdatedAt.String()+" "+updatedAtClause,
	)

	stmts := []core.Statement{
		core.ExecStatement(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", table, strings.Join(lines, ",\n"))),
	}

	for i := range schema.Attributes {
		if !schema.Attributes[i].HasIndex() {
			continue
		}
		idx, err := derivedIdentifier("idx", table, cols[i])
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, core.ExecStatement(fmt.Sprintf("CREATE INDEX %s ON %s(%s)", idx, table, cols[i])))
	}

	for i := range schema.Attributes {
		c := schema.Attributes[i].Constraints
		if c == nil || c.ForeignKey == nil {
			continue
		}
		stmt, err := g.addForeignKey(table, cols[i], c.ForeignKey)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", schema.Attributes[i].Name, err)
		}
		stmts = append(stmts, stmt)
	}

	return stmts, nil
}

func (g *Generator) addForeignKey(table, col core.Identifier, fk *core.ForeignKey) (core.Statement, error) {
	refTable, err := core.SanitizeTableName(fk.Table)
	if err != nil {
		return core.Statement{}, err
	}
	refCol, err := core.SanitizeColumn(fk.Column)
	if err != nil {
		return core.Statement{}, err
	}
	name, err := derivedIdentifier("fk", table, col)
	if err != nil {
		return core.Statement{}, err
	}
	return core.ExecStatement(fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
		table, name, col, refTable, refCol)), nil
}

// GenerateBattlePassTable builds the fixed-field battle-pass table. One row
// per player per season is enforced by the unique key on (userId, seasonId).
func (g *Generator) GenerateBattlePassTable(fields core.FieldMap) (core.Statement, error) {
	f, err := fields.Identifiers()
	if err != nil {
		return core.Statement{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", f.Table)
	fmt.Fprintf(&b, "  %s BIGINT PRIMARY KEY AUTO_INCREMENT,\n", colID)
	fmt.Fprintf(&b, "  %s VARCHAR(255) NOT NULL,\n", f.UserID)
	fmt.Fprintf(&b, "  %s VARCHAR(255) NOT NULL,\n", f.Username)
	fmt.Fprintf(&b, "  %s INT NOT NULL DEFAULT 0,\n", f.Tier)
	fmt.Fprintf(&b, "  %s BIGINT NOT NULL DEFAULT 0,\n", f.XP)
	fmt.Fprintf(&b, "  %s BOOLEAN NOT NULL DEFAULT FALSE,\n", f.Premium)
	fmt.Fprintf(&b, "  %s VARCHAR(255) NOT NULL,\n", f.SeasonID)
	fmt.Fprintf(&b, "  %s %s,\n", colCreatedAt, createdAtClause)
	fmt.Fprintf(&b, "  %s %s,\n", colUpdatedAt, updatedAtClause)
	fmt.Fprintf(&b, "  UNIQUE KEY unique_user_season (%s, %s),\n", f.UserID, f.SeasonID)
	fmt.Fprintf(&b, "  INDEX idx_season (%s),\n", f.SeasonID)
	fmt.Fprintf(&b, "  INDEX idx_tier (%s)\n", f.Tier)
	b.WriteString(")")

	return core.ExecStatement(b.String()), nil
}

// GenerateDropTable builds the drop statement for a sanitized table name.
func (g *Generator) GenerateDropTable(table core.Identifier) core.Statement {
	return core.ExecStatement(fmt.Sprintf("DROP TABLE IF EXISTS %s", table))
}
