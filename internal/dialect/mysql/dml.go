package mysql

import (
	"fmt"
	"strconv"
	"strings"

	"gmc/internal/core"
)

const seedColumns = 6

// GenerateSeedInsert builds one multi-row INSERT IGNORE for the battle-pass
// table. Rows that hit the (userId, seasonId) unique key are skipped by the
// store instead of failing, so seeding can be repeated. Every value is a
// bound parameter.
func (g *Generator) GenerateSeedInsert(fields core.FieldMap, rows []core.SeedRow) (core.Statement, error) {
	f, err := fields.Identifiers()
	if err != nil {
		return core.Statement{}, err
	}
	if len(rows) == 0 {
		return core.Statement{}, core.Errorf(core.CodeInvalidRequest, "seed insert needs at least one row")
	}

	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", seedColumns), ", ") + ")"
	tuples := make([]string, len(rows))
	args := make([]core.Value, 0, len(rows)*seedColumns)
	for i, row := range rows {
		tuples[i] = tuple
		args = append(args, row.Values()...)
	}

	sql := fmt.Sprintf("INSERT IGNORE INTO %s (%s) VALUES %s",
		f.Table, joinIdentifiers(f.Columns()), strings.Join(tuples, ", "))
	return core.ExecStatement(sql, args...), nil
}

// GenerateInsertPreview renders the seed insert with literal values for
// display and export. It is never executed.
func (g *Generator) GenerateInsertPreview(fields core.FieldMap, rows []core.SeedRow) (string, error) {
	f, err := fields.Identifiers()
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", core.Errorf(core.CodeInvalidRequest, "insert preview needs at least one row")
	}

	cols := f.Columns()
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (\n  %s, %s, %s,\n  %s, %s, %s\n) VALUES\n", f.Table,
		cols[0], cols[1], cols[2], cols[3], cols[4], cols[5])
	for i, row := range rows {
		fmt.Fprintf(&b, "  (%s, %s, %d, %d, %s, %s)",
			g.QuoteString(row.UserID),
			g.QuoteString(row.Username),
			row.Tier,
			row.XP,
			strings.ToUpper(strconv.FormatBool(row.Premium)),
			g.QuoteString(row.SeasonID),
		)
		if i < len(rows)-1 {
			b.WriteString(",\n")
		}
	}
	b.WriteString(";")
	return b.String(), nil
}

// GenerateSampleSelect reads up to limit rows of a table, ordered by orderBy
// unless it is zero.
func (g *Generator) GenerateSampleSelect(table, orderBy core.Identifier, limit int) core.Statement {
	if limit <= 0 {
		limit = 1
	}
	order := ""
	if !orderBy.IsZero() {
		order = " ORDER BY " + orderBy.String()
	}
	return core.QueryStatement(fmt.Sprintf("SELECT * FROM %s%s LIMIT ?", table, order), core.IntValue(int64(limit)))
}

func joinIdentifiers(ids []core.Identifier) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	return strings.Join(names, ", ")
}
