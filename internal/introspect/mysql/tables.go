package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"gmc/internal/core"
	"gmc/internal/store"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (i *introspector) List(ctx context.Context, pattern string) ([]core.TableSummary, error) {
	marker := ""
	if pattern != "" {
		id, err := core.Sanitize(pattern)
		if err != nil {
			return nil, err
		}
		marker = likeEscaper.Replace(id.String())
	}

	var out []core.TableSummary
	err := i.withConn(ctx, func(ic *introspectCtx) error {
		rows, err := ic.conn.QueryContext(ic.ctx, `
			SELECT table_name, table_rows, engine, table_collation, create_time
			FROM information_schema.tables
			WHERE table_schema = DATABASE()
				AND table_type = 'BASE TABLE'
				AND table_name LIKE CONCAT('%', ?, '%')
			ORDER BY create_time DESC, table_name
		`, marker)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var name, engine, collation sql.NullString
			var rowCount sql.NullInt64
			var created sql.NullTime
			if err := rows.Scan(&name, &rowCount, &engine, &collation, &created); err != nil {
				return err
			}
			out = append(out, core.TableSummary{
				TableName: name.String,
				RowCount:  rowCount.Int64,
				Engine:    engine.String,
				Collation: collation.String,
				CreatedAt: timePtr(created),
			})
		}
		return rows.Err()
	})
	if err != nil {
		return nil, store.Classify(err)
	}
	if out == nil {
		out = []core.TableSummary{}
	}
	return out, nil
}

type tableOptions struct {
	Engine    string
	Collation string
	CreatedAt *time.Time
}

// tableMeta reads table-level metadata and doubles as the existence check.
// Views do not count as existing tables.
func tableMeta(ic *introspectCtx, table core.Identifier) (*tableOptions, error) {
	row := ic.conn.QueryRowContext(ic.ctx, `
		SELECT engine, table_collation, create_time
		FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_name = ? AND table_type = 'BASE TABLE'
	`, table.String())

	var engine, collation sql.NullString
	var created sql.NullTime
	if err := row.Scan(&engine, &collation, &created); err != nil {
		return nil, notFound(table, err)
	}

	return &tableOptions{
		Engine:    engine.String,
		Collation: collation.String,
		CreatedAt: timePtr(created),
	}, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
