package mysql

import (
	"database/sql"

	"gmc/internal/core"
)

func introspectColumns(ic *introspectCtx, table core.Identifier) ([]core.ColumnInfo, error) {
	rows, err := ic.conn.QueryContext(ic.ctx, `
		SELECT
			c.column_name,
			c.column_type,
			c.is_nullable,
			c.column_key,
			c.column_default
		FROM information_schema.columns c
		WHERE c.table_schema = DATABASE() AND c.table_name = ?
		ORDER BY c.ordinal_position
	`, table.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []core.ColumnInfo
	for rows.Next() {
		var name, colType, nullable, colKey, defaultVal sql.NullString
		if err := rows.Scan(&name, &colType, &nullable, &colKey, &defaultVal); err != nil {
			return nil, err
		}

		col := core.ColumnInfo{
			Name:     name.String,
			Type:     colType.String,
			Nullable: nullable.String == "YES",
			Key:      colKey.String,
		}
		if defaultVal.Valid {
			col.Default = &defaultVal.String
		}
		cols = append(cols, col)
	}

	return cols, rows.Err()
}
