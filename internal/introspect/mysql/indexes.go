package mysql

import (
	"database/sql"

	"gmc/internal/core"
)

// introspectIndexes returns one entry per indexed column, grouped by index
// name and ordered by position within the index.
func introspectIndexes(ic *introspectCtx, table core.Identifier) ([]core.IndexInfo, error) {
	rows, err := ic.conn.QueryContext(ic.ctx, `
		SELECT index_name, non_unique, column_name, seq_in_index
		FROM information_schema.statistics
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY index_name, seq_in_index
	`, table.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []core.IndexInfo
	for rows.Next() {
		var indexName, column sql.NullString
		var nonUnique, seq sql.NullInt64
		if err := rows.Scan(&indexName, &nonUnique, &column, &seq); err != nil {
			return nil, err
		}

		indexes = append(indexes, core.IndexInfo{
			Name:   indexName.String,
			Column: column.String,
			Unique: nonUnique.Int64 == 0,
			Seq:    int(seq.Int64),
		})
	}

	return indexes, rows.Err()
}
