package core

import "time"

// TableSummary is one row of a live-schema listing.
type TableSummary struct {
	TableName string     `json:"tableName"`
	RowCount  int64      `json:"rowCount"`
	Engine    string     `json:"engine"`
	Collation string     `json:"collation"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// ColumnInfo describes a live column.
type ColumnInfo struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Nullable bool    `json:"nullable"`
	Key      string  `json:"key,omitempty"` // PRI, UNI, MUL or empty
	Default  *string `json:"default,omitempty"`
}

// IndexInfo is one column entry of a live index, one per indexed column.
type IndexInfo struct {
	Name   string `json:"name"`
	Column string `json:"column"`
	Unique bool   `json:"unique"`
	Seq    int    `json:"seq"`
}

// TableDescriptor is the full introspection result for one table.
// It is rebuilt from the store on every call.
type TableDescriptor struct {
	TableName  string           `json:"tableName"`
	RowCount   int64            `json:"rowCount"`
	Engine     string           `json:"engine"`
	Collation  string           `json:"collation"`
	CreatedAt  *time.Time       `json:"createdAt,omitempty"`
	Columns    []ColumnInfo     `json:"columns"`
	Indexes    []IndexInfo      `json:"indexes"`
	SampleRows []map[string]any `json:"sampleRows"`
}

// IndexColumns returns the ordered columns of the named index and whether it is unique.
func (d *TableDescriptor) IndexColumns(name string) (cols []string, unique bool) {
	for _, idx := range d.Indexes {
		if idx.Name != name {
			continue
		}
		cols = append(cols, idx.Column)
		unique = idx.Unique
	}
	return cols, unique
}

// UniqueKeyColumns returns the ordered columns of the named index when it is unique.
func (d *TableDescriptor) UniqueKeyColumns(name string) []string {
	cols, unique := d.IndexColumns(name)
	if !unique {
		return nil
	}
	return cols
}

// FindColumn returns the column with the given name, or nil.
func (d *TableDescriptor) FindColumn(name string) *ColumnInfo {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i]
		}
	}
	return nil
}

// DropResult reports a completed drop.
type DropResult struct {
	TableName string    `json:"tableName"`
	DroppedAt time.Time `json:"droppedAt"`
}
