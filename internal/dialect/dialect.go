// Package dialect provides a unified interface over SQL dialects. The engine
// only ships MySQL, but every caller goes through this interface so the
// statement shapes stay in one place per dialect.
package dialect

import (
	"fmt"
	"strings"
	"sync"

	"gmc/internal/core"
)

type Type string

const (
	MySQL Type = "mysql"
)

// Generator builds every statement the engine sends or exports.
// Identifiers it interpolates come only from core.Identifier values; data
// values are returned as bound arguments.
type Generator interface {
	TableName(schema *core.MechanicSchema) (core.Identifier, error)
	GenerateCreateTable(schema *core.MechanicSchema) ([]core.Statement, error)
	GenerateBattlePassTable(fields core.FieldMap) (core.Statement, error)
	GenerateSeedInsert(fields core.FieldMap, rows []core.SeedRow) (core.Statement, error)
	GenerateInsertPreview(fields core.FieldMap, rows []core.SeedRow) (string, error)
	GenerateSampleSelect(table, orderBy core.Identifier, limit int) core.Statement
	GenerateDropTable(table core.Identifier) core.Statement
	RenderScript(title string, stmts []core.Statement) string
	QuoteString(value string) string
}

// Dialect pairs a name with its generator.
type Dialect interface {
	Name() Type
	Generator() Generator
}

var (
	registry = map[Type]func() Dialect{}
	mu       sync.RWMutex
)

// RegisterDialect creates a new registry entry for the specified dialect.
func RegisterDialect(d Type, ctor func() Dialect) {
	mu.Lock()
	defer mu.Unlock()
	registry[d] = ctor
}

// GetDialect returns the dialect registered under d.
func GetDialect(d Type) (Dialect, error) {
	mu.RLock()
	ctor, ok := registry[Type(strings.ToLower(string(d)))]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported dialect %q", d)
	}
	return ctor(), nil
}
