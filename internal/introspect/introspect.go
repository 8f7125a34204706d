// Package introspect contains the introspector interface used to inspect the
// live tables the engine created. Every call reads the store again; nothing
// is cached between calls.
package introspect

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gmc/internal/core"
	"gmc/internal/dialect"
	"gmc/internal/store"
)

// Introspector lists, describes and drops live tables.
type Introspector interface {
	List(ctx context.Context, pattern string) ([]core.TableSummary, error)
	Describe(ctx context.Context, table core.Identifier) (*core.TableDescriptor, error)
	Drop(ctx context.Context, table core.Identifier) (*core.DropResult, error)
	ServerInfo(ctx context.Context) (*ServerInfo, error)
}

// ServerInfo identifies the server behind the pool.
type ServerInfo struct {
	Flavor   string `json:"flavor"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// Constructor builds an introspector over pool.
type Constructor func(pool store.Pool, logger *slog.Logger) Introspector

var (
	registry = make(map[dialect.Type]Constructor)
	mu       sync.RWMutex
)

// Register makes an introspector available for a dialect.
func Register(d dialect.Type, fn Constructor) {
	mu.Lock()
	defer mu.Unlock()
	registry[d] = fn
}

// New returns the introspector registered for d.
func New(d dialect.Type, pool store.Pool, logger *slog.Logger) (Introspector, error) {
	mu.RLock()
	fn, ok := registry[d]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unsupported dialect %v", d)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return fn(pool, logger), nil
}
