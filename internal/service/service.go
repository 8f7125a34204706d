// Package service orchestrates the engine: it turns generation requests into
// artifacts, creates and seeds battle-pass tables, and exposes the live-table
// list, describe and drop operations. A Service holds no per-request state;
// every live call borrows its own connection from the pool.
package service

import (
	"context"
	"log/slog"
	"time"

	"gmc/internal/apply"
	"gmc/internal/core"
	"gmc/internal/dialect"
	_ "gmc/internal/dialect/mysql"
	"gmc/internal/introspect"
	_ "gmc/internal/introspect/mysql"
	"gmc/internal/store"
)

// VerifyLimit is the number of rows read back after seeding.
const VerifyLimit = 10

// Service is the schema generation service.
type Service struct {
	pool         store.Pool
	generator    dialect.Generator
	introspector introspect.Introspector
	executor     *apply.Executor
	logger       *slog.Logger
	now          func() time.Time
	codePackage  string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for schema ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithGenerator replaces the MySQL statement generator.
func WithGenerator(g dialect.Generator) Option {
	return func(s *Service) { s.generator = g }
}

// WithIntrospector replaces the MySQL introspector.
func WithIntrospector(i introspect.Introspector) Option {
	return func(s *Service) { s.introspector = i }
}

// WithCodePackage sets the package name of generated repository code.
func WithCodePackage(pkg string) Option {
	return func(s *Service) { s.codePackage = pkg }
}

// New returns a service over pool. A nil pool is allowed for callers that
// only generate artifacts; live operations then fail with STORE_UNAVAILABLE.
func New(pool store.Pool, opts ...Option) (*Service, error) {
	s := &Service{
		pool:   pool,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.generator == nil {
		d, err := dialect.GetDialect(dialect.MySQL)
		if err != nil {
			return nil, err
		}
		s.generator = d.Generator()
	}
	if s.introspector == nil && pool != nil {
		i, err := introspect.New(dialect.MySQL, pool, s.logger)
		if err != nil {
			return nil, err
		}
		s.introspector = i
	}
	if pool != nil {
		s.executor = apply.NewExecutor(pool, apply.WithLogger(s.logger), apply.WithClock(s.now))
	}
	return s, nil
}

// ListAvailableMechanicTypes returns the supported mechanic types in catalog order.
func (s *Service) ListAvailableMechanicTypes() []core.MechanicType {
	return core.SupportedMechanicTypes()
}

// MechanicCatalog returns the descriptive catalog entries of every mechanic type.
func (s *Service) MechanicCatalog() []core.MechanicInfo {
	return core.MechanicCatalog()
}

// BattlePassTemplate returns the stock battle-pass template.
func (s *Service) BattlePassTemplate() core.BattlePassTemplate {
	return core.DefaultBattlePassTemplate()
}

var errNoStore = core.Errorf(core.CodeStoreUnavailable, "no database configured")

func (s *Service) requireStore() error {
	if s.introspector == nil {
		return errNoStore
	}
	return nil
}

// ListLiveSchemas lists the tables whose name contains pattern. An empty
// pattern lists every table of the database.
func (s *Service) ListLiveSchemas(ctx context.Context, pattern string) ([]core.TableSummary, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	return s.introspector.List(ctx, pattern)
}

// DescribeLiveSchema returns the live descriptor of a table.
func (s *Service) DescribeLiveSchema(ctx context.Context, name string) (*core.TableDescriptor, error) {
	table, err := core.Sanitize(name)
	if err != nil {
		return nil, err
	}
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	return s.introspector.Describe(ctx, table)
}

// DropLiveSchema drops a table. The name must already be a valid identifier;
// nothing is sent to the store otherwise.
func (s *Service) DropLiveSchema(ctx context.Context, name string) (*core.DropResult, error) {
	table, err := core.SanitizeTableName(name)
	if err != nil {
		return nil, err
	}
	if err := s.requireStore(); err != nil {
		return nil, err
	}

	res, err := s.introspector.Drop(ctx, table)
	if err != nil {
		return nil, err
	}
	s.logger.Info("table dropped", "table", res.TableName)
	return res, nil
}

// ServerInfo reports the flavor and version of the connected server.
func (s *Service) ServerInfo(ctx context.Context) (*introspect.ServerInfo, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	return s.introspector.ServerInfo(ctx)
}
