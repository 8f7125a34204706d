package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"gmc/internal/api"
	"gmc/internal/config"
	"gmc/internal/output"
	"gmc/internal/service"
	"gmc/internal/store"
)

// errReported marks a failure whose envelope was already written.
var errReported = errors.New("reported")

// app holds the global flags and the output streams.
type app struct {
	configPath string
	format     string
	timeout    time.Duration
	dsn        string
	verbose    bool

	out    io.Writer
	errOut io.Writer

	// openStore is store.Open; tests replace it.
	openStore func(ctx context.Context, opts store.Options) (store.Pool, io.Closer, error)
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		out:    out,
		errOut: errOut,
		openStore: func(ctx context.Context, opts store.Options) (store.Pool, io.Closer, error) {
			db, err := store.Open(ctx, opts)
			if err != nil {
				return nil, nil, err
			}
			return db, db, nil
		},
	}
}

// loadConfig loads the configuration and applies the flags set on cmd.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.dsn != "" {
		cfg.DB.DSN = a.dsn
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, cfg.Validate()
}

func (a *app) logger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(a.errOut, opts))
	}
	return slog.New(slog.NewTextHandler(a.errOut, opts))
}

// run builds a service, opening the store only when needsStore is set, calls
// fn and renders the envelope it returns.
func (a *app) run(cmd *cobra.Command, needsStore bool, fn func(ctx context.Context, h *api.Handler) api.Envelope) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := a.logger(cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	var pool store.Pool
	if needsStore {
		p, closer, err := a.openStore(ctx, cfg.StoreOptions())
		if err != nil {
			return a.render(api.Fail(err))
		}
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Warn("failed to close database connection", "error", err)
			}
		}()
		pool = p
	}

	svc, err := service.New(pool, service.WithLogger(logger))
	if err != nil {
		return err
	}
	return a.render(fn(ctx, api.NewHandler(svc)))
}

func (a *app) render(env api.Envelope) error {
	f, err := output.NewFormatter(a.format)
	if err != nil {
		return err
	}
	out, err := f.FormatEnvelope(env)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprint(a.out, out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !env.Success {
		return errReported
	}
	return nil
}
