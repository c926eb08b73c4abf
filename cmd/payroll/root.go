package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warp/payroll-engine/config"
	"github.com/warp/payroll-engine/directory"
	"github.com/warp/payroll-engine/logger"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/postgres"
	"github.com/warp/payroll-engine/store/sqlite"
)

// storage is what both database backends provide.
type storage interface {
	payroll.EntryStore
	payroll.RateStore
	directory.Store
	Ping(ctx context.Context) error
	Close() error
}

// app holds the resolved configuration and, once opened, the store and engine.
type app struct {
	cfg   config.Config
	store storage
	calc  *payroll.Calculator
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Load()}

	root := &cobra.Command{
		Use:           "payroll",
		Short:         "Time tracking and semi-monthly payroll",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(a.cfg.Log)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfg.DBDriver, "driver", a.cfg.DBDriver, "database driver (sqlite|postgres)")
	f.StringVar(&a.cfg.DBPath, "db", a.cfg.DBPath, "SQLite database path (\":memory:\" for in-memory)")
	f.StringVar(&a.cfg.DatabaseURL, "database-url", a.cfg.DatabaseURL, "PostgreSQL connection URL")
	f.StringVar(&a.cfg.Port, "port", a.cfg.Port, "HTTP server port")

	root.AddCommand(
		newServeCmd(a),
		newPunchCmd(a),
		newTodayCmd(a),
		newCalcCmd(a),
		newRateCmd(a),
		newCalendarCmd(a),
	)
	return root
}

// open connects the configured backend and builds the calculator.
func (a *app) open(ctx context.Context) error {
	var err error
	switch a.cfg.DBDriver {
	case config.DriverSQLite:
		a.store, err = sqlite.New(a.cfg.DBPath)
	case config.DriverPostgres:
		if a.cfg.DatabaseURL == "" {
			return fmt.Errorf("--database-url (or PAYROLL_DATABASE_URL) is required for the postgres driver")
		}
		a.store, err = postgres.Open(ctx, postgres.Config{URL: a.cfg.DatabaseURL, MaxConns: int32(a.cfg.MaxConns)})
	default:
		return fmt.Errorf("unknown database driver %q", a.cfg.DBDriver)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	a.calc = payroll.NewCalculator(a.store, a.store)
	logger.Named("store").Debug().Str("driver", a.cfg.DBDriver).Msg("database opened")
	return nil
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		logger.Named("store").Warn().Err(err).Msg("close database")
	}
}

// withEngine opens the store around fn.
func (a *app) withEngine(cmd *cobra.Command, fn func(ctx context.Context) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.open(ctx); err != nil {
		return err
	}
	defer a.close()
	return fn(ctx)
}
