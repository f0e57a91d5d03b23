/*
main.go - Application entry point

PURPOSE:
  Starts the umpire assignment and pay engine, or runs one of its
  maintenance commands against the same database.

COMMANDS:
  serve      HTTP API (default)
  recompute  Re-price every unpaid assignment once and exit
  seed       Load a sample scenario into the database and exit

GLOBAL FLAGS:
  --config   YAML config file (default: config.yaml, optional)
  --db       SQLite database path, overrides config and DB_PATH
             Use ":memory:" for an in-memory database

CONFIGURATION:
  Loaded by config.Load: defaults, then the YAML file, then environment
  variables (a .env file is read first when present).

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the recompute sweep
  2. Stop accepting new connections
  3. Wait for active requests to complete (server.shutdown_timeout)
  4. Close database connection

EXAMPLES:
  ./umpire-engine --db=./data/league.db serve
  ./umpire-engine --db=:memory: seed --scenario sample-season
  ./umpire-engine recompute

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Settings and environment overrides
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/warp/umpire-engine/api"
	"github.com/warp/umpire-engine/config"
	"github.com/warp/umpire-engine/league"
	"github.com/warp/umpire-engine/metrics"
	"github.com/warp/umpire-engine/store/sqlite"
)

func main() {
	app := &cli.App{
		Name:  "umpire-engine",
		Usage: "umpire assignment and pay engine",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
			&cli.StringFlag{Name: "db", Usage: "SQLite database path (overrides config)"},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:   "recompute",
				Usage:  "re-price every unpaid assignment and exit",
				Action: recompute,
			},
			{
				Name:  "seed",
				Usage: "load a sample scenario and exit",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "scenario", Value: "sample-season", Usage: "scenario id"},
				},
				Action: seed,
			},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// env is everything a command needs, built from flags and config.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *sqlite.Store
	metrics *metrics.Prometheus
	service *league.Service
}

func setup(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if db := c.String("db"); db != "" {
		cfg.Database.Path = db
	}

	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.Database.Path, err)
	}

	m := metrics.New()
	svc := league.NewService(store, league.WithLogger(logger), league.WithRecorder(m))
	return &env{cfg: cfg, logger: logger, store: store, metrics: m, service: svc}, nil
}

func serve(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.store.Close()

	handler := api.NewHandler(e.service, e.logger)
	handler.Health = e.store

	scheduler := api.NewRecomputeScheduler(e.service, e.logger)
	scheduler.Enabled = e.cfg.Recompute.Enabled
	scheduler.CheckInterval = e.cfg.Recompute.Interval
	handler.Scheduler = scheduler

	opts := api.RouterOptions{AllowedOrigins: e.cfg.Server.AllowedOrigins}
	if e.cfg.Metrics.Enabled {
		opts.Metrics = e.metrics.Handler()
		opts.MetricsPath = e.cfg.Metrics.Path
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", e.cfg.Server.Port),
		Handler:      api.NewRouter(handler, opts),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	scheduler.Start()

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("server starting", "addr", server.Addr, "db", e.cfg.Database.Path)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		scheduler.Stop()
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	e.logger.Info("shutting down server")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	e.logger.Info("server stopped")
	return nil
}

func recompute(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.store.Close()

	n, err := e.service.RecomputeAll(c.Context, nil)
	if err != nil {
		return err
	}
	e.logger.Info("recompute finished", "updated", n)
	return nil
}

func seed(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.store.Close()

	res, err := api.Seed(c.Context, e.service, c.String("scenario"))
	if err != nil {
		return err
	}
	e.logger.Info("scenario loaded",
		"scenario", res.Scenario,
		"towns", res.Towns,
		"teams", res.Teams,
		"umpires", res.Umpires,
		"games", res.Games,
		"assignments", res.Assignments,
		"completed_games", res.Completed,
		"availability", res.Availability,
		"pay_rates", res.PayRates)
	return nil
}
