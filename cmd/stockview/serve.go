package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/floware/stockview/internal/logging"
	"github.com/floware/stockview/internal/server"
	"github.com/floware/stockview/internal/store"
)

var (
	serveAddr string
	serveSeed bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the products REST API",
	Long: `Opens the configured database, migrates the products table and serves the
API under /api/products. Prometheus metrics are exposed on /metrics.

Example:
  stockview serve --addr :9090 --seed`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveSeed, "seed", false, "insert demo products into an empty table")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveSeed {
		cfg.Database.Seed = true
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(cfg.Database, log)
	if err != nil {
		return err
	}

	repo := store.NewRepository(db, log)
	if err := repo.Migrate(ctx); err != nil {
		return err
	}

	if cfg.Database.Seed {
		n, err := repo.Seed(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("seeded demo products", zap.Int("count", n))
		}
	}

	srv := server.New(repo, cfg.Server, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("stopping", zap.Error(context.Cause(gctx)))

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}

		return sqlDB.Close()
	})

	return g.Wait()
}
