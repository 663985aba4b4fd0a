package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/lazorvault/vaultd/internal/api"
	"github.com/lazorvault/vaultd/internal/config"
	"github.com/lazorvault/vaultd/internal/database"
	"github.com/lazorvault/vaultd/internal/export"
	"github.com/lazorvault/vaultd/internal/external"
	"github.com/lazorvault/vaultd/internal/holdings"
	"github.com/lazorvault/vaultd/internal/jupiter"
	"github.com/lazorvault/vaultd/internal/portfolio"
	"github.com/lazorvault/vaultd/internal/pricing"
	"github.com/lazorvault/vaultd/internal/quote"
	"github.com/lazorvault/vaultd/internal/session"
	"github.com/lazorvault/vaultd/internal/snapshot"
	"github.com/lazorvault/vaultd/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "vaultd",
		Usage: "wallet valuation and swap quote service",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API with background workers",
				Action: func(c *cli.Context) error {
					return runServe(c.Context)
				},
			},
			{
				Name:  "snapshot",
				Usage: "generate a snapshot for one wallet and exit",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "wallet", Usage: "wallet address", Required: true},
				},
				Action: func(c *cli.Context) error {
					return runSnapshot(c.Context, c.String("wallet"))
				},
			},
			{
				Name:  "export",
				Usage: "write a wallet's valuation history to an XLSX workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "wallet", Usage: "wallet address", Required: true},
					&cli.StringFlag{Name: "out", Usage: "output file path", Value: "report.xlsx"},
					&cli.IntFlag{Name: "limit", Usage: "number of snapshots to include", Value: 90},
				},
				Action: func(c *cli.Context) error {
					return runExport(c.Context, c.String("wallet"), c.String("out"), c.Int("limit"))
				},
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func connectDB(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	migrationsSub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating migrations sub-fs: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return pool, nil
}

func holdingsProvider(cfg config.Config) holdings.Provider {
	if cfg.IndexerURL != "" {
		return holdings.NewIndexerClient(cfg.IndexerURL, cfg.IndexerRetryMax, cfg.IndexerRetryBaseDelay)
	}
	slog.Warn("INDEXER_URL not set, serving demo holdings")
	return holdings.StaticProvider{}
}

func runServe(ctx context.Context) error {
	cfg := config.Load()

	portfolioSvc := portfolio.NewService(holdingsProvider(cfg))

	var pool *pgxpool.Pool
	var snapshotSvc *snapshot.Service
	var priceSource pricing.Source = pricing.RegistrySource{}

	if cfg.DatabaseURL != "" {
		var err error
		pool, err = connectDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		quoteRepo := external.NewPgQuoteRepository(pool)
		priceSource = pricing.NewStoredSource(quoteRepo)

		feed := external.NewPriceFeedClient(cfg.PriceFeedURL, cfg.PriceFeedDelay, cfg.PriceFeedRetryMax)
		externalSvc := external.NewService(feed, quoteRepo)

		priceWorker := worker.NewPriceWorker(externalSvc, cfg.PriceWorkerInterval)
		go priceWorker.Run(ctx)

		snapshotRepo := snapshot.NewPgRepository(pool)
		snapshotSvc = snapshot.NewService(portfolioSvc, snapshotRepo)

		var hook worker.AfterSnapshotHook
		if cfg.SheetsSpreadsheetID != "" && cfg.GoogleCredentials != "" {
			writer, err := export.NewSheetsWriter(ctx, cfg.SheetsSpreadsheetID, cfg.GoogleCredentials)
			if err != nil {
				return fmt.Errorf("creating sheets writer: %w", err)
			}
			hook = export.NewService(snapshotRepo, writer)
		}

		if len(cfg.SnapshotWallets) > 0 {
			snapshotWorker := worker.NewSnapshotWorker(snapshotSvc, cfg.SnapshotWallets, cfg.SnapshotWorkerInterval, hook)
			go snapshotWorker.Run(ctx)
		}
	} else {
		slog.Warn("DATABASE_URL not set, snapshots and stored prices disabled")
	}

	var live quote.LiveQuoter
	var swapper api.SwapBuilder
	if cfg.JupiterURL != "" {
		client := jupiter.NewClient(cfg.JupiterURL, cfg.JupiterRetryMax, cfg.JupiterRetryBaseDelay)
		live = client
		swapper = client
	}

	calc := quote.NewCalculator(decimal.NewFromFloat(cfg.FeeRate))
	quoteSvc := quote.NewService(calc, pricing.NewService(priceSource, cfg.PriceCacheTTL), live)

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, generate endpoint is unprotected")
	}

	sess := session.New(session.NewMemoryStore())
	if err := sess.Resume(); err != nil {
		slog.Warn("failed to resume wallet session", "error", err)
	}

	handler := api.NewHandler(portfolioSvc, quoteSvc, swapper, snapshotSvc, sess)
	srv := api.NewServer(cfg.HTTPPort, handler, cfg.AdminAPIKey)

	go func() {
		slog.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

func runSnapshot(ctx context.Context, wallet string) error {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	pool, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	portfolioSvc := portfolio.NewService(holdingsProvider(cfg))
	snapshotSvc := snapshot.NewService(portfolioSvc, snapshot.NewPgRepository(pool))

	now := time.Now().UTC()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	p, err := snapshotSvc.Generate(ctx, wallet, date)
	if err != nil {
		return fmt.Errorf("generating snapshot: %w", err)
	}

	slog.Info("snapshot generated", "wallet", wallet, "date", date.Format("2006-01-02"), "totalValue", p.Summary.TotalValue)
	return nil
}

func runExport(ctx context.Context, wallet, out string, limit int) error {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	pool, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	exportSvc := export.NewService(snapshot.NewPgRepository(pool), nil)
	if err := exportSvc.WriteReport(ctx, wallet, out, limit); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	slog.Info("report written", "wallet", wallet, "path", out)
	return nil
}
