package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/api"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/config"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/dashboard"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/logging"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/pipeline"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/store"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/pkg/router"
)

// @title CO2 Emissions Dashboard API
// @version 1.0
// @description Country-level CO2 emissions (MT/capita) views: time series, top countries by region, and choropleth statistics.
// @host localhost:8050
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dashboard: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, cleanup, err := logging.Setup(cfg.Logging)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, source, imp, err := loadTable(ctx, cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("emissions table ready",
		slog.String("source", source),
		slog.Int("records", table.Len()))

	handler := api.NewRouter(api.Deps{
		Table:     table,
		Source:    source,
		Import:    imp,
		RateLimit: cfg.RateLimit,
		Logger:    logger,
		AccessLog: log.New(os.Stdout, "", 0),
	})

	srv := router.NewServer(cfg.Address(), handler, router.Timeouts{
		Read:     cfg.Server.ReadTimeout,
		Write:    cfg.Server.WriteTimeout,
		Idle:     cfg.Server.IdleTimeout,
		Shutdown: cfg.Server.ShutdownTimeout,
	}, nil)
	return srv.Run(ctx)
}

// loadTable reads the table from SQLite when data.from_db is set, otherwise
// from the configured sources.
func loadTable(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dashboard.Table, string, *store.Import, error) {
	if cfg.Data.FromDB {
		table, imp, err := loadStored(ctx, cfg.Data.DBPath, logger)
		if err != nil {
			return nil, "", nil, err
		}
		return table, "sqlite:" + cfg.Data.DBPath, imp, nil
	}

	table, report, err := pipeline.Load(ctx, cfg.LoadSpec(), logger)
	if err != nil {
		return nil, "", nil, err
	}
	if report.RowsInvalid > 0 {
		logger.Warn("some rows were skipped",
			slog.Int64("invalid", report.RowsInvalid),
			slog.Int("errors_kept", len(report.Errors)))
	}
	return table, "files", nil, nil
}

// loadStored reads the most recent import from the SQLite store.
func loadStored(ctx context.Context, path string, logger *slog.Logger) (*dashboard.Table, *store.Import, error) {
	db, err := store.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	imp, err := db.LastImport(ctx)
	if errors.Is(err, store.ErrNoImports) {
		return nil, nil, fmt.Errorf("%s holds no emissions yet, run co2export -import-db first: %w", path, err)
	}
	if err != nil {
		return nil, nil, err
	}

	count, err := db.CountRecords(ctx)
	if err != nil {
		return nil, nil, err
	}
	if count != imp.RowCount {
		return nil, nil, fmt.Errorf("import %s recorded %d rows but %s holds %d", imp.ID, imp.RowCount, path, count)
	}
	logger.Info("reading stored emissions",
		slog.String("import_id", imp.ID),
		slog.String("import_source", imp.Source),
		slog.Time("imported_at", imp.CreatedAt),
		slog.Int("records", count))

	records, err := db.LoadRecords(ctx)
	if err != nil {
		return nil, nil, err
	}
	table, err := dashboard.NewTable(records)
	if err != nil {
		return nil, nil, fmt.Errorf("stored table is inconsistent: %w", err)
	}
	return table, &imp, nil
}
