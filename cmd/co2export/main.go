// Command co2export loads the emissions sources once, optionally seeds the
// SQLite store, and writes the four dashboard views for one selection.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/config"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/dashboard"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/logging"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/pipeline"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/store"
)

// listFlag collects a repeatable string flag
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type options struct {
	sources   listFlag
	countries listFlag
	regions   listFlag
	scope     listFlag
	start     int
	end       int
	importDB  bool
	outDir    string
	formats   string
}

func main() {
	var opts options
	flag.Var(&opts.sources, "source", "data source, path or URL with optional |type suffix (repeatable; default from config)")
	flag.Var(&opts.countries, "country", "country to select (repeatable)")
	flag.Var(&opts.regions, "region", "region to select (repeatable)")
	flag.Var(&opts.scope, "scope", "scope token, ALL maps every country (repeatable)")
	flag.IntVar(&opts.start, "start", 0, "first year of the range (0 = unset)")
	flag.IntVar(&opts.end, "end", 0, "last year of the range (0 = unset)")
	flag.BoolVar(&opts.importDB, "import-db", false, "replace the SQLite table with the loaded records")
	flag.StringVar(&opts.outDir, "out", "", "export directory (default from config)")
	flag.StringVar(&opts.formats, "formats", "", "comma-separated export formats: csv,json,xlsx,png (default from config)")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "co2export: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if len(opts.sources) > 0 {
		cfg.Data.Sources = opts.sources
	}
	if opts.outDir != "" {
		cfg.Export.Dir = opts.outDir
	}
	if opts.formats != "" {
		cfg.Export.Formats = strings.Split(opts.formats, ",")
	}
	cfg.Data.FromDB = false
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, cleanup, err := logging.Setup(cfg.Logging)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, report, err := pipeline.Load(ctx, cfg.LoadSpec(), logger)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Loaded %d records from %d source(s) in %v (%d invalid rows, %d empty cells)\n",
		table.Len(), len(report.SourceMetrics), report.Duration, report.RowsInvalid, report.RowsDropped)

	if opts.importDB {
		if err := importTable(ctx, cfg.Data.DBPath, strings.Join(cfg.Data.Sources, ","), table); err != nil {
			return err
		}
	}

	sel := selection(opts)
	views := dashboard.Evaluate(table, sel)

	em := pipeline.NewExportManager(model.ExportSpec{Dir: cfg.Export.Dir, Formats: cfg.Export.Formats}, logger)
	results, err := em.Export(ctx, views)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			fmt.Printf("❌ %s export failed: %s\n", r.Format, r.Error)
			continue
		}
		fmt.Printf("💾 %s (%d rows)\n", r.Path, r.RecordCount)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d exports failed", failed, len(results))
	}
	logger.Info("export snapshot written", slog.String("snapshot", em.SnapshotID))
	return nil
}

func importTable(ctx context.Context, dbPath, source string, table *dashboard.Table) error {
	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.ImportRecords(ctx, source, table.Records())
	if err != nil {
		return err
	}
	fmt.Printf("🗄️  Imported %d records into %s (import %s)\n", table.Len(), dbPath, id)
	return nil
}

func selection(opts options) model.Selection {
	sel := model.Selection{
		Countries: opts.countries,
		Regions:   opts.regions,
		Scope:     opts.scope,
	}
	if opts.start != 0 && opts.end != 0 {
		sel.Years = &model.YearRange{Start: opts.start, End: opts.end}
	}
	return sel
}
