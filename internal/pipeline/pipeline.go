package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/dashboard"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
)

// ErrNoSources is returned when a load spec lists no sources
var ErrNoSources = errors.New("no sources configured")

// ErrNoRecords is returned when the sources yield no usable record
var ErrNoRecords = errors.New("no emissions records loaded")

// Load runs ingest → validate → transform → melt over every source and
// builds the emissions table. Rows that fail validation or melting are
// counted in the report and skipped; unreadable sources fail the load.
func Load(ctx context.Context, spec model.LoadSpec, logger *slog.Logger) (*dashboard.Table, model.LoadReport, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(spec.Sources) == 0 {
		return nil, model.LoadReport{}, ErrNoSources
	}
	if err := CheckTransformations(spec.Transformations); err != nil {
		return nil, model.LoadReport{}, err
	}

	runID := uuid.New().String()
	logger = logger.With(slog.String("run_id", runID))
	tracker := NewTracker(runID, spec)
	start := time.Now()

	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bufferSize := spec.ChannelBufferSize
	if bufferSize <= 0 {
		bufferSize = 100
	}
	validationWorkers := spec.Workers.Validation
	if validationWorkers <= 0 {
		validationWorkers = 3 // default
	}
	transformWorkers := spec.Workers.Transform
	if transformWorkers <= 0 {
		transformWorkers = 2 // default
	}

	logger.InfoContext(ctx, "starting load",
		slog.Int("sources", len(spec.Sources)),
		slog.Any("transformations", spec.Transformations))

	rowsCh := make(chan model.GenericRecord, bufferSize)
	validatedCh := make(chan model.GenericRecord, bufferSize)
	transformedCh := make(chan model.GenericRecord, bufferSize)

	// --- INGESTION STAGE ---
	ingestErr := make(chan error, 1)
	tracker.StartStage(StageIngestion, len(spec.Sources))
	go func() {
		in := &ingester{policy: spec.Retry, tracker: tracker, logger: logger}
		err := in.StartIngestion(ctx, spec.Sources, rowsCh)
		close(rowsCh) // safe: only this goroutine closes rowsCh
		tracker.EndStage(StageIngestion, tracker.ingested.Load())
		if err != nil {
			cancel()
		}
		ingestErr <- err
	}()

	// --- VALIDATION STAGE ---
	tracker.StartStage(StageValidation, validationWorkers)
	ValidateRecords(ctx, spec.Sources, rowsCh, validatedCh, tracker, logger, validationWorkers)

	// --- TRANSFORMATION STAGE ---
	tracker.StartStage(StageTransformation, transformWorkers)
	TransformRecords(ctx, spec.Transformations, validatedCh, transformedCh, tracker, logger, transformWorkers)

	// --- MELT STAGE ---
	tracker.StartStage(StageMelt, 1)
	var records []model.EmissionsRecord
	var melted int64
	for rec := range transformedCh {
		melted++
		out, dropped, err := Melt(rec)
		tracker.dropped.Add(int64(dropped))
		if err != nil {
			sourceURL, _ := rec[SourceKey].(string)
			tracker.invalid.Add(1)
			tracker.RecordError(StageMelt, sourceURL, err)
			continue
		}
		records = append(records, out...)
	}
	tracker.EndStage(StageValidation, tracker.valid.Load()+tracker.invalid.Load())
	tracker.EndStage(StageTransformation, melted)
	tracker.EndStage(StageMelt, int64(len(records)))

	if err := <-ingestErr; err != nil {
		tracker.Fail()
		logger.ErrorContext(ctx, "load failed", slog.String("error", err.Error()))
		return nil, tracker.Report(), fmt.Errorf("ingestion failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		tracker.Fail()
		return nil, tracker.Report(), fmt.Errorf("load interrupted: %w", err)
	}
	if len(records) == 0 {
		tracker.Fail()
		return nil, tracker.Report(), ErrNoRecords
	}

	// workers interleave rows, so fix a canonical table order
	sort.Slice(records, func(i, j int) bool {
		if records[i].Country != records[j].Country {
			return records[i].Country < records[j].Country
		}
		return records[i].Year < records[j].Year
	})

	table, err := dashboard.NewTable(records)
	if err != nil {
		tracker.Fail()
		return nil, tracker.Report(), fmt.Errorf("failed to build table: %w", err)
	}

	tracker.Complete(int64(table.Len()))
	report := tracker.Report()
	logger.InfoContext(ctx, "load completed",
		slog.Int64("rows_ingested", report.RowsIngested),
		slog.Int64("rows_invalid", report.RowsInvalid),
		slog.Int64("cells_dropped", report.RowsDropped),
		slog.Int("records", table.Len()),
		slog.Duration("took", time.Since(start)))

	return table, report, nil
}
