package pipeline

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
)

// maxErrorDetails caps how many errors a report keeps verbatim
const maxErrorDetails = 100

// Stage names
const (
	StageIngestion      = "ingestion"
	StageValidation     = "validation"
	StageTransformation = "transformation"
	StageMelt           = "melt"
)

// Tracker collects metrics for one pipeline run
type Tracker struct {
	mu     sync.Mutex
	report model.LoadReport

	ingested atomic.Int64
	valid    atomic.Int64
	invalid  atomic.Int64
	dropped  atomic.Int64
}

// NewTracker creates a tracker for the given run
func NewTracker(runID string, spec model.LoadSpec) *Tracker {
	t := &Tracker{
		report: model.LoadReport{
			RunID:         runID,
			StartTime:     time.Now(),
			Status:        "running",
			StageMetrics:  make(map[string]model.StageMetrics),
			SourceMetrics: make(map[string]model.SourceMetrics),
			Errors:        make([]model.ErrorDetail, 0),
		},
	}
	for _, src := range spec.Sources {
		t.report.SourceMetrics[src.URL] = model.SourceMetrics{SourceURL: src.URL, SourceType: src.Type}
	}
	return t
}

// StartStage marks the start of a stage
func (t *Tracker) StartStage(stage string, workerCount int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.report.StageMetrics[stage] = model.StageMetrics{
		StageName:   stage,
		StartTime:   time.Now(),
		WorkerCount: workerCount,
		Status:      "running",
	}
}

// EndStage marks the end of a stage
func (t *Tracker) EndStage(stage string, recordsProcessed int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sm := t.report.StageMetrics[stage]
	sm.EndTime = time.Now()
	sm.Duration = sm.EndTime.Sub(sm.StartTime)
	sm.RecordsProcessed = recordsProcessed
	sm.Status = "completed"
	t.report.StageMetrics[stage] = sm
}

// RecordError stores an error against a stage
func (t *Tracker) RecordError(stage, sourceURL string, err error) {
	if err == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	sm := t.report.StageMetrics[stage]
	sm.ErrorCount++
	t.report.StageMetrics[stage] = sm

	if sourceURL != "" {
		src := t.report.SourceMetrics[sourceURL]
		src.ErrorCount++
		src.LastError = err.Error()
		t.report.SourceMetrics[sourceURL] = src
	}

	if len(t.report.Errors) >= maxErrorDetails {
		t.report.ErrorsOverflow++
		return
	}
	t.report.Errors = append(t.report.Errors, model.ErrorDetail{
		Timestamp: time.Now(),
		Stage:     stage,
		SourceURL: sourceURL,
		Message:   err.Error(),
		Severity:  determineSeverity(stage),
	})
}

// UpdateSource records the ingestion outcome of one source
func (t *Tracker) UpdateSource(sourceURL string, rows int64, took time.Duration, attempts int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	src := t.report.SourceMetrics[sourceURL]
	src.SourceURL = sourceURL
	src.RowsIngested = rows
	src.IngestionTime = took
	src.Attempts = attempts
	t.report.SourceMetrics[sourceURL] = src
}

// Complete finalises the report with the number of table records
func (t *Tracker) Complete(records int64) {
	t.finish("completed", records)
}

// Fail finalises the report as failed
func (t *Tracker) Fail() {
	t.finish("failed", 0)
}

func (t *Tracker) finish(status string, records int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.report.EndTime = time.Now()
	t.report.Duration = t.report.EndTime.Sub(t.report.StartTime)
	t.report.Status = status
	t.report.Records = records
}

// Report returns a snapshot of the collected metrics
func (t *Tracker) Report() model.LoadReport {
	t.mu.Lock()
	defer t.mu.Unlock()

	r := t.report
	r.RowsIngested = t.ingested.Load()
	r.RowsValid = t.valid.Load()
	r.RowsInvalid = t.invalid.Load()
	r.RowsDropped = t.dropped.Load()

	r.StageMetrics = make(map[string]model.StageMetrics, len(t.report.StageMetrics))
	for k, v := range t.report.StageMetrics {
		r.StageMetrics[k] = v
	}
	r.SourceMetrics = make(map[string]model.SourceMetrics, len(t.report.SourceMetrics))
	for k, v := range t.report.SourceMetrics {
		r.SourceMetrics[k] = v
	}
	r.Errors = append([]model.ErrorDetail(nil), t.report.Errors...)
	return r
}

// determineSeverity rates an error by the stage it happened in
func determineSeverity(stage string) string {
	switch stage {
	case StageIngestion:
		return "high"
	case StageValidation, StageMelt:
		return "low"
	default:
		return "medium"
	}
}
