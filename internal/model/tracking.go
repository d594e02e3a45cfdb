package model

import "time"

// LoadReport summarises one run of the loading pipeline
type LoadReport struct {
	RunID          string                   `json:"run_id"`
	StartTime      time.Time                `json:"start_time"`
	EndTime        time.Time                `json:"end_time"`
	Duration       time.Duration            `json:"duration"`
	Status         string                   `json:"status"`
	RowsIngested   int64                    `json:"rows_ingested"`
	RowsValid      int64                    `json:"rows_valid"`
	RowsInvalid    int64                    `json:"rows_invalid"`
	RowsDropped    int64                    `json:"rows_dropped"`
	Records        int64                    `json:"records"`
	StageMetrics   map[string]StageMetrics  `json:"stage_metrics"`
	SourceMetrics  map[string]SourceMetrics `json:"source_metrics"`
	Errors         []ErrorDetail            `json:"errors"`
	ErrorsOverflow int64                    `json:"errors_overflow"`
}

// StageMetrics represents metrics for a specific pipeline stage
type StageMetrics struct {
	StageName        string        `json:"stage_name"`
	StartTime        time.Time     `json:"start_time"`
	EndTime          time.Time     `json:"end_time"`
	Duration         time.Duration `json:"duration"`
	RecordsProcessed int64         `json:"records_processed"`
	WorkerCount      int           `json:"worker_count"`
	ErrorCount       int64         `json:"error_count"`
	Status           string        `json:"status"` // running, completed, failed
}

// SourceMetrics represents metrics for a specific data source
type SourceMetrics struct {
	SourceURL     string        `json:"source_url"`
	SourceType    string        `json:"source_type"`
	RowsIngested  int64         `json:"rows_ingested"`
	IngestionTime time.Duration `json:"ingestion_time"`
	Attempts      int           `json:"attempts"`
	ErrorCount    int64         `json:"error_count"`
	LastError     string        `json:"last_error,omitempty"`
}

// ErrorDetail represents a detailed error with context
type ErrorDetail struct {
	Timestamp time.Time `json:"timestamp"`
	Stage     string    `json:"stage"`
	SourceURL string    `json:"source_url,omitempty"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"` // low, medium, high
}
