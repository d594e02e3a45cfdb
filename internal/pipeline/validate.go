package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/pkg/utils"
)

// ValidateRecords validates ingested rows according to per-source rules and
// closes out once every worker is done.
func ValidateRecords(
	ctx context.Context,
	sources []model.Source,
	in <-chan model.GenericRecord,
	out chan<- model.GenericRecord,
	tracker *Tracker,
	logger *slog.Logger,
	workerCount int,
) {
	sourceMap := make(map[string]*model.ValidationRules)
	for _, src := range sources {
		if src.Validation != nil {
			sourceMap[src.URL] = src.Validation
		}
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)

	for i := 0; i < workerCount; i++ {
		go func(workerID int) {
			defer wg.Done()
			var validCount, invalidCount int

			for rec := range in {
				sourceURL, _ := rec[SourceKey].(string)
				if err := validateRecord(rec, sourceMap[sourceURL]); err != nil {
					invalidCount++
					tracker.invalid.Add(1)
					tracker.RecordError(StageValidation, sourceURL, err)
					continue
				}

				select {
				case <-ctx.Done():
					return
				case out <- rec:
					validCount++
					tracker.valid.Add(1)
				}
			}

			logger.DebugContext(ctx, "validation worker completed",
				slog.Int("worker", workerID),
				slog.Int("valid", validCount),
				slog.Int("invalid", invalidCount))
		}(i)
	}

	// Close the output channel only AFTER all workers finish
	go func() {
		wg.Wait()
		close(out)
	}()
}

// validateRecord applies per-source validation rules to a row.
func validateRecord(rec model.GenericRecord, rules *model.ValidationRules) error {
	if rules == nil {
		// No validation rules defined → pass through
		return nil
	}

	for _, field := range rules.RequiredFields {
		val, ok := rec[field]
		if !ok || val == nil || val == "" {
			return fmt.Errorf("missing required field: %s", field)
		}
	}

	for _, field := range rules.NumericFields {
		val, ok := rec[field]
		if !ok || val == "" {
			continue
		}
		if !utils.IsNumeric(val) {
			return fmt.Errorf("field %s must be numeric, got %T", field, val)
		}
	}

	for field, min := range rules.MinValues {
		if val, ok := rec[field]; ok && utils.IsNumeric(val) {
			if utils.Numeric(val) < min {
				return fmt.Errorf("field %s below minimum: got %v, want ≥ %v", field, val, min)
			}
		}
	}

	for field, max := range rules.MaxValues {
		if val, ok := rec[field]; ok && utils.IsNumeric(val) {
			if utils.Numeric(val) > max {
				return fmt.Errorf("field %s above maximum: got %v, want ≤ %v", field, val, max)
			}
		}
	}

	return nil
}
