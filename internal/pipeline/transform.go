package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
)

// ErrUnknownTransformation is returned for a transformation name that does not exist
var ErrUnknownTransformation = errors.New("unknown transformation")

// transformation rewrites a row in place; returning false drops the row
type transformation func(model.GenericRecord) bool

var transformations = map[string]transformation{
	"trimStrings":    trimStrings,
	"normalizeNames": normalizeNames,
	"removeNulls":    removeNulls,
	"dropAggregates": dropAggregates,
}

// CheckTransformations reports the first unknown transformation name
func CheckTransformations(names []string) error {
	for _, name := range names {
		if _, ok := transformations[name]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownTransformation, name)
		}
	}
	return nil
}

// TransformRecords applies transformations to validated rows and closes out
// once every worker is done.
func TransformRecords(
	ctx context.Context,
	names []string,
	in <-chan model.GenericRecord,
	out chan<- model.GenericRecord,
	tracker *Tracker,
	logger *slog.Logger,
	workerCount int,
) {
	var wg sync.WaitGroup
	wg.Add(workerCount)

	for i := 0; i < workerCount; i++ {
		go func(workerID int) {
			defer wg.Done()
			var transformed, dropped int

			for rec := range in {
				result, keep := applyTransformations(rec, names)
				if !keep {
					dropped++
					tracker.dropped.Add(1)
					continue
				}

				select {
				case <-ctx.Done():
					return
				case out <- result:
					transformed++
				}
			}

			logger.DebugContext(ctx, "transform worker completed",
				slog.Int("worker", workerID),
				slog.Int("transformed", transformed),
				slog.Int("dropped", dropped))
		}(i)
	}

	go func() {
		wg.Wait()
		close(out)
	}()
}

// applyTransformations applies the named transformations to a copy of rec
func applyTransformations(rec model.GenericRecord, names []string) (model.GenericRecord, bool) {
	result := make(model.GenericRecord, len(rec))
	for k, v := range rec {
		result[k] = v
	}

	for _, name := range names {
		if fn, ok := transformations[name]; ok && !fn(result) {
			return nil, false
		}
	}
	return result, true
}

// trimStrings trims whitespace from all string fields
func trimStrings(rec model.GenericRecord) bool {
	for key, val := range rec {
		if str, ok := val.(string); ok {
			rec[key] = strings.TrimSpace(str)
		}
	}
	return true
}

// normalizeNames title-cases the country and region names
func normalizeNames(rec model.GenericRecord) bool {
	// a Caser is stateful, one per call
	titleCaser := cases.Title(language.English)
	for _, key := range []string{model.ColumnCountry, model.ColumnRegion} {
		if str, ok := rec[key].(string); ok {
			rec[key] = titleCaser.String(strings.ToLower(str))
		}
	}
	return true
}

// removeNulls removes null and empty values from the row
func removeNulls(rec model.GenericRecord) bool {
	for key, val := range rec {
		if val == nil || val == "" {
			delete(rec, key)
		}
	}
	return true
}

// dropAggregates drops World Bank aggregate rows ("World", income groups, ...),
// which carry no region.
func dropAggregates(rec model.GenericRecord) bool {
	region, _ := rec[model.ColumnRegion].(string)
	return strings.TrimSpace(region) != ""
}
