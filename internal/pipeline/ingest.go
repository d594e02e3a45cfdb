package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/pkg/utils"
)

// SourceKey is added to every ingested row to remember where it came from
const SourceKey = "SourceURL"

// ErrUnknownSourceType is returned for a source type other than csv or json
var ErrUnknownSourceType = errors.New("unknown source type")

// httpClient fetches remote sources
var httpClient = &http.Client{Timeout: 30 * time.Second}

// ingester carries what every ingestion goroutine needs
type ingester struct {
	policy  model.RetryPolicy
	tracker *Tracker
	logger  *slog.Logger
}

// StartIngestion ingests all sources concurrently. The first source that
// cannot be read at all cancels the others.
func (in *ingester) StartIngestion(ctx context.Context, sources []model.Source, out chan<- model.GenericRecord) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		src := src
		g.Go(func() error {
			return in.IngestSource(ctx, src, out)
		})
	}
	return g.Wait()
}

// IngestSource streams the rows of one source into out
func (in *ingester) IngestSource(ctx context.Context, source model.Source, out chan<- model.GenericRecord) error {
	start := time.Now()
	in.logger.InfoContext(ctx, "starting ingestion",
		slog.String("source", source.URL),
		slog.String("type", source.Type))

	body, attempts, err := in.open(ctx, source.URL)
	if err != nil {
		in.tracker.RecordError(StageIngestion, source.URL, err)
		in.tracker.UpdateSource(source.URL, 0, time.Since(start), attempts)
		return fmt.Errorf("source %s: %w", source.URL, err)
	}
	defer body.Close()

	var rows int64
	switch strings.ToLower(source.Type) {
	case "csv", "":
		rows, err = in.ingestCSV(ctx, source.URL, body, out)
	case "json":
		rows, err = in.ingestJSON(ctx, source.URL, body, out)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownSourceType, source.Type)
	}

	in.tracker.UpdateSource(source.URL, rows, time.Since(start), attempts)
	if err != nil {
		in.tracker.RecordError(StageIngestion, source.URL, err)
		return fmt.Errorf("source %s: %w", source.URL, err)
	}

	in.logger.InfoContext(ctx, "finished ingestion",
		slog.String("source", source.URL),
		slog.Int64("rows", rows),
		slog.Duration("took", time.Since(start)))
	return nil
}

// open returns a reader over a local file or a remote URL. Remote sources are
// fetched whole, with retries.
func (in *ingester) open(ctx context.Context, pathOrURL string) (io.ReadCloser, int, error) {
	if !strings.HasPrefix(pathOrURL, "http://") && !strings.HasPrefix(pathOrURL, "https://") {
		file, err := os.Open(pathOrURL)
		if err != nil {
			return nil, 1, fmt.Errorf("failed to open file: %w", err)
		}
		return file, 1, nil
	}

	var data []byte
	attempts, err := withRetry(ctx, in.policy, in.logger, "fetch "+pathOrURL, func() error {
		var ferr error
		data, ferr = fetch(ctx, pathOrURL)
		return ferr
	})
	if err != nil {
		return nil, attempts, err
	}
	return io.NopCloser(bytes.NewReader(data)), attempts, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, permanent(fmt.Errorf("failed to build request: %w", err))
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, permanent(err)
		}
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return data, nil
}

// ------------------- CSV Ingestion -------------------
func (in *ingester) ingestCSV(ctx context.Context, sourceURL string, r io.Reader, out chan<- model.GenericRecord) (int64, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range headers {
		h = strings.TrimPrefix(h, "\ufeff")
		headers[i] = strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
	}

	var rows int64
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return rows, fmt.Errorf("failed to read CSV: %w", err)
			}
			in.tracker.RecordError(StageIngestion, sourceURL, fmt.Errorf("CSV read error: %w", err))
			continue
		}

		rec := make(model.GenericRecord, len(headers)+1)
		for i, h := range headers {
			if i < len(record) {
				rec[h] = utils.ParseValue(record[i])
			}
		}
		rec[SourceKey] = sourceURL

		select {
		case <-ctx.Done():
			return rows, ctx.Err()
		case out <- rec:
			rows++
			in.tracker.ingested.Add(1)
		}
	}
}

// ------------------- JSON Ingestion -------------------
func (in *ingester) ingestJSON(ctx context.Context, sourceURL string, r io.Reader, out chan<- model.GenericRecord) (int64, error) {
	var raw interface{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return 0, fmt.Errorf("failed to decode JSON: %w", err)
	}

	var items []interface{}
	switch data := raw.(type) {
	case []interface{}:
		items = data
	case map[string]interface{}:
		items = []interface{}{data}
	default:
		return 0, fmt.Errorf("unexpected JSON structure")
	}

	var rows int64
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			in.tracker.RecordError(StageIngestion, sourceURL, fmt.Errorf("skipping non-object JSON item"))
			continue
		}
		rec := model.GenericRecord(m)
		rec[SourceKey] = sourceURL

		select {
		case <-ctx.Done():
			return rows, ctx.Err()
		case out <- rec:
			rows++
			in.tracker.ingested.Add(1)
		}
	}
	return rows, nil
}
