package pipeline

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/dashboard"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
)

const wideCSV = "\ufeffCountry Name,Country Code,Region,1990,1991\n" +
	"Canada,CAN,North America,15.5,15.2\n" +
	"World,WLD,,4.1,4.2\n" +
	"Chad,TCD,Sub-Saharan Africa,0.1,\n"

const longJSON = `[
  {"Country Name": "Japan", "Region": "East Asia & Pacific", "Year": 2000, "Emissions": 9.6},
  {"Country Name": "Japan", "Region": "East Asia & Pacific", "Year": 2001, "Emissions": 9.5}
]`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fastRetry() model.RetryPolicy {
	return model.RetryPolicy{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffMultiplier: 2}
}

func TestLoad_WideCSV(t *testing.T) {
	path := writeTemp(t, "co2.csv", wideCSV)

	table, report, err := Load(context.Background(), model.LoadSpec{
		Sources:         []model.Source{{Type: "csv", URL: path}},
		Transformations: []string{"trimStrings", "dropAggregates"},
	}, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, []model.EmissionsRecord{
		{Country: "Canada", Region: "North America", Year: 1990, Emissions: 15.5},
		{Country: "Canada", Region: "North America", Year: 1991, Emissions: 15.2},
		{Country: "Chad", Region: "Sub-Saharan Africa", Year: 1990, Emissions: 0.1},
	}, table.Records())

	assert.Equal(t, "completed", report.Status)
	assert.Equal(t, int64(3), report.RowsIngested)
	assert.Equal(t, int64(2), report.RowsDropped, "one aggregate row and one empty cell")
	assert.Equal(t, int64(3), report.Records)
	assert.Equal(t, int64(3), report.SourceMetrics[path].RowsIngested)
	assert.Contains(t, report.StageMetrics, StageMelt)
	assert.NotEmpty(t, report.RunID)
}

func TestLoad_MultipleSources(t *testing.T) {
	csvPath := writeTemp(t, "co2.csv", wideCSV)
	jsonPath := writeTemp(t, "co2.json", longJSON)

	table, _, err := Load(context.Background(), model.LoadSpec{
		Sources: []model.Source{
			{Type: "csv", URL: csvPath},
			{Type: "json", URL: jsonPath},
		},
		Transformations: []string{"dropAggregates"},
		Workers:         model.Workers{Validation: 4, Transform: 4},
	}, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, 5, table.Len())
	assert.Equal(t, []string{"Canada", "Chad", "Japan"}, table.Countries())
	lo, hi, ok := table.YearBounds()
	assert.True(t, ok)
	assert.Equal(t, 1990, lo)
	assert.Equal(t, 2001, hi)
}

func TestLoad_ValidationRulesSkipRows(t *testing.T) {
	path := writeTemp(t, "long.csv", "Country Name,Region,Year,Emissions\n"+
		"A,R,2000,1.5\n"+
		"B,R,2000,-3\n"+
		",R,2000,2\n")

	table, report, err := Load(context.Background(), model.LoadSpec{
		Sources: []model.Source{{
			Type: "csv",
			URL:  path,
			Validation: &model.ValidationRules{
				RequiredFields: []string{model.ColumnCountry},
				NumericFields:  []string{model.ColumnEmissions},
				MinValues:      map[string]float64{model.ColumnEmissions: 0},
			},
		}},
	}, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, 1, table.Len())
	assert.Equal(t, int64(2), report.RowsInvalid)
	assert.Equal(t, int64(1), report.RowsValid)
	assert.Len(t, report.Errors, 2)
	assert.Equal(t, "low", report.Errors[0].Severity)
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()

	_, _, err := Load(ctx, model.LoadSpec{}, discardLogger())
	assert.ErrorIs(t, err, ErrNoSources)

	_, _, err = Load(ctx, model.LoadSpec{
		Sources:         []model.Source{{URL: "x.csv"}},
		Transformations: []string{"shout"},
	}, discardLogger())
	assert.ErrorIs(t, err, ErrUnknownTransformation)

	_, report, err := Load(ctx, model.LoadSpec{
		Sources: []model.Source{{URL: filepath.Join(t.TempDir(), "missing.csv")}},
	}, discardLogger())
	assert.Error(t, err)
	assert.Equal(t, "failed", report.Status)

	empty := writeTemp(t, "empty.csv", "Country Name,Region,1990\n")
	_, _, err = Load(ctx, model.LoadSpec{Sources: []model.Source{{URL: empty}}}, discardLogger())
	assert.ErrorIs(t, err, ErrNoRecords)

	xml := writeTemp(t, "data.xml", "<rows/>")
	_, _, err = Load(ctx, model.LoadSpec{Sources: []model.Source{{Type: "xml", URL: xml}}}, discardLogger())
	assert.ErrorIs(t, err, ErrUnknownSourceType)

	a := writeTemp(t, "a.json", longJSON)
	b := writeTemp(t, "b.json", longJSON)
	_, _, err = Load(ctx, model.LoadSpec{Sources: []model.Source{{Type: "json", URL: a}, {Type: "json", URL: b}}}, discardLogger())
	assert.ErrorIs(t, err, dashboard.ErrDuplicateRow)
}

func TestLoad_RemoteSourceRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, longJSON)
	}))
	defer srv.Close()

	url := srv.URL + "/co2.json"
	table, report, err := Load(context.Background(), model.LoadSpec{
		Sources: []model.Source{{Type: "json", URL: url}},
		Retry:   fastRetry(),
	}, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 2, report.SourceMetrics[url].Attempts)
}

func TestLoad_RemoteNotFoundIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, report, err := Load(context.Background(), model.LoadSpec{
		Sources: []model.Source{{Type: "json", URL: srv.URL}},
		Retry:   fastRetry(),
	}, discardLogger())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, report.SourceMetrics[srv.URL].Attempts)
	assert.Equal(t, "high", report.Errors[0].Severity)
}
