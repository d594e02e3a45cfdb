package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/render"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/pkg/utils"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
	FormatPNG  = "png"
)

// ErrUnknownFormat is returned for an export format that is not supported
var ErrUnknownFormat = errors.New("unknown export format")

// ExportResult represents the outcome of writing one file
type ExportResult struct {
	Format      string    `json:"format"`
	Path        string    `json:"path"`
	RecordCount int       `json:"record_count"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	ExportedAt  time.Time `json:"exported_at"`
}

// ExportManager writes evaluated views into one snapshot directory
type ExportManager struct {
	SnapshotID string
	Formats    []string
	outputs    *utils.OutputManager
	logger     *slog.Logger
}

// NewExportManager prepares an export into a fresh snapshot under spec.Dir
func NewExportManager(spec model.ExportSpec, logger *slog.Logger) *ExportManager {
	if logger == nil {
		logger = slog.Default()
	}
	formats := spec.Formats
	if len(formats) == 0 {
		formats = []string{FormatCSV}
	}
	return &ExportManager{
		SnapshotID: uuid.New().String(),
		Formats:    formats,
		outputs:    utils.NewOutputManager(spec.Dir),
		logger:     logger,
	}
}

// Export writes views in every configured format. A failing format is
// reported in its result and does not stop the others.
func (em *ExportManager) Export(ctx context.Context, views model.ViewSet) ([]ExportResult, error) {
	if err := em.outputs.EnsureOutputDirExists(); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	tables := viewTables(views)
	var results []ExportResult
	for _, format := range em.Formats {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		switch strings.ToLower(format) {
		case FormatCSV:
			for _, tbl := range tables {
				results = append(results, em.write(FormatCSV, tbl.name+".csv", len(tbl.rows), func(f *os.File) error {
					return writeCSV(f, tbl)
				}))
			}
		case FormatJSON:
			results = append(results, em.write(FormatJSON, "views.json", countRows(tables), func(f *os.File) error {
				enc := json.NewEncoder(f)
				enc.SetIndent("", "  ")
				return enc.Encode(views)
			}))
		case FormatXLSX:
			results = append(results, em.exportXLSX(tables))
		case FormatPNG:
			results = append(results,
				em.write(FormatPNG, model.ViewTimeSeries+".png", len(views.TimeSeries.Series), func(f *os.File) error {
					return render.TimeSeriesPNG(f, views.TimeSeries)
				}),
				em.write(FormatPNG, model.ViewTopBar+".png", len(views.TopBar.Bars), func(f *os.File) error {
					return render.BarPNG(f, views.TopBar)
				}),
			)
		default:
			err := fmt.Errorf("%w: %s", ErrUnknownFormat, format)
			results = append(results, ExportResult{Format: format, Error: err.Error(), ExportedAt: time.Now()})
			em.logger.WarnContext(ctx, "skipping export format", slog.String("error", err.Error()))
		}
	}

	em.logger.InfoContext(ctx, "export finished",
		slog.String("snapshot", em.SnapshotID),
		slog.Int("files", len(results)))
	return results, nil
}

// write creates fileName in the snapshot directory and fills it with fill
func (em *ExportManager) write(format, fileName string, records int, fill func(*os.File) error) ExportResult {
	result := ExportResult{Format: format, RecordCount: records, ExportedAt: time.Now()}

	path, err := em.outputs.GetOutputFilePath(em.SnapshotID, fileName)
	if err == nil {
		result.Path = path
		err = writeFile(path, fill)
	}
	if err != nil {
		result.Error = err.Error()
		em.logger.Error("export failed", slog.String("path", result.Path), slog.String("error", err.Error()))
		return result
	}

	result.Success = true
	em.logger.Debug("exported file", slog.String("path", path), slog.Int("records", records))
	return result
}

func writeFile(path string, fill func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := fill(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// exportXLSX writes one sheet per view into a single workbook
func (em *ExportManager) exportXLSX(tables []viewTable) ExportResult {
	result := ExportResult{Format: FormatXLSX, RecordCount: countRows(tables), ExportedAt: time.Now()}

	path, err := em.outputs.GetOutputFilePath(em.SnapshotID, "views.xlsx")
	if err == nil {
		result.Path = path
		err = writeWorkbook(path, tables)
	}
	if err != nil {
		result.Error = err.Error()
		em.logger.Error("export failed", slog.String("path", result.Path), slog.String("error", err.Error()))
		return result
	}
	result.Success = true
	return result
}

func writeWorkbook(path string, tables []viewTable) error {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	for i, tbl := range tables {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, tbl.name); err != nil {
				return fmt.Errorf("failed to name sheet: %w", err)
			}
		} else if _, err := f.NewSheet(tbl.name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", tbl.name, err)
		}

		header := make([]interface{}, len(tbl.header))
		for j, h := range tbl.header {
			header[j] = h
		}
		if err := f.SetSheetRow(tbl.name, "A1", &header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		for r, row := range tbl.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = v
			}
			if err := f.SetSheetRow(tbl.name, cell, &values); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}
	return f.SaveAs(path)
}

func writeCSV(f *os.File, tbl viewTable) error {
	w := csv.NewWriter(f)
	if err := w.Write(tbl.header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range tbl.rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		if err := w.Write(cells); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// viewTable is a view flattened into rows
type viewTable struct {
	name   string
	header []string
	rows   [][]interface{}
}

func viewTables(vs model.ViewSet) []viewTable {
	ts := viewTable{name: model.ViewTimeSeries, header: []string{model.ColumnCountry, model.ColumnYear, model.ColumnEmissions}}
	for _, s := range vs.TimeSeries.Series {
		for _, p := range s.Points {
			ts.rows = append(ts.rows, []interface{}{s.Country, p.Year, p.Emissions})
		}
	}

	bar := viewTable{name: model.ViewTopBar, header: []string{model.ColumnCountry, model.ColumnEmissions}}
	for _, b := range vs.TopBar.Bars {
		bar.rows = append(bar.rows, []interface{}{b.Country, b.Emissions})
	}

	pie := viewTable{name: model.ViewTopPie, header: []string{"Label", model.ColumnEmissions, "Percent"}}
	for _, s := range vs.TopPie.Slices {
		pie.rows = append(pie.rows, []interface{}{s.Label, s.Emissions, s.Percent})
	}

	choro := viewTable{name: model.ViewChoropleth, header: []string{model.ColumnCountry, "Total", "Mean", "StdDev", "Max", "Min", "Count"}}
	for _, r := range vs.Choropleth.Rows {
		var std interface{} = ""
		if r.StdDev != nil {
			std = *r.StdDev
		}
		choro.rows = append(choro.rows, []interface{}{r.Country, r.Total, r.Mean, std, r.Max, r.Min, r.Count})
	}

	return []viewTable{ts, bar, pie, choro}
}

func countRows(tables []viewTable) int {
	n := 0
	for _, t := range tables {
		n += len(t.rows)
	}
	return n
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
