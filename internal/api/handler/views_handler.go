// Package handler implements the HTTP endpoints of the dashboard API.
package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/api/apierrors"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/dashboard"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/logging"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
	chart "github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/render"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/store"
)

// ViewObserver receives one observation per view request
type ViewObserver interface {
	ObserveView(view, outcome string, took time.Duration)
}

// View request outcomes
const (
	OutcomeOK          = "ok"
	OutcomePlaceholder = "placeholder"
	OutcomeEmpty       = "empty"
	OutcomeError       = "error"
)

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status   string    `json:"status"`
	Records  int       `json:"records"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	// Import is the SQLite import the table was read from, if any.
	Import *store.Import `json:"import,omitempty"`
}

// ViewsHandler serves the dashboard views over one emissions table
type ViewsHandler struct {
	table    *dashboard.Table
	source   string
	loadedAt time.Time
	imp      *store.Import
	observer ViewObserver
	logger   *slog.Logger
}

// NewViewsHandler creates a handler. source names where the table came from
// and is reported by the health endpoint.
func NewViewsHandler(table *dashboard.Table, source string, observer ViewObserver, logger *slog.Logger) *ViewsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewsHandler{
		table:    table,
		source:   source,
		loadedAt: time.Now().UTC(),
		observer: observer,
		logger:   logger,
	}
}

// WithImport records the SQLite import backing the table for /health.
func (h *ViewsHandler) WithImport(imp *store.Import) *ViewsHandler {
	h.imp = imp
	return h
}

// TimeSeries returns one emissions series per selected country
// @Summary Emissions over time
// @Description Line-chart data for the selected countries within the selected year range. Without countries or a complete year range the response is a placeholder.
// @Tags views
// @Produce json
// @Param country query []string false "Country names" collectionFormat(multi)
// @Param start query int false "First year (inclusive)"
// @Param end query int false "Last year (inclusive)"
// @Success 200 {object} model.TimeSeriesView
// @Failure 400 {object} apierrors.APIError
// @Router /views/time-series [get]
func (h *ViewsHandler) TimeSeries(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, model.ViewTimeSeries, func(sel model.Selection) (interface{}, string) {
		v := dashboard.TimeSeries(h.table, sel)
		return v, outcome(v.Placeholder, len(v.Series))
	})
}

// TopBar returns the five countries with the highest total emissions
// @Summary Top 5 countries bar chart
// @Description Total emissions per country in the selected regions, top five descending, with the y-axis bound.
// @Tags views
// @Produce json
// @Param region query []string false "Region names" collectionFormat(multi)
// @Success 200 {object} model.BarView
// @Failure 400 {object} apierrors.APIError
// @Router /views/top-bar [get]
func (h *ViewsHandler) TopBar(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, model.ViewTopBar, func(sel model.Selection) (interface{}, string) {
		v := dashboard.TopBar(h.table, sel)
		return v, outcome(v.Placeholder, len(v.Bars))
	})
}

// TopPie returns the top five countries plus an Others slice
// @Summary Top 5 countries pie chart
// @Description Emission shares of the top five countries in the selected regions; the rest is folded into "Others".
// @Tags views
// @Produce json
// @Param region query []string false "Region names" collectionFormat(multi)
// @Success 200 {object} model.PieView
// @Failure 400 {object} apierrors.APIError
// @Router /views/top-pie [get]
func (h *ViewsHandler) TopPie(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, model.ViewTopPie, func(sel model.Selection) (interface{}, string) {
		v := dashboard.TopPie(h.table, sel)
		return v, outcome(v.Placeholder, len(v.Slices))
	})
}

// Choropleth returns per-country statistics for the map
// @Summary Choropleth map data
// @Description Total, mean, standard deviation, max and min per country. scope=ALL ignores the country selection.
// @Tags views
// @Produce json
// @Param country query []string false "Country names" collectionFormat(multi)
// @Param start query int false "First year (inclusive)"
// @Param end query int false "Last year (inclusive)"
// @Param scope query []string false "Scope tokens, ALL selects every country" collectionFormat(multi)
// @Success 200 {object} model.ChoroplethView
// @Failure 400 {object} apierrors.APIError
// @Router /views/choropleth [get]
func (h *ViewsHandler) Choropleth(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, model.ViewChoropleth, func(sel model.Selection) (interface{}, string) {
		v := dashboard.Choropleth(h.table, sel)
		return v, outcome(v.Placeholder, len(v.Rows))
	})
}

// TimeSeriesPNG renders the time-series view
// @Summary Emissions over time chart
// @Tags charts
// @Produce png
// @Param country query []string false "Country names" collectionFormat(multi)
// @Param start query int false "First year (inclusive)"
// @Param end query int false "Last year (inclusive)"
// @Success 200 {file} binary
// @Failure 400 {object} apierrors.APIError
// @Router /views/time-series.png [get]
func (h *ViewsHandler) TimeSeriesPNG(w http.ResponseWriter, r *http.Request) {
	h.serveChart(w, r, model.ViewTimeSeries, func(sel model.Selection, buf *bytes.Buffer) (string, error) {
		v := dashboard.TimeSeries(h.table, sel)
		return outcome(v.Placeholder, len(v.Series)), chart.TimeSeriesPNG(buf, v)
	})
}

// TopBarPNG renders the top-5 bar chart
// @Summary Top 5 countries bar chart image
// @Tags charts
// @Produce png
// @Param region query []string false "Region names" collectionFormat(multi)
// @Success 200 {file} binary
// @Failure 400 {object} apierrors.APIError
// @Router /views/top-bar.png [get]
func (h *ViewsHandler) TopBarPNG(w http.ResponseWriter, r *http.Request) {
	h.serveChart(w, r, model.ViewTopBar, func(sel model.Selection, buf *bytes.Buffer) (string, error) {
		v := dashboard.TopBar(h.table, sel)
		return outcome(v.Placeholder, len(v.Bars)), chart.BarPNG(buf, v)
	})
}

// Options lists the values the dashboard controls accept
// @Summary Control options
// @Description Sorted countries and regions, and the year bounds of the table.
// @Tags views
// @Produce json
// @Success 200 {object} model.Options
// @Failure 503 {object} apierrors.APIError
// @Router /options [get]
func (h *ViewsHandler) Options(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	render.JSON(w, r, h.table.Options())
}

// Health reports liveness and the table size
func (h *ViewsHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	render.JSON(w, r, HealthResponse{
		Status:   "ok",
		Records:  h.table.Len(),
		Source:   h.source,
		LoadedAt: h.loadedAt,
		Import:   h.imp,
	})
}

func (h *ViewsHandler) serveView(w http.ResponseWriter, r *http.Request, view string, eval func(model.Selection) (interface{}, string)) {
	start := time.Now()
	if !h.ready(w, r) {
		h.observe(view, OutcomeError, start)
		return
	}
	sel, apiErr := parseSelection(r.URL.Query())
	if apiErr != nil {
		h.reject(w, r, view, apiErr, start)
		return
	}

	result, out := eval(sel)
	render.JSON(w, r, result)
	h.observe(view, out, start)
}

func (h *ViewsHandler) serveChart(w http.ResponseWriter, r *http.Request, view string, draw func(model.Selection, *bytes.Buffer) (string, error)) {
	start := time.Now()
	if !h.ready(w, r) {
		h.observe(view, OutcomeError, start)
		return
	}
	sel, apiErr := parseSelection(r.URL.Query())
	if apiErr != nil {
		h.reject(w, r, view, apiErr, start)
		return
	}

	var buf bytes.Buffer
	out, err := draw(sel, &buf)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "chart rendering failed",
			slog.String("view", view),
			slog.String("error", err.Error()))
		apierrors.Write(w, r, apierrors.ErrInternalServer, logging.RequestID(r.Context()))
		h.observe(view, OutcomeError, start)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write chart", slog.String("error", err.Error()))
	}
	h.observe(view, out, start)
}

func (h *ViewsHandler) ready(w http.ResponseWriter, r *http.Request) bool {
	if h.table != nil {
		return true
	}
	apierrors.Write(w, r, apierrors.ErrServiceUnavailable, logging.RequestID(r.Context()))
	return false
}

func (h *ViewsHandler) reject(w http.ResponseWriter, r *http.Request, view string, apiErr *apierrors.APIError, start time.Time) {
	h.logger.InfoContext(r.Context(), "rejected view request",
		slog.String("view", view),
		slog.Any("details", apiErr.Details))
	apierrors.Write(w, r, apiErr, logging.RequestID(r.Context()))
	h.observe(view, OutcomeError, start)
}

func (h *ViewsHandler) observe(view, out string, start time.Time) {
	if h.observer != nil {
		h.observer.ObserveView(view, out, time.Since(start))
	}
}

func outcome(placeholder bool, n int) string {
	switch {
	case placeholder:
		return OutcomePlaceholder
	case n == 0:
		return OutcomeEmpty
	default:
		return OutcomeOK
	}
}
