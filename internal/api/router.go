// Package api wires the dashboard views into an HTTP router.
package api

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/docs"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/api/apierrors"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/api/handler"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/config"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/dashboard"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/logging"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/store"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/pkg/router"
)

// Deps is everything the router needs
type Deps struct {
	Table     *dashboard.Table
	Source    string
	Import    *store.Import // set when the table was read from SQLite
	RateLimit config.RateLimitConfig
	Logger    *slog.Logger
	AccessLog *log.Logger // nil disables the coloured access log
	Metrics   *Metrics
}

// NewRouter builds the HTTP handler of the dashboard API
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Metrics == nil {
		d.Metrics = NewMetrics()
	}
	if d.Table != nil {
		d.Metrics.SetTableRecords(d.Table.Len())
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	if d.AccessLog != nil {
		r.Use(router.AccessLog(d.AccessLog))
	}
	r.Use(Recoverer(d.Logger))
	r.Use(middleware.CleanPath)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		apierrors.Write(w, req, apierrors.ErrNotFound, logging.RequestID(req.Context()))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		apierrors.Write(w, req, apierrors.ErrMethodNotAllowed, logging.RequestID(req.Context()))
	})

	views := handler.NewViewsHandler(d.Table, d.Source, d.Metrics, d.Logger).WithImport(d.Import)

	r.Get("/health", views.Health)
	r.Handle("/metrics", d.Metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
	))

	r.Route(docs.SwaggerInfo.BasePath, func(r chi.Router) {
		if d.RateLimit.Enabled {
			r.Use(NewRateLimiter(d.RateLimit.RPS, d.RateLimit.Burst, d.Logger).Handler)
		}
		r.Get("/options", views.Options)
		r.Route("/views", func(r chi.Router) {
			r.Get("/time-series", views.TimeSeries)
			r.Get("/time-series.png", views.TimeSeriesPNG)
			r.Get("/top-bar", views.TopBar)
			r.Get("/top-bar.png", views.TopBarPNG)
			r.Get("/top-pie", views.TopPie)
			r.Get("/choropleth", views.Choropleth)
		})
	})

	return r
}
