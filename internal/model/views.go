package model

// View names, used for routing, metrics and export file names.
const (
	ViewTimeSeries = "time-series"
	ViewTopBar     = "top-bar"
	ViewTopPie     = "top-pie"
	ViewChoropleth = "choropleth"
)

// OthersLabel names the synthetic pie slice that folds the tail of the ranking.
const OthersLabel = "Others"

// Point is one (Year, Emissions) sample of a series.
type Point struct {
	Year      int     `json:"year"`
	Emissions float64 `json:"emissions"`
}

// Series is the time series of one country.
type Series struct {
	Country string  `json:"country"`
	Points  []Point `json:"points"`
}

// TimeSeriesView feeds the multi-series line chart.
type TimeSeriesView struct {
	Title       string   `json:"title"`
	Placeholder bool     `json:"placeholder"`
	Series      []Series `json:"series"`
}

// CountryTotal is a summed emissions value for one country.
type CountryTotal struct {
	Country   string  `json:"country"`
	Emissions float64 `json:"emissions"`
}

// BarView feeds the top-5 bar chart. AxisMax leaves headroom for value labels.
type BarView struct {
	Title       string         `json:"title"`
	Placeholder bool           `json:"placeholder"`
	Bars        []CountryTotal `json:"bars"`
	AxisMax     float64        `json:"axis_max"`
}

// Slice is one pie slice: a country or the "Others" bucket.
type Slice struct {
	Label     string  `json:"label"`
	Emissions float64 `json:"emissions"`
	Percent   float64 `json:"percent"`
}

// PieView feeds the top-5-plus-others pie chart.
type PieView struct {
	Title       string  `json:"title"`
	Placeholder bool    `json:"placeholder"`
	Slices      []Slice `json:"slices"`
}

// CountryStats holds the per-country summary statistics shown on the map.
// StdDev is nil when it is undefined (a single data point).
type CountryStats struct {
	Country string   `json:"country"`
	Total   float64  `json:"total"`
	Mean    float64  `json:"mean"`
	StdDev  *float64 `json:"std_dev"`
	Max     float64  `json:"max"`
	Min     float64  `json:"min"`
	Count   int      `json:"count"`
}

// ChoroplethView feeds the choropleth map: color by Total, the rest as hover detail.
type ChoroplethView struct {
	Title       string         `json:"title"`
	Placeholder bool           `json:"placeholder"`
	Rows        []CountryStats `json:"rows"`
}

// Options lists the values the dashboard controls can take.
type Options struct {
	Countries []string   `json:"countries"`
	Regions   []string   `json:"regions"`
	Years     *YearRange `json:"years,omitempty"`
}

// ViewSet holds the four views evaluated for one selection.
type ViewSet struct {
	Selection  Selection      `json:"selection"`
	TimeSeries TimeSeriesView `json:"time_series"`
	TopBar     BarView        `json:"top_bar"`
	TopPie     PieView        `json:"top_pie"`
	Choropleth ChoroplethView `json:"choropleth"`
}
