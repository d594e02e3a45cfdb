package model

// Column names of the long-format emissions table.
const (
	ColumnCountry   = "Country Name"
	ColumnCode      = "Country Code"
	ColumnRegion    = "Region"
	ColumnYear      = "Year"
	ColumnEmissions = "Emissions"
)

// ScopeAll selects every country in the year range, regardless of the country selection.
const ScopeAll = "ALL"

// EmissionsRecord is one row of the long-format emissions table.
// Emissions are in MT per capita.
type EmissionsRecord struct {
	Country   string  `json:"country" validate:"required"`
	Region    string  `json:"region" validate:"required"`
	Year      int     `json:"year" validate:"gte=1800,lte=2200"`
	Emissions float64 `json:"emissions" validate:"gte=0"`
}

// YearRange is an inclusive [Start, End] range of years.
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether year falls inside the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// Selection holds the current dashboard control values.
// A nil Years means the range has not been chosen yet.
type Selection struct {
	Countries []string   `json:"countries"`
	Years     *YearRange `json:"years,omitempty"`
	Regions   []string   `json:"regions"`
	Scope     []string   `json:"scope"`
}

// HasYears reports whether a usable (set, non-degenerate) year range was selected.
func (s Selection) HasYears() bool {
	return s.Years != nil && s.Years.Start <= s.Years.End
}

// ScopeAll reports whether the "ALL" scope token is set.
func (s Selection) ScopeAll() bool {
	for _, token := range s.Scope {
		if token == ScopeAll {
			return true
		}
	}
	return false
}
