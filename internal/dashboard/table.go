package dashboard

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
)

var (
	// ErrDuplicateRow is returned when a (country, year) pair appears twice.
	ErrDuplicateRow = errors.New("duplicate country/year row")
	// ErrRegionConflict is returned when a country is listed under two regions.
	ErrRegionConflict = errors.New("country assigned to more than one region")
	// ErrNonFinite is returned for a NaN or infinite emissions value.
	ErrNonFinite = errors.New("non-finite emissions value")
)

// Table is the long-format emissions table shared by all views.
// It is never mutated after NewTable returns, so concurrent readers are safe.
type Table struct {
	records []model.EmissionsRecord
	regions map[string]string
	minYear int
	maxYear int
}

type rowKey struct {
	country string
	year    int
}

// NewTable copies records into a Table, checking that there is one row per
// (country, year), that each country belongs to a single region and that
// every emissions value is finite.
func NewTable(records []model.EmissionsRecord) (*Table, error) {
	t := &Table{
		records: make([]model.EmissionsRecord, len(records)),
		regions: make(map[string]string),
	}
	copy(t.records, records)

	seen := make(map[rowKey]struct{}, len(records))
	for i, rec := range t.records {
		if math.IsNaN(rec.Emissions) || math.IsInf(rec.Emissions, 0) {
			return nil, fmt.Errorf("%w: %s %d", ErrNonFinite, rec.Country, rec.Year)
		}
		key := rowKey{country: rec.Country, year: rec.Year}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %s %d", ErrDuplicateRow, rec.Country, rec.Year)
		}
		seen[key] = struct{}{}

		if region, ok := t.regions[rec.Country]; ok && region != rec.Region {
			return nil, fmt.Errorf("%w: %s in %q and %q", ErrRegionConflict, rec.Country, region, rec.Region)
		}
		t.regions[rec.Country] = rec.Region

		if i == 0 || rec.Year < t.minYear {
			t.minYear = rec.Year
		}
		if i == 0 || rec.Year > t.maxYear {
			t.maxYear = rec.Year
		}
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.records)
}

// Records returns a copy of the rows in table order.
func (t *Table) Records() []model.EmissionsRecord {
	out := make([]model.EmissionsRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Countries returns the distinct country names, sorted.
func (t *Table) Countries() []string {
	out := make([]string, 0, len(t.regions))
	for country := range t.regions {
		out = append(out, country)
	}
	sort.Strings(out)
	return out
}

// Regions returns the distinct region names, sorted.
func (t *Table) Regions() []string {
	set := make(map[string]struct{})
	for _, region := range t.regions {
		set[region] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for region := range set {
		out = append(out, region)
	}
	sort.Strings(out)
	return out
}

// YearBounds returns the smallest and largest year in the table.
// ok is false for an empty table.
func (t *Table) YearBounds() (min, max int, ok bool) {
	if len(t.records) == 0 {
		return 0, 0, false
	}
	return t.minYear, t.maxYear, true
}

// Options returns the values offered by the dashboard controls.
func (t *Table) Options() model.Options {
	opts := model.Options{
		Countries: t.Countries(),
		Regions:   t.Regions(),
	}
	if lo, hi, ok := t.YearBounds(); ok {
		opts.Years = &model.YearRange{Start: lo, End: hi}
	}
	return opts
}

// filter returns the rows accepted by keep, in table order.
func (t *Table) filter(keep func(model.EmissionsRecord) bool) []model.EmissionsRecord {
	var out []model.EmissionsRecord
	for _, rec := range t.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func stringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
