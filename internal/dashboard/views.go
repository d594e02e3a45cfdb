package dashboard

import (
	"sort"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
)

// Titles handed to the rendering layer.
const (
	TimeSeriesPrompt = "Select countries and year range to see CO2 Emissions Over Time"
	TimeSeriesTitle  = "CO2 Emissions Over Time for Selected Countries"
	TopBarPrompt     = "Choose any Region(s): <br>For CO2 Emissions Bar Chart"
	TopBarTitle      = "Top 5 Countries' Total CO2 Emissions<br>in Selected Region(s)"
	TopPiePrompt     = "Choose any Region(s): <br>For CO2 Emissions Pie Chart"
	TopPieTitle      = "CO2 Emissions of the Selected Region(s): <br>Top 5 Countries and Others"
	ChoroplethPrompt = "Select countries and year range to see the map"
	ChoroplethTitle  = "CO2 Emissions by Country"
)

const (
	// TopCountries is how many countries the bar and pie views rank.
	TopCountries = 5
	// AxisHeadroom scales the largest bar to the y-axis upper bound.
	AxisHeadroom = 1.2
)

// TimeSeries returns one series per selected country, restricted to the
// selected year range. Series follow the order countries first appear in the
// table; points are ordered by year.
func TimeSeries(t *Table, sel model.Selection) model.TimeSeriesView {
	if len(sel.Countries) == 0 || !sel.HasYears() {
		return model.TimeSeriesView{Title: TimeSeriesPrompt, Placeholder: true}
	}

	countries := stringSet(sel.Countries)
	years := *sel.Years
	rows := t.filter(func(rec model.EmissionsRecord) bool {
		_, ok := countries[rec.Country]
		return ok && years.Contains(rec.Year)
	})

	index := make(map[string]int)
	series := []model.Series{}
	for _, rec := range rows {
		i, ok := index[rec.Country]
		if !ok {
			i = len(series)
			index[rec.Country] = i
			series = append(series, model.Series{Country: rec.Country})
		}
		series[i].Points = append(series[i].Points, model.Point{Year: rec.Year, Emissions: rec.Emissions})
	}
	for i := range series {
		points := series[i].Points
		sort.SliceStable(points, func(a, b int) bool { return points[a].Year < points[b].Year })
	}

	return model.TimeSeriesView{Title: TimeSeriesTitle, Series: series}
}

// TopBar ranks the countries of the selected regions by total emissions and
// keeps the top five, with a y-axis bound 20% above the tallest bar.
func TopBar(t *Table, sel model.Selection) model.BarView {
	if len(sel.Regions) == 0 {
		return model.BarView{Title: TopBarPrompt, Placeholder: true}
	}

	head, _ := topN(sumByCountry(t.filter(inRegions(sel.Regions))), TopCountries)
	bars := make([]model.CountryTotal, len(head))
	copy(bars, head)

	view := model.BarView{Title: TopBarTitle, Bars: bars}
	if len(bars) > 0 {
		view.AxisMax = bars[0].Emissions * AxisHeadroom
	}
	return view
}

// TopPie ranks the countries of the selected regions by total emissions,
// keeps the top five and folds the rest into a single "Others" slice.
func TopPie(t *Table, sel model.Selection) model.PieView {
	if len(sel.Regions) == 0 {
		return model.PieView{Title: TopPiePrompt, Placeholder: true}
	}

	head, tail := topN(sumByCountry(t.filter(inRegions(sel.Regions))), TopCountries)

	slices := make([]model.Slice, 0, len(head)+1)
	var grand float64
	for _, ct := range head {
		slices = append(slices, model.Slice{Label: ct.Country, Emissions: ct.Emissions})
		grand += ct.Emissions
	}
	if len(tail) > 0 {
		var others float64
		for _, ct := range tail {
			others += ct.Emissions
		}
		slices = append(slices, model.Slice{Label: model.OthersLabel, Emissions: others})
		grand += others
	}
	if grand != 0 {
		for i := range slices {
			slices[i].Percent = slices[i].Emissions / grand * 100
		}
	}

	return model.PieView{Title: TopPieTitle, Slices: slices}
}

// Choropleth computes per-country statistics over the selected year range.
// With the "ALL" scope the country selection is ignored.
func Choropleth(t *Table, sel model.Selection) model.ChoroplethView {
	var keep func(model.EmissionsRecord) bool
	switch {
	case sel.ScopeAll():
		if !sel.HasYears() {
			return model.ChoroplethView{Title: ChoroplethPrompt, Placeholder: true}
		}
		years := *sel.Years
		keep = func(rec model.EmissionsRecord) bool { return years.Contains(rec.Year) }
	case len(sel.Countries) == 0 || !sel.HasYears():
		return model.ChoroplethView{Title: ChoroplethPrompt, Placeholder: true}
	default:
		countries := stringSet(sel.Countries)
		years := *sel.Years
		keep = func(rec model.EmissionsRecord) bool {
			_, ok := countries[rec.Country]
			return ok && years.Contains(rec.Year)
		}
	}

	groups := groupByCountry(t.filter(keep))
	rows := make([]model.CountryStats, len(groups))
	for i, g := range groups {
		rows[i] = summarize(g)
	}
	return model.ChoroplethView{Title: ChoroplethTitle, Rows: rows}
}

func inRegions(regions []string) func(model.EmissionsRecord) bool {
	set := stringSet(regions)
	return func(rec model.EmissionsRecord) bool {
		_, ok := set[rec.Region]
		return ok
	}
}

// Evaluate runs all four views against one selection.
func Evaluate(t *Table, sel model.Selection) model.ViewSet {
	return model.ViewSet{
		Selection:  sel,
		TimeSeries: TimeSeries(t, sel),
		TopBar:     TopBar(t, sel),
		TopPie:     TopPie(t, sel),
		Choropleth: Choropleth(t, sel),
	}
}
