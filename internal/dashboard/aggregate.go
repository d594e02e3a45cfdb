package dashboard

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
)

// group collects the emissions of one country in table order.
type group struct {
	country string
	values  []float64
}

// groupByCountry buckets rows by country. Groups come back sorted by country
// name so that every later stable sort breaks ties alphabetically.
func groupByCountry(rows []model.EmissionsRecord) []group {
	index := make(map[string]int)
	var groups []group
	for _, rec := range rows {
		i, ok := index[rec.Country]
		if !ok {
			i = len(groups)
			index[rec.Country] = i
			groups = append(groups, group{country: rec.Country})
		}
		groups[i].values = append(groups[i].values, rec.Emissions)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].country < groups[j].country })
	return groups
}

// sumByCountry returns per-country totals ordered by total descending,
// ties by country name ascending.
func sumByCountry(rows []model.EmissionsRecord) []model.CountryTotal {
	groups := groupByCountry(rows)
	totals := make([]model.CountryTotal, len(groups))
	for i, g := range groups {
		totals[i] = model.CountryTotal{Country: g.country, Emissions: floats.Sum(g.values)}
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Emissions > totals[j].Emissions })
	return totals
}

// topN splits ranked totals into the first n and the remainder.
func topN(totals []model.CountryTotal, n int) (head, tail []model.CountryTotal) {
	if len(totals) <= n {
		return totals, nil
	}
	return totals[:n], totals[n:]
}

// summarize computes the map statistics of one country.
func summarize(g group) model.CountryStats {
	cs := model.CountryStats{
		Country: g.country,
		Total:   floats.Sum(g.values),
		Mean:    stat.Mean(g.values, nil),
		Max:     floats.Max(g.values),
		Min:     floats.Min(g.values),
		Count:   len(g.values),
	}
	// sample standard deviation is undefined below two points
	if len(g.values) > 1 {
		sd := stat.StdDev(g.values, nil)
		cs.StdDev = &sd
	}
	return cs
}
