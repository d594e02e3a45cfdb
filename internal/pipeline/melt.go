package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/pkg/utils"
)

// recordValidator checks melted records against their struct tags.
// validator.Validate is safe for concurrent use.
var recordValidator = validator.New()

// Melt converts one source row into long-format records. Wide rows carry one
// column per year; long rows carry Year and Emissions columns. Cells without
// a numeric emissions value are skipped and counted in dropped.
func Melt(rec model.GenericRecord) (records []model.EmissionsRecord, dropped int, err error) {
	country := cellString(rec[model.ColumnCountry])
	region := cellString(rec[model.ColumnRegion])

	if yearVal, ok := rec[model.ColumnYear]; ok {
		year, ok := utils.ToFloat(yearVal)
		if !ok || !finite(year) {
			return nil, 0, fmt.Errorf("%s: year %v is not a number", country, yearVal)
		}
		emissions, ok := utils.ToFloat(rec[model.ColumnEmissions])
		if !ok || !finite(emissions) {
			return nil, 1, nil
		}
		records = append(records, model.EmissionsRecord{Country: country, Region: region, Year: int(year), Emissions: emissions})
	} else {
		for key, val := range rec {
			year, ok := yearColumn(key)
			if !ok {
				continue
			}
			emissions, ok := utils.ToFloat(val)
			if !ok || !finite(emissions) {
				dropped++
				continue
			}
			records = append(records, model.EmissionsRecord{Country: country, Region: region, Year: year, Emissions: emissions})
		}
		sort.Slice(records, func(i, j int) bool { return records[i].Year < records[j].Year })
	}

	for _, r := range records {
		if verr := recordValidator.Struct(r); verr != nil {
			return nil, dropped, fmt.Errorf("invalid record %s/%d: %w", r.Country, r.Year, verr)
		}
	}
	return records, dropped, nil
}

// yearColumn reports whether a wide-format header names a year, e.g. "1990"
// or the World Bank style "1990 [YR1990]".
func yearColumn(key string) (int, bool) {
	key = strings.TrimSpace(key)
	if i := strings.IndexByte(key, ' '); i > 0 {
		key = key[:i]
	}
	if len(key) != 4 {
		return 0, false
	}
	year, err := strconv.Atoi(key)
	if err != nil {
		return 0, false
	}
	return year, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
