package dashboard

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
)

func rec(country, region string, year int, emissions float64) model.EmissionsRecord {
	return model.EmissionsRecord{Country: country, Region: region, Year: year, Emissions: emissions}
}

func mustTable(t *testing.T, records ...model.EmissionsRecord) *Table {
	t.Helper()
	table, err := NewTable(records)
	require.NoError(t, err)
	return table
}

func TestNewTable_Invariants(t *testing.T) {
	tests := []struct {
		name    string
		records []model.EmissionsRecord
		wantErr error
	}{
		{
			name:    "valid",
			records: []model.EmissionsRecord{rec("A", "R1", 2000, 1), rec("A", "R1", 2001, 2), rec("B", "R2", 2000, 3)},
		},
		{
			name:    "empty",
			records: nil,
		},
		{
			name:    "duplicate country year",
			records: []model.EmissionsRecord{rec("A", "R1", 2000, 1), rec("A", "R1", 2000, 2)},
			wantErr: ErrDuplicateRow,
		},
		{
			name:    "country in two regions",
			records: []model.EmissionsRecord{rec("A", "R1", 2000, 1), rec("A", "R2", 2001, 2)},
			wantErr: ErrRegionConflict,
		},
		{
			name:    "infinite emissions",
			records: []model.EmissionsRecord{rec("A", "R1", 2000, math.Inf(1))},
			wantErr: ErrNonFinite,
		},
		{
			name:    "NaN emissions",
			records: []model.EmissionsRecord{rec("A", "R1", 2000, math.NaN())},
			wantErr: ErrNonFinite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewTable(tt.records)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, table)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.records), table.Len())
		})
	}
}

func TestTable_IsolatedFromCaller(t *testing.T) {
	records := []model.EmissionsRecord{rec("A", "R1", 2000, 1)}
	table := mustTable(t, records...)

	records[0].Emissions = 99
	got := table.Records()
	assert.Equal(t, 1.0, got[0].Emissions)

	got[0].Emissions = 42
	assert.Equal(t, 1.0, table.Records()[0].Emissions)
}

func TestTable_Accessors(t *testing.T) {
	table := mustTable(t,
		rec("Chad", "Africa", 1995, 0.1),
		rec("Albania", "Europe", 1990, 1.6),
		rec("Chad", "Africa", 2010, 0.2),
		rec("Brazil", "Americas", 2001, 1.9),
	)

	assert.Equal(t, []string{"Albania", "Brazil", "Chad"}, table.Countries())
	assert.Equal(t, []string{"Africa", "Americas", "Europe"}, table.Regions())

	lo, hi, ok := table.YearBounds()
	require.True(t, ok)
	assert.Equal(t, 1990, lo)
	assert.Equal(t, 2010, hi)

	opts := table.Options()
	require.NotNil(t, opts.Years)
	assert.Equal(t, model.YearRange{Start: 1990, End: 2010}, *opts.Years)
}

func TestTable_EmptyBounds(t *testing.T) {
	table := mustTable(t)
	_, _, ok := table.YearBounds()
	assert.False(t, ok)
	assert.Nil(t, table.Options().Years)
}

func TestTable_ConcurrentReaders(t *testing.T) {
	table := mustTable(t, sampleRecords()...)
	sel := model.Selection{
		Countries: []string{"A", "B", "C"},
		Years:     &model.YearRange{Start: 2000, End: 2001},
		Regions:   []string{"R1", "R2"},
	}
	want := Choropleth(table, sel)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			TimeSeries(table, sel)
			TopBar(table, sel)
			TopPie(table, sel)
			assert.Equal(t, want, Choropleth(table, sel))
		}()
	}
	wg.Wait()
}
