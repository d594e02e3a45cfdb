package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/pkg/utils"
)

func TestMelt_Wide(t *testing.T) {
	records, dropped, err := Melt(model.GenericRecord{
		model.ColumnCountry: "Chile",
		model.ColumnCode:    "CHL",
		model.ColumnRegion:  "Latin America & Caribbean",
		"1992 [YR1992]":     2.9,
		"1990":              2,
		"1991":              "",
		"1993":              math.NaN(),
		"1994":              utils.ParseValue("inf"),
		"1995":              math.Inf(-1),
		SourceKey:           "file.csv",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, dropped)
	assert.Equal(t, []model.EmissionsRecord{
		{Country: "Chile", Region: "Latin America & Caribbean", Year: 1990, Emissions: 2},
		{Country: "Chile", Region: "Latin America & Caribbean", Year: 1992, Emissions: 2.9},
	}, records)
}

func TestMelt_Long(t *testing.T) {
	records, dropped, err := Melt(model.GenericRecord{
		model.ColumnCountry:   "Chile",
		model.ColumnRegion:    "Latin America & Caribbean",
		model.ColumnYear:      float64(2005),
		model.ColumnEmissions: "4.1",
	})
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Equal(t, []model.EmissionsRecord{{Country: "Chile", Region: "Latin America & Caribbean", Year: 2005, Emissions: 4.1}}, records)

	records, dropped, err = Melt(model.GenericRecord{
		model.ColumnCountry: "Chile",
		model.ColumnRegion:  "Latin America & Caribbean",
		model.ColumnYear:    2006,
	})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 1, dropped)

	records, dropped, err = Melt(model.GenericRecord{
		model.ColumnCountry:   "Chile",
		model.ColumnRegion:    "Latin America & Caribbean",
		model.ColumnYear:      2007,
		model.ColumnEmissions: "+Inf",
	})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 1, dropped)
}

func TestMelt_Invalid(t *testing.T) {
	tests := []struct {
		name string
		rec  model.GenericRecord
	}{
		{"infinite year", model.GenericRecord{model.ColumnCountry: "A", model.ColumnRegion: "R", model.ColumnYear: math.Inf(1), model.ColumnEmissions: 1}},
		{"non-numeric year", model.GenericRecord{model.ColumnCountry: "A", model.ColumnRegion: "R", model.ColumnYear: "soon", model.ColumnEmissions: 1}},
		{"year out of range", model.GenericRecord{model.ColumnCountry: "A", model.ColumnRegion: "R", "1700": 1.0}},
		{"negative emissions", model.GenericRecord{model.ColumnCountry: "A", model.ColumnRegion: "R", model.ColumnYear: 2000, model.ColumnEmissions: -1}},
		{"missing region", model.GenericRecord{model.ColumnCountry: "World", "2000": 4.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, _, err := Melt(tt.rec)
			assert.Error(t, err)
			assert.Nil(t, records)
		})
	}
}

func TestYearColumn(t *testing.T) {
	tests := []struct {
		key  string
		year int
		ok   bool
	}{
		{"1990", 1990, true},
		{" 2020 ", 2020, true},
		{"2014 [YR2014]", 2014, true},
		{"Country Code", 0, false},
		{"199", 0, false},
		{"abcd", 0, false},
	}
	for _, tt := range tests {
		year, ok := yearColumn(tt.key)
		assert.Equal(t, tt.ok, ok, tt.key)
		assert.Equal(t, tt.year, year, tt.key)
	}
}
