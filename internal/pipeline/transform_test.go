package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
)

func TestApplyTransformations(t *testing.T) {
	rec := model.GenericRecord{
		model.ColumnCountry: "  united STATES ",
		model.ColumnRegion:  "north america",
		"1990":              "",
		"1991":              nil,
		"1992":              19.1,
	}

	out, keep := applyTransformations(rec, []string{"trimStrings", "normalizeNames", "removeNulls"})
	require.True(t, keep)
	assert.Equal(t, model.GenericRecord{
		model.ColumnCountry: "United States",
		model.ColumnRegion:  "North America",
		"1992":              19.1,
	}, out)
	assert.Equal(t, "  united STATES ", rec[model.ColumnCountry], "input row is not modified")

	_, keep = applyTransformations(model.GenericRecord{model.ColumnCountry: "World", model.ColumnRegion: " "}, []string{"dropAggregates"})
	assert.False(t, keep)
}

func TestCheckTransformations(t *testing.T) {
	assert.NoError(t, CheckTransformations([]string{"trimStrings", "dropAggregates"}))
	assert.ErrorIs(t, CheckTransformations([]string{"trimStrings", "upper"}), ErrUnknownTransformation)
}

func TestTransformRecords_CountsDropped(t *testing.T) {
	tracker := NewTracker("run", model.LoadSpec{})
	in := make(chan model.GenericRecord, 3)
	out := make(chan model.GenericRecord, 3)
	in <- model.GenericRecord{model.ColumnCountry: "A", model.ColumnRegion: "R"}
	in <- model.GenericRecord{model.ColumnCountry: "World", model.ColumnRegion: ""}
	in <- model.GenericRecord{model.ColumnCountry: "B", model.ColumnRegion: "R"}
	close(in)

	TransformRecords(context.Background(), []string{"dropAggregates"}, in, out, tracker, discardLogger(), 2)

	var kept []string
	for rec := range out {
		kept = append(kept, rec[model.ColumnCountry].(string))
	}
	assert.ElementsMatch(t, []string{"A", "B"}, kept)
	assert.Equal(t, int64(1), tracker.Report().RowsDropped)
}

func TestValidateRecord(t *testing.T) {
	rules := &model.ValidationRules{
		RequiredFields: []string{model.ColumnCountry},
		NumericFields:  []string{"1990"},
		MinValues:      map[string]float64{"1990": 0},
		MaxValues:      map[string]float64{"1990": 100},
	}

	assert.NoError(t, validateRecord(model.GenericRecord{model.ColumnCountry: "A", "1990": 3.5}, rules))
	assert.NoError(t, validateRecord(model.GenericRecord{model.ColumnCountry: "A", "1990": ""}, rules))
	assert.NoError(t, validateRecord(model.GenericRecord{}, nil))
	assert.Error(t, validateRecord(model.GenericRecord{"1990": 3.5}, rules))
	assert.Error(t, validateRecord(model.GenericRecord{model.ColumnCountry: "A", "1990": "lots"}, rules))
	assert.Error(t, validateRecord(model.GenericRecord{model.ColumnCountry: "A", "1990": -1}, rules))
	assert.Error(t, validateRecord(model.GenericRecord{model.ColumnCountry: "A", "1990": 101}, rules))
}
