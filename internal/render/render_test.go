package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestTimeSeriesChart(t *testing.T) {
	v := model.TimeSeriesView{
		Title: "CO2 Emissions Over Time for Selected Countries",
		Series: []model.Series{
			{Country: "A", Points: []model.Point{{Year: 2000, Emissions: 1}, {Year: 2001, Emissions: 2}}},
			{Country: "B", Points: []model.Point{{Year: 2000, Emissions: 3}}},
		},
	}
	p, err := TimeSeriesChart(v)
	require.NoError(t, err)
	assert.Equal(t, v.Title, p.Title.Text)
	assert.Equal(t, "Year", p.X.Label.Text)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, p))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestBarChart_AxisCappedAtAxisMax(t *testing.T) {
	v := model.BarView{
		Title:   "Top 5 Countries",
		Bars:    []model.CountryTotal{{Country: "A", Emissions: 30}, {Country: "B", Emissions: 5}},
		AxisMax: 36,
	}
	p, err := BarChart(v)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Y.Min)
	assert.Equal(t, 36.0, p.Y.Max)

	var buf bytes.Buffer
	require.NoError(t, BarPNG(&buf, v))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestPlaceholders(t *testing.T) {
	ts, err := TimeSeriesChart(model.TimeSeriesView{Title: "Select countries", Placeholder: true})
	require.NoError(t, err)
	assert.Equal(t, "Select countries", ts.Title.Text)
	assert.Empty(t, ts.X.Label.Text)

	bar, err := BarChart(model.BarView{Title: "Choose any Region(s): <br>For CO2 Emissions Bar Chart", Placeholder: true})
	require.NoError(t, err)
	assert.Equal(t, "Choose any Region(s): \nFor CO2 Emissions Bar Chart", bar.Title.Text)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, bar))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))

	buf.Reset()
	require.NoError(t, TimeSeriesPNG(&buf, model.TimeSeriesView{Title: "empty", Placeholder: true}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}
