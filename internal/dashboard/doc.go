// Package dashboard turns dashboard control selections into the aggregate
// tables behind the four emissions views: the time-series line chart, the
// top-5 bar chart, the top-5-plus-others pie chart and the choropleth map.
//
// Every view function is a pure function of an immutable *Table and a
// model.Selection. An empty selection yields a placeholder view carrying only
// a prompt title; a selection that matches no rows yields an empty, non
// placeholder view. Nothing in this package fails on user input.
package dashboard
