// Package render turns comparison results into self-contained HTML pages
// with echarts visualizations: the oriented track outline colored by
// microsector dominance, the running time delta and the speed traces.
package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/openpitwall/telemetry-compare-go/pkg/model"
)

const (
	chartWidth  = "900px"
	chartHeight = "600px"
)

// Comparison renders the full two-driver comparison dashboard.
func Comparison(w io.Writer, res *model.ComparisonResult) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s vs %s", res.Pilot1.Name, res.Pilot2.Name)
	page.AddCharts(
		trackScatter(res),
		deltaLine(res),
		speedLine(res),
	)
	return page.Render(w)
}

// Domination renders the N-driver circuit domination map.
func Domination(w io.Writer, res *model.DominationResult) error {
	page := components.NewPage()
	page.PageTitle = "Circuit domination"
	page.AddCharts(dominationScatter(res))
	return page.Render(w)
}

// trackScatter plots the shared outline; the visual-map dimension carries
// the winning driver index per point, mapped onto the two driver colors.
func trackScatter(res *model.ComparisonResult) *charts.Scatter {
	data := make([]opts.ScatterData, len(res.Circuit.X))
	for i := range res.Circuit.X {
		winner := 0
		if res.Circuit.Colors[i] == res.Pilot2.Color {
			winner = 1
		}
		data[i] = opts.ScatterData{
			Value: []interface{}{res.Circuit.X[i], res.Circuit.Y[i], winner},
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Microsector dominance",
			Theme:     "dark",
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Microsector dominance",
			Subtitle: fmt.Sprintf("rotation %d°, %s vs %s",
				res.Metadata.Rotation, res.Pilot1.Name, res.Pilot2.Name),
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min:       0,
			Max:       1,
			Dimension: "2",
			InRange: &opts.VisualMapInRange{
				Color: []string{res.Pilot1.Color, res.Pilot2.Color},
			},
		}),
	)
	scatter.AddSeries("circuit", data,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	return scatter
}

func deltaLine(res *model.ComparisonResult) *charts.Line {
	data := make([]opts.LineData, len(res.Delta))
	for i, v := range res.Delta {
		data[i] = opts.LineData{Value: v}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width: chartWidth, Height: "300px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Delta time",
			Subtitle: fmt.Sprintf("positive: %s behind", res.Pilot1.Name),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	line.SetXAxis(distanceLabels(res.Pilot1.Distance)).
		AddSeries("delta (s)", data)
	return line
}

func speedLine(res *model.ComparisonResult) *charts.Line {
	toSeries := func(values []float64) []opts.LineData {
		data := make([]opts.LineData, len(values))
		for i, v := range values {
			data[i] = opts.LineData{Value: v}
		}
		return data
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width: chartWidth, Height: "300px",
		}),
		charts.WithTitleOpts(opts.Title{Title: "Speed (km/h)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	line.SetXAxis(distanceLabels(res.Pilot1.Distance)).
		AddSeries(res.Pilot1.Name, toSeries(res.Pilot1.Speed)).
		AddSeries(res.Pilot2.Name, toSeries(res.Pilot2.Speed))
	return line
}

func dominationScatter(res *model.DominationResult) *charts.Scatter {
	colorIdx := make(map[string]int, len(res.Drivers))
	palette := make([]string, len(res.Drivers))
	for i, d := range res.Drivers {
		colorIdx[d.Color] = i
		palette[i] = d.Color
	}

	data := make([]opts.ScatterData, len(res.X))
	for i := range res.X {
		// points take the color of their leading segment
		segment := i
		if segment >= len(res.Colors) && segment > 0 {
			segment = len(res.Colors) - 1
		}
		winner := 0
		if segment >= 0 && segment < len(res.Colors) {
			winner = colorIdx[res.Colors[segment]]
		}
		data[i] = opts.ScatterData{
			Value: []interface{}{res.X[i], res.Y[i], winner},
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Circuit domination",
			Theme:     "dark",
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Circuit domination",
			Subtitle: fmt.Sprintf("%d drivers", len(res.Drivers)),
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min:       0,
			Max:       float32(max(len(res.Drivers)-1, 1)),
			Dimension: "2",
			InRange:   &opts.VisualMapInRange{Color: palette},
		}),
	)
	scatter.AddSeries("circuit", data,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	return scatter
}

func distanceLabels(distance []float64) []string {
	labels := make([]string, len(distance))
	for i, d := range distance {
		labels[i] = fmt.Sprintf("%.0f", d)
	}
	return labels
}
