package plotpage

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth        = "100%"
	chartHeight       = "500px"
	heatLabelRotate   = 0
	heatLabelFontSize = 10
)

// SeriesData represents a single numeric value in a chart series.
// any allows both int and float64 values.
type SeriesData any

// BarSeries defines the properties and data for a single bar chart series.
type BarSeries struct {
	Name  string
	Data  []SeriesData
	Color string // Optional, uses theme palette if empty.
	Stack string // Optional, stack grouping.
}

// LineSeries defines the properties and data for a single line chart series.
type LineSeries struct {
	Name        string
	Data        []SeriesData
	Color       string  // Optional, uses theme palette if empty.
	Stack       string  // Optional, stack grouping.
	AreaOpacity float32 // Optional, area opacity for area charts.
}

// HeatCell is one value in a heat map grid.
type HeatCell struct {
	X     int
	Y     int
	Value int
}

// BuildBarChart constructs a fully configured go-echarts Bar chart.
// If cOpts is nil, DefaultChartOpts() is used.
func BuildBarChart(cOpts *ChartOpts, labels []string, series []BarSeries, yAxisLabel string) *charts.Bar {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, chartHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("axis")),
		charts.WithDataZoomOpts(cOpts.DataZoom()...),
		charts.WithXAxisOpts(cOpts.XAxis("")),
		charts.WithYAxisOpts(cOpts.YAxis(yAxisLabel)),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	bar.SetXAxis(labels)

	for i, s := range series {
		barData := make([]opts.BarData, len(s.Data))
		for j, v := range s.Data {
			barData[j] = opts.BarData{Value: v}
		}

		color := s.Color
		if color == "" {
			color = cOpts.SeriesColor(i)
		}

		seriesOpts := []charts.SeriesOpts{
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		}

		if s.Stack != "" {
			seriesOpts = append(seriesOpts, charts.WithBarChartOpts(opts.BarChart{Stack: s.Stack}))
		}

		bar.AddSeries(s.Name, barData, seriesOpts...)
	}

	return bar
}

// BuildLineChart constructs a fully configured go-echarts Line chart.
// If cOpts is nil, DefaultChartOpts() is used.
func BuildLineChart(cOpts *ChartOpts, labels []string, series []LineSeries, yAxisLabel string) *charts.Line {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, chartHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("axis")),
		charts.WithDataZoomOpts(cOpts.DataZoom()...),
		charts.WithXAxisOpts(cOpts.XAxis("")),
		charts.WithYAxisOpts(cOpts.YAxis(yAxisLabel)),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	line.SetXAxis(labels)

	for i, s := range series {
		lineData := make([]opts.LineData, len(s.Data))
		for j, v := range s.Data {
			lineData[j] = opts.LineData{Value: v}
		}

		color := s.Color
		if color == "" {
			color = cOpts.SeriesColor(i)
		}

		seriesOpts := []charts.SeriesOpts{
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: color}),
		}

		if s.Stack != "" {
			seriesOpts = append(seriesOpts, charts.WithLineChartOpts(opts.LineChart{Stack: s.Stack}))
		}

		if s.AreaOpacity > 0 {
			seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(s.AreaOpacity)}))
		}

		line.AddSeries(s.Name, lineData, seriesOpts...)
	}

	return line
}

// BuildHeatMap constructs a category heat map over the given axes. The
// visual map scales from zero to the largest cell value. Height is a
// CSS length like "400px". If cOpts is nil, DefaultChartOpts() is used.
func BuildHeatMap(cOpts *ChartOpts, xLabels, yLabels []string, cells []HeatCell, height string) *charts.HeatMap {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	if height == "" {
		height = chartHeight
	}

	var maxVal int

	data := make([]opts.HeatMapData, len(cells))

	for i, cell := range cells {
		data[i] = opts.HeatMapData{Value: [3]any{cell.X, cell.Y, cell.Value}}

		if cell.Value > maxVal {
			maxVal = cell.Value
		}
	}

	if maxVal == 0 {
		maxVal = 1
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, height)),
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category", Data: xLabels,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Rotate: heatLabelRotate, Interval: "0", FontSize: heatLabelFontSize, Color: cOpts.TextMutedColor()},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "category", Data: yLabels,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{FontSize: heatLabelFontSize, Color: cOpts.TextMutedColor()},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true), Min: 0, Max: float32(maxVal),
			InRange: &opts.VisualMapInRange{Color: cOpts.HeatColors()},
			Orient:  "horizontal", Left: "center", Bottom: "2%",
			TextStyle: &opts.TextStyle{Color: cOpts.TextMutedColor()},
		}),
		charts.WithGridOpts(opts.Grid{
			Left: "10%", Right: "5%", Top: "40", Bottom: "20%",
		}),
	)

	hm.AddSeries("activity", data)

	return hm
}
