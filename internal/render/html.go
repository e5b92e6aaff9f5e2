package render

import (
	"io"
	"strconv"

	"dataviz-studio/internal/models"
	"dataviz-studio/internal/projection"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// HTMLFileName is the interactive page written next to the PNGs
const HTMLFileName = "charts.html"

// WriteHTML renders all five views as one interactive ECharts page
func (r *Renderer) WriteHTML(w io.Writer, views projection.Charts, settings models.ChartSettings) error {
	page := components.NewPage()
	page.AddCharts(
		r.htmlLine(ChartLine, views.Line, settings, false),
		r.htmlLine(ChartArea, views.Area, settings, true),
		r.htmlBar(views.Bar, settings),
		r.htmlPie(views.Pie, settings),
		r.htmlScatter(views.Scatter, settings),
	)
	return page.Render(w)
}

func (r *Renderer) globalOpts(kind ChartKind, settings models.ChartSettings) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  pixels(r.width),
			Height: pixels(r.height),
		}),
		charts.WithTitleOpts(opts.Title{Title: kind.Title()}),
		charts.WithLegendOpts(opts.Legend{Show: settings.LegendVisible, Top: "bottom"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	}
}

func (r *Renderer) htmlLine(kind ChartKind, series projection.Series, settings models.ChartSettings, filled bool) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(append(r.globalOpts(kind, settings),
		charts.WithXAxisOpts(opts.XAxis{Name: "X", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Y", Type: "value"}),
	)...)

	data := make([]opts.LineData, len(series.Points))
	for i, p := range series.Points {
		data[i] = opts.LineData{Value: []float64{p.X, p.Y}}
	}

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineStyleOpts(opts.LineStyle{Opacity: float32(settings.Opacity)}),
	}
	if filled {
		seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: float32(settings.Opacity * 0.6)}))
	}
	line.AddSeries(series.Name, data, seriesOpts...)
	return line
}

func (r *Renderer) htmlBar(values []projection.CategoryValue, settings models.ChartSettings) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalOpts(ChartBar, settings)...)

	labels := make([]string, len(values))
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		labels[i] = v.Category
		data[i] = opts.BarData{Value: v.Value}
	}

	bar.SetXAxis(labels).AddSeries(projection.BarSeriesName, data,
		charts.WithItemStyleOpts(opts.ItemStyle{Opacity: float32(settings.Opacity)}),
	)
	return bar
}

func (r *Renderer) htmlPie(values []projection.CategoryValue, settings models.ChartSettings) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalOpts(ChartPie, settings)...)

	data := make([]opts.PieData, len(values))
	for i, v := range values {
		data[i] = opts.PieData{Name: v.Category, Value: v.Value}
	}

	pie.AddSeries(ChartPie.Title(), data,
		charts.WithItemStyleOpts(opts.ItemStyle{Opacity: float32(settings.Opacity)}),
	)
	return pie
}

func (r *Renderer) htmlScatter(groups []projection.Series, settings models.ChartSettings) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(append(r.globalOpts(ChartScatter, settings),
		charts.WithXAxisOpts(opts.XAxis{Name: "X", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Y", Type: "value"}),
	)...)

	for _, g := range groups {
		data := make([]opts.ScatterData, len(g.Points))
		for i, p := range g.Points {
			data[i] = opts.ScatterData{Value: []float64{p.X, p.Y}, SymbolSize: 5}
		}
		scatter.AddSeries(g.Name, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Opacity: float32(settings.Opacity)}),
		)
	}
	return scatter
}

func pixels(n int) string {
	return strconv.Itoa(n) + "px"
}
