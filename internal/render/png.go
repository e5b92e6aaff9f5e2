// Package render turns projected chart views into images and HTML pages.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"dataviz-studio/internal/models"
	"dataviz-studio/internal/projection"

	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ChartKind identifies one of the five chart views
type ChartKind int

const (
	ChartLine ChartKind = iota
	ChartArea
	ChartBar
	ChartPie
	ChartScatter
)

// NoDataText is drawn on charts with nothing to plot
const NoDataText = "No data available"

// ChartKinds lists the views in tab order
func ChartKinds() []ChartKind {
	return []ChartKind{ChartLine, ChartArea, ChartBar, ChartPie, ChartScatter}
}

// Title returns the tab and chart title
func (k ChartKind) Title() string {
	switch k {
	case ChartLine:
		return "Line Chart"
	case ChartArea:
		return "Area Chart"
	case ChartBar:
		return "Bar Chart"
	case ChartPie:
		return "Pie Chart"
	case ChartScatter:
		return "Scatter Plot"
	default:
		return "Unknown"
	}
}

// FileName returns the PNG file name used on export
func (k ChartKind) FileName() string {
	switch k {
	case ChartLine:
		return "line.png"
	case ChartArea:
		return "area.png"
	case ChartBar:
		return "bar.png"
	case ChartPie:
		return "pie.png"
	case ChartScatter:
		return "scatter.png"
	default:
		return "chart.png"
	}
}

// Renderer draws chart views as PNG images of a fixed size
type Renderer struct {
	width  int
	height int
}

// NewRenderer creates a renderer; non-positive sizes fall back to 960x540
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = 960
	}
	if height <= 0 {
		height = 540
	}
	return &Renderer{width: width, height: height}
}

// Size returns the image dimensions
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// PNG renders one view. Empty views produce a placeholder image.
func (r *Renderer) PNG(kind ChartKind, charts projection.Charts, settings models.ChartSettings) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch kind {
	case ChartLine:
		err = r.renderSeries(&buf, kind, charts.Line, settings, false)
	case ChartArea:
		err = r.renderSeries(&buf, kind, charts.Area, settings, true)
	case ChartBar:
		err = r.renderBar(&buf, charts.Bar, settings)
	case ChartPie:
		err = r.renderPie(&buf, charts.Pie, settings)
	case ChartScatter:
		err = r.renderScatter(&buf, charts.Scatter, settings)
	default:
		return nil, fmt.Errorf("unknown chart kind %d", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", kind.Title(), err)
	}
	return buf.Bytes(), nil
}

// Image renders one view and decodes it. Render failures yield a placeholder
// carrying the error text so the display always updates.
func (r *Renderer) Image(kind ChartKind, charts projection.Charts, settings models.ChartSettings) (image.Image, error) {
	data, err := r.PNG(kind, charts, settings)
	if err != nil {
		return Placeholder(r.width, r.height, err.Error()), err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return Placeholder(r.width, r.height, err.Error()), err
	}
	return img, nil
}

func (r *Renderer) renderSeries(buf *bytes.Buffer, kind ChartKind, series projection.Series, settings models.ChartSettings, filled bool) error {
	if len(series.Points) == 0 {
		return r.placeholder(buf)
	}

	xs := make([]float64, len(series.Points))
	ys := make([]float64, len(series.Points))
	for i, p := range series.Points {
		xs[i], ys[i] = p.X, p.Y
	}

	base := chart.GetDefaultColor(0)
	style := chart.Style{
		StrokeColor: base.WithAlpha(alpha(settings.Opacity)),
		StrokeWidth: 2,
	}
	if filled {
		style.FillColor = base.WithAlpha(alpha(settings.Opacity * 0.6))
	}

	yMin, yMax := bounds(ys)
	if filled {
		yMin = math.Min(0, yMin)
	}

	graph := chart.Chart{
		Title:      kind.Title(),
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: "X", Range: padded(bounds(xs))},
		YAxis:      chart.YAxis{Name: "Y", Range: padded(yMin, yMax)},
		Series: []chart.Series{chart.ContinuousSeries{
			Name:    series.Name,
			Style:   style,
			XValues: xs,
			YValues: ys,
		}},
	}
	if settings.LegendVisible {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}
	return graph.Render(chart.PNG, buf)
}

func (r *Renderer) renderBar(buf *bytes.Buffer, values []projection.CategoryValue, settings models.ChartSettings) error {
	if len(values) == 0 {
		return r.placeholder(buf)
	}

	a := alpha(settings.Opacity)
	bars := make([]chart.Value, len(values))
	ys := make([]float64, len(values))
	for i, v := range values {
		bars[i] = chart.Value{
			Label: v.Category,
			Value: v.Value,
			Style: chart.Style{
				FillColor:   chart.GetDefaultColor(i).WithAlpha(a),
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 1,
			},
		}
		ys[i] = v.Value
	}

	lo, hi := bounds(ys)
	width := max(4, min(80, (r.width-120)/(2*len(values))))

	graph := chart.BarChart{
		Title:      ChartBar.Title(),
		Width:      r.width,
		Height:     r.height,
		BarWidth:   width,
		BarSpacing: width,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		YAxis:      chart.YAxis{Range: padded(math.Min(0, lo), math.Max(0, hi))},
		Bars:       bars,
	}
	return graph.Render(chart.PNG, buf)
}

func (r *Renderer) renderPie(buf *bytes.Buffer, values []projection.CategoryValue, settings models.ChartSettings) error {
	var total float64
	for _, v := range values {
		total += v.Value
	}
	if len(values) == 0 || total <= 0 {
		return r.placeholder(buf)
	}

	a := alpha(settings.Opacity)
	slices := make([]chart.Value, len(values))
	for i, v := range values {
		label := ""
		if settings.LegendVisible {
			label = v.Category
		}
		slices[i] = chart.Value{
			Label: label,
			Value: v.Value,
			Style: chart.Style{FillColor: chart.GetDefaultColor(i).WithAlpha(a)},
		}
	}

	graph := chart.PieChart{
		Title:      ChartPie.Title(),
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Values:     slices,
	}
	return graph.Render(chart.PNG, buf)
}

func (r *Renderer) renderScatter(buf *bytes.Buffer, groups []projection.Series, settings models.ChartSettings) error {
	if len(groups) == 0 {
		return r.placeholder(buf)
	}

	a := alpha(settings.Opacity)
	var allX, allY []float64
	series := make([]chart.Series, 0, len(groups))
	for i, g := range groups {
		xs := make([]float64, len(g.Points))
		ys := make([]float64, len(g.Points))
		for j, p := range g.Points {
			xs[j], ys[j] = p.X, p.Y
		}
		allX = append(allX, xs...)
		allY = append(allY, ys...)

		series = append(series, chart.ContinuousSeries{
			Name: g.Name,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    3,
				DotColor:    chart.GetDefaultColor(i).WithAlpha(a),
			},
			XValues: xs,
			YValues: ys,
		})
	}

	graph := chart.Chart{
		Title:      ChartScatter.Title(),
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: "X", Range: padded(bounds(allX))},
		YAxis:      chart.YAxis{Name: "Y", Range: padded(bounds(allY))},
		Series:     series,
	}
	if settings.LegendVisible {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}
	return graph.Render(chart.PNG, buf)
}

func (r *Renderer) placeholder(buf *bytes.Buffer) error {
	return png.Encode(buf, Placeholder(r.width, r.height, NoDataText))
}

// Placeholder draws centered text on a plain background
func Placeholder(width, height int, text string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 245, G: 245, B: 245, A: 255}), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 90, G: 90, B: 90, A: 255}),
		Face: face,
	}
	tw := d.MeasureString(text).Ceil()
	x := max(4, (width-tw)/2)
	y := height/2 + face.Metrics().Ascent.Ceil()/2
	d.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	d.DrawString(text)
	return img
}

func alpha(opacity float64) uint8 {
	opacity = math.Max(0, math.Min(1, opacity))
	return uint8(math.Round(opacity * 255))
}

func bounds(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(values) == 0 {
		return 0, 0
	}
	return lo, hi
}

// padded widens a range by 5% on each side; go-chart rejects zero-width ranges
func padded(lo, hi float64) *chart.ContinuousRange {
	span := hi - lo
	if span == 0 {
		span = math.Max(1, math.Abs(lo))
		return &chart.ContinuousRange{Min: lo - span/2, Max: hi + span/2}
	}
	return &chart.ContinuousRange{Min: lo - span*0.05, Max: hi + span*0.05}
}
