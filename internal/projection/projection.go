// Package projection derives chart series from a dataset snapshot.
// Every function is pure: the same snapshot always yields the same output.
package projection

import (
	"math"
	"sort"

	"dataviz-studio/internal/models"
)

const (
	// LineSampleTarget bounds the line and area series length
	LineSampleTarget = 1000
	// ScatterSampleTarget bounds the scatter point count
	ScatterSampleTarget = 2000

	LineSeriesName = "Data Series"
	AreaSeriesName = "Area Data"
	BarSeriesName  = "Category Data"
)

// XYPoint is one plotted coordinate
type XYPoint struct {
	X float64
	Y float64
}

// Series is a named run of plotted coordinates
type Series struct {
	Name   string
	Points []XYPoint
}

// CategoryValue is one aggregated bar or pie slice
type CategoryValue struct {
	Category string
	Value    float64
}

// Charts bundles the five derived views of one snapshot
type Charts struct {
	Line    Series
	Area    Series
	Bar     []CategoryValue
	Pie     []CategoryValue
	Scatter []Series
}

// IsEmpty reports whether every view is empty
func (c Charts) IsEmpty() bool {
	return len(c.Line.Points) == 0 && len(c.Area.Points) == 0 &&
		len(c.Bar) == 0 && len(c.Pie) == 0 && len(c.Scatter) == 0
}

// Project computes all five chart views
func Project(points []models.DataPoint) Charts {
	return Charts{
		Line:    Line(points),
		Area:    Area(points),
		Bar:     Bar(points),
		Pie:     Pie(points),
		Scatter: Scatter(points),
	}
}

// Stride returns the sampling step that keeps roughly target points out of n
func Stride(n, target int) int {
	if target <= 0 {
		return 1
	}
	return max(1, n/target)
}

// Line samples the dataset for the line chart
func Line(points []models.DataPoint) Series {
	return sampleSeries(LineSeriesName, points, func(y float64) float64 { return y })
}

// Area samples the dataset for the area chart using absolute values
func Area(points []models.DataPoint) Series {
	return sampleSeries(AreaSeriesName, points, math.Abs)
}

// Bar sums y per category
func Bar(points []models.DataPoint) []CategoryValue {
	return aggregate(points, func(y float64) float64 { return y })
}

// Pie sums |y| per category
func Pie(points []models.DataPoint) []CategoryValue {
	return aggregate(points, math.Abs)
}

// Scatter samples the dataset and splits it into one series per category,
// ordered by first appearance
func Scatter(points []models.DataPoint) []Series {
	if len(points) == 0 {
		return nil
	}

	step := Stride(len(points), ScatterSampleTarget)
	index := make(map[string]int)
	var out []Series

	for i := 0; i < len(points); i += step {
		dp := points[i]
		pos, ok := index[dp.Category]
		if !ok {
			pos = len(out)
			index[dp.Category] = pos
			out = append(out, Series{Name: dp.Category})
		}
		out[pos].Points = append(out[pos].Points, XYPoint{X: dp.X, Y: dp.Y})
	}
	return out
}

func sampleSeries(name string, points []models.DataPoint, value func(float64) float64) Series {
	series := Series{Name: name}
	if len(points) == 0 {
		return series
	}

	step := Stride(len(points), LineSampleTarget)
	series.Points = make([]XYPoint, 0, (len(points)+step-1)/step)
	for i := 0; i < len(points); i += step {
		series.Points = append(series.Points, XYPoint{X: points[i].X, Y: value(points[i].Y)})
	}
	return series
}

func aggregate(points []models.DataPoint, value func(float64) float64) []CategoryValue {
	if len(points) == 0 {
		return nil
	}

	sums := make(map[string]float64)
	for _, dp := range points {
		sums[dp.Category] += value(dp.Y)
	}

	out := make([]CategoryValue, 0, len(sums))
	for category, sum := range sums {
		out = append(out, CategoryValue{Category: category, Value: sum})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// AsMap converts aggregated values into a lookup by category
func AsMap(values []CategoryValue) map[string]float64 {
	m := make(map[string]float64, len(values))
	for _, v := range values {
		m[v.Category] = v.Value
	}
	return m
}
