package projection

import (
	"fmt"
	"strings"

	"dataviz-studio/internal/models"

	"gonum.org/v1/gonum/stat"
)

// PreviewRows is the number of leading points listed in the preview
const PreviewRows = 10

// Summary holds descriptive statistics of the y values
type Summary struct {
	Count   int
	MeanY   float64
	StdDevY float64
	MinY    float64
	MaxY    float64
}

// Summarize computes y statistics for the snapshot
func Summarize(points []models.DataPoint) Summary {
	s := Summary{Count: len(points)}
	if len(points) == 0 {
		return s
	}

	ys := make([]float64, len(points))
	s.MinY, s.MaxY = points[0].Y, points[0].Y
	for i, dp := range points {
		ys[i] = dp.Y
		s.MinY = min(s.MinY, dp.Y)
		s.MaxY = max(s.MaxY, dp.Y)
	}

	if len(ys) > 1 {
		s.MeanY, s.StdDevY = stat.MeanStdDev(ys, nil)
	} else {
		s.MeanY = ys[0]
	}
	return s
}

// Preview renders the text shown in the data preview panel
func Preview(points []models.DataPoint) string {
	var b strings.Builder
	b.WriteString("Dataset Summary:\n")
	fmt.Fprintf(&b, "Total Points: %d\n\n", len(points))

	if len(points) == 0 {
		return b.String()
	}

	s := Summarize(points)
	fmt.Fprintf(&b, "Y mean: %.2f  std dev: %.2f\n", s.MeanY, s.StdDevY)
	fmt.Fprintf(&b, "Y range: %.2f .. %.2f\n\n", s.MinY, s.MaxY)

	fmt.Fprintf(&b, "First %d data points:\n", PreviewRows)
	b.WriteString("X\t\tY\t\tCategory\n")
	b.WriteString("--------------------------------\n")
	for i := 0; i < min(PreviewRows, len(points)); i++ {
		dp := points[i]
		fmt.Fprintf(&b, "%.2f\t%.2f\t%s\n", dp.X, dp.Y, dp.Category)
	}

	if len(points) > PreviewRows {
		fmt.Fprintf(&b, "... and %d more points", len(points)-PreviewRows)
	}
	return b.String()
}
