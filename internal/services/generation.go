package services

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"dataviz-studio/internal/models"
	"dataviz-studio/internal/progress"

	"gonum.org/v1/gonum/stat/distuv"
)

// GenerationProgressInterval is how many points are produced between progress reports
const GenerationProgressInterval = 1000

// CategoryCount is the number of categories generated points cycle through
const CategoryCount = 5

// NoiseSource yields independent standard normal samples
type NoiseSource interface {
	Sample() float64
}

// NoiseFactory creates a fresh noise source for each generation run
type NoiseFactory func() NoiseSource

type gaussianNoise struct {
	dist distuv.Normal
}

func (g gaussianNoise) Sample() float64 { return g.dist.Rand() }

// GaussianNoise returns a standard normal source seeded from the clock
func GaussianNoise() NoiseSource {
	seed := uint64(time.Now().UnixNano())
	return SeededNoise(seed)
}

// SeededNoise returns a reproducible standard normal source
func SeededNoise(seed uint64) NoiseSource {
	return gaussianNoise{dist: distuv.Normal{
		Mu:    0,
		Sigma: 1,
		Src:   rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}}
}

// ConstantNoise always yields the same value
type ConstantNoise float64

func (c ConstantNoise) Sample() float64 { return float64(c) }

// DataGenerator produces synthetic datasets
type DataGenerator struct {
	noise NoiseFactory
}

// NewDataGenerator creates a generator; a nil factory uses GaussianNoise
func NewDataGenerator(noise NoiseFactory) *DataGenerator {
	if noise == nil {
		noise = GaussianNoise
	}
	return &DataGenerator{noise: noise}
}

// Generate produces count points of the given kind. Progress is reported
// every GenerationProgressInterval points and once more at completion.
// Any fault inside the loop aborts the run and nothing is returned.
func (g *DataGenerator) Generate(ctx context.Context, kind models.GeneratorKind, count int, report progress.Reporter) (points []models.DataPoint, err error) {
	if count <= 0 {
		return nil, &GenerationError{
			Kind:  kind,
			Cause: models.NewValidationError("count", count, "must be positive"),
		}
	}
	if report == nil {
		report = progress.Discard
	}

	defer func() {
		if r := recover(); r != nil {
			points = nil
			err = &GenerationError{Kind: kind, Cause: panicError(r)}
		}
	}()

	noise := g.noise()
	out := make([]models.DataPoint, 0, count)

	for i := 0; i < count; i++ {
		if i%GenerationProgressInterval == 0 {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, &GenerationError{Kind: kind, Cause: ctxErr}
			}
			report.Report(i, count)
		}

		x := float64(i)
		y := Formula(kind, x, noise.Sample())
		out = append(out, models.NewDataPoint(x, y, CategoryName(i)))
	}

	report.Report(count, count)
	return out, nil
}

// Formula evaluates the y value of a kind at x with the given noise sample
func Formula(kind models.GeneratorKind, x, noise float64) float64 {
	switch kind {
	case models.KindLinear:
		return 2*x + noise*10
	case models.KindExponential:
		return math.Exp(x/100.0) + noise*5
	case models.KindSinusoidal:
		return 100*math.Sin(x/50.0) + noise*10
	case models.KindLargeDataset:
		return noise*50 + math.Sin(x/100.0)*30
	default:
		return noise * 100
	}
}

// CategoryName returns the category assigned to the i-th generated point
func CategoryName(i int) string {
	return fmt.Sprintf("Category %d", i%CategoryCount+1)
}
