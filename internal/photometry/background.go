package photometry

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a pixel distribution after iterative sigma clipping.
type Stats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`

	// Clipped counts the pixels rejected by the clipping iterations.
	Clipped int `json:"clipped"`

	// Iterations counts the clipping rounds actually run.
	Iterations int `json:"iterations"`
}

// SigmaClippedStats estimates the background level of a data array: pixels
// farther than sigma standard deviations from the running median are rejected
// and the statistics recomputed, until no pixel is rejected or maxIters
// rounds have run. NaN pixels are ignored from the start.
func SigmaClippedStats(data mat.Matrix, sigma float64, maxIters int) (Stats, error) {
	if sigma <= 0 {
		return Stats{}, fmt.Errorf("clip threshold must be positive, got %g", sigma)
	}
	if maxIters < 0 {
		return Stats{}, fmt.Errorf("iteration cap must be non-negative, got %d", maxIters)
	}

	rows, cols := data.Dims()
	values := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := data.At(i, j); !math.IsNaN(v) {
				values = append(values, v)
			}
		}
	}
	if len(values) == 0 {
		return Stats{}, fmt.Errorf("no finite pixels to measure")
	}
	total := len(values)

	sort.Float64s(values)
	med := stat.Quantile(0.5, stat.Empirical, values, nil)
	mean, std := stat.MeanStdDev(values, nil)

	var iters int
	for iters = 0; iters < maxIters; iters++ {
		lo, hi := med-sigma*std, med+sigma*std

		kept := values[:0]
		for _, v := range values {
			if v >= lo && v <= hi {
				kept = append(kept, v)
			}
		}
		if len(kept) == len(values) || len(kept) == 0 {
			break
		}
		values = kept

		med = stat.Quantile(0.5, stat.Empirical, values, nil)
		mean, std = stat.MeanStdDev(values, nil)
	}

	// A single surviving pixel has no spread to estimate.
	if len(values) < 2 {
		std = 0
	}

	return Stats{
		Mean:       mean,
		Median:     med,
		StdDev:     std,
		Clipped:    total - len(values),
		Iterations: iters,
	}, nil
}
