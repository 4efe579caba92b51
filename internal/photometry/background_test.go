package photometry

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSigmaClippedStatsFlatField(t *testing.T) {
	data := constant(32, 32, 5)

	s, err := SigmaClippedStats(data, 3, 5)
	if err != nil {
		t.Fatal(err)
	}
	if s.Mean != 5 || s.Median != 5 {
		t.Errorf("mean/median: got %v/%v, want 5/5", s.Mean, s.Median)
	}
	if s.StdDev != 0 {
		t.Errorf("stddev: got %v, want 0", s.StdDev)
	}
	if s.Clipped != 0 {
		t.Errorf("clipped: got %d, want 0", s.Clipped)
	}
}

func TestSigmaClippedStatsRejectsOutliers(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	data := mat.NewDense(64, 64, nil)
	for i := 0; i < 64; i++ {
		for j := 0; j < 64; j++ {
			data.Set(i, j, 100+rng.NormFloat64())
		}
	}
	// A handful of bright sources on top of the background.
	for _, p := range [][2]int{{5, 5}, {20, 40}, {50, 12}, {33, 33}} {
		data.Set(p[0], p[1], 5000)
	}

	s, err := SigmaClippedStats(data, 3, 10)
	if err != nil {
		t.Fatal(err)
	}
	if s.Clipped < 4 {
		t.Errorf("clipped %d pixels, want at least the 4 sources", s.Clipped)
	}
	if math.Abs(s.Median-100) > 0.5 {
		t.Errorf("median: got %v, want about 100", s.Median)
	}
	if math.Abs(s.Mean-100) > 0.5 {
		t.Errorf("mean: got %v, want about 100", s.Mean)
	}
	if math.Abs(s.StdDev-1) > 0.3 {
		t.Errorf("stddev: got %v, want about 1", s.StdDev)
	}
}

func TestSigmaClippedStatsIgnoresNaN(t *testing.T) {
	data := constant(8, 8, 3)
	data.Set(0, 0, math.NaN())
	data.Set(4, 4, math.NaN())

	s, err := SigmaClippedStats(data, 3, 5)
	if err != nil {
		t.Fatal(err)
	}
	if s.Mean != 3 || s.Median != 3 {
		t.Errorf("mean/median: got %v/%v, want 3/3", s.Mean, s.Median)
	}
}

func TestSigmaClippedStatsAllNaN(t *testing.T) {
	data := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			data.Set(i, j, math.NaN())
		}
	}
	if _, err := SigmaClippedStats(data, 3, 5); err == nil {
		t.Error("expected error for all-NaN input")
	}
}

func TestSigmaClippedStatsValidation(t *testing.T) {
	data := constant(4, 4, 1)
	if _, err := SigmaClippedStats(data, 0, 5); err == nil {
		t.Error("expected error for non-positive sigma")
	}
	if _, err := SigmaClippedStats(data, 3, -1); err == nil {
		t.Error("expected error for negative iteration cap")
	}
}

func TestSigmaClippedStatsZeroIterations(t *testing.T) {
	// With no clipping rounds allowed the plain statistics come back.
	data := constant(4, 4, 2)
	data.Set(0, 0, 100)

	s, err := SigmaClippedStats(data, 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.Clipped != 0 || s.Iterations != 0 {
		t.Errorf("clipped/iters: got %d/%d, want 0/0", s.Clipped, s.Iterations)
	}
	wantMean := (15*2.0 + 100) / 16
	if math.Abs(s.Mean-wantMean) > 1e-12 {
		t.Errorf("mean: got %v, want %v", s.Mean, wantMean)
	}
}
