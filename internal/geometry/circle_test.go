package geometry

import (
	"math"
	"testing"
)

// sumCircleOverlap integrates CircleRectOverlap over a unit pixel grid large
// enough to cover the whole circle.
func sumCircleOverlap(cx, cy, r float64) float64 {
	n := int(math.Ceil(r)) + 2
	var sum float64
	for j := -n; j <= n; j++ {
		for i := -n; i <= n; i++ {
			x0 := float64(i) - 0.5 - cx
			y0 := float64(j) - 0.5 - cy
			sum += CircleRectOverlap(x0, y0, x0+1, y0+1, r)
		}
	}
	return sum
}

func TestCircleRectOverlap_AreaConservation(t *testing.T) {
	tests := []struct {
		name   string
		cx, cy float64
		r      float64
	}{
		{"small_centered", 0, 0, 0.5},
		{"unit_centered", 0, 0, 1},
		{"medium_centered", 0, 0, 2.5},
		{"medium_offset", 0.25, -0.37, 2.5},
		{"large_offset", 0.5, 0.5, 5.5},
		{"subpixel_radius", 0.3, 0.1, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sumCircleOverlap(tt.cx, tt.cy, tt.r)
			want := math.Pi * tt.r * tt.r
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("total overlap: got %.12f, want %.12f", got, want)
			}
		})
	}
}

func TestCircleRectOverlap_FullContainment(t *testing.T) {
	// Rectangle well inside the circle must return exactly dx*dy.
	got := CircleRectOverlap(-0.5, -0.5, 0.5, 0.5, 10)
	if got != 1.0 {
		t.Errorf("contained pixel: got %v, want exactly 1.0", got)
	}

	got = CircleRectOverlap(1.25, -2.0, 1.75, -1.0, 10)
	if got != 0.5 {
		t.Errorf("contained rect: got %v, want exactly 0.5", got)
	}
}

func TestCircleRectOverlap_Disjoint(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 float64
		r              float64
	}{
		{"far_right", 5, -0.5, 6, 0.5, 1},
		{"far_corner", 3, 3, 4, 4, 1},
		{"touching_edge", 1, -0.5, 2, 0.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CircleRectOverlap(tt.x0, tt.y0, tt.x1, tt.y1, tt.r)
			if got != 0 {
				t.Errorf("disjoint overlap: got %v, want exactly 0", got)
			}
		})
	}
}

func TestCircleRectOverlap_HalfCoverage(t *testing.T) {
	// A rectangle covering exactly the upper half-plane around a unit circle
	// holds half the circle's area.
	got := CircleRectOverlap(-5, 0, 5, 5, 1)
	want := math.Pi / 2
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("half coverage: got %.15f, want %.15f", got, want)
	}

	// Quarter coverage with both splits on the center.
	got = CircleRectOverlap(0, 0, 5, 5, 1)
	want = math.Pi / 4
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("quarter coverage: got %.15f, want %.15f", got, want)
	}
}

func TestCircleRectOverlap_QuadrantSymmetry(t *testing.T) {
	r := 2.3
	base := CircleRectOverlap(1.0, 0.5, 2.0, 1.5, r)

	mirrors := []struct {
		name           string
		x0, y0, x1, y1 float64
	}{
		{"mirror_x", -2.0, 0.5, -1.0, 1.5},
		{"mirror_y", 1.0, -1.5, 2.0, -0.5},
		{"mirror_xy", -2.0, -1.5, -1.0, -0.5},
		{"transpose", 0.5, 1.0, 1.5, 2.0},
	}

	for _, tt := range mirrors {
		t.Run(tt.name, func(t *testing.T) {
			got := CircleRectOverlap(tt.x0, tt.y0, tt.x1, tt.y1, r)
			if math.Abs(got-base) > 1e-12 {
				t.Errorf("mirrored overlap: got %.15f, want %.15f", got, base)
			}
		})
	}
}

func TestCircleRectOverlap_DegenerateRadius(t *testing.T) {
	got := CircleRectOverlap(-0.5, -0.5, 0.5, 0.5, 0)
	if got != 0 {
		t.Errorf("zero radius: got %v, want 0", got)
	}
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("zero radius produced non-finite value: %v", got)
	}
}

func TestCircleRectOverlap_WeightBounds(t *testing.T) {
	// Every unit pixel's overlap must stay within [0, 1] for a range of radii
	// and offsets that put pixels on the boundary.
	for _, r := range []float64{0.5, 1.0, 1.7, 3.2} {
		n := int(math.Ceil(r)) + 2
		for j := -n; j <= n; j++ {
			for i := -n; i <= n; i++ {
				x0 := float64(i) - 0.5
				y0 := float64(j) - 0.5
				got := CircleRectOverlap(x0, y0, x0+1, y0+1, r)
				if got < 0 || got > 1 {
					t.Fatalf("pixel (%d,%d) r=%v: overlap %v out of [0,1]", i, j, r, got)
				}
			}
		}
	}
}
