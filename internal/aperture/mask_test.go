package aperture

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// maskSum adds up every weight inside the mask's bounding box.
func maskSum(m Mask) float64 {
	var s float64
	box := m.BBox()
	for y := box.YMin; y <= box.YMax; y++ {
		for x := box.XMin; x <= box.XMax; x++ {
			s += m.WeightAt(x, y)
		}
	}
	return s
}

func sixShapes(t *testing.T) map[string]Aperture {
	t.Helper()
	shapes := map[string]Aperture{}

	c, err := NewCircle(30, 30, 4.3)
	if err != nil {
		t.Fatal(err)
	}
	shapes["circle"] = c

	ca, err := NewCircularAnnulus(30, 30, 2, 4.5)
	if err != nil {
		t.Fatal(err)
	}
	shapes["circular_annulus"] = ca

	e, err := NewEllipse(30.2, 29.7, 4, 2.5, 33)
	if err != nil {
		t.Fatal(err)
	}
	shapes["ellipse"] = e

	ea, err := NewEllipticalAnnulus(30, 30, 2, 4, 2.5, 70)
	if err != nil {
		t.Fatal(err)
	}
	shapes["elliptical_annulus"] = ea

	r, err := NewRectangle(30.3, 30.1, 5, 3, 20)
	if err != nil {
		t.Fatal(err)
	}
	shapes["rectangle"] = r

	ra, err := NewRectangularAnnulus(30, 30, 3, 6, 4, 110)
	if err != nil {
		t.Fatal(err)
	}
	shapes["rectangular_annulus"] = ra

	return shapes
}

func TestMaskAreaConservationExact(t *testing.T) {
	for name, ap := range sixShapes(t) {
		t.Run(name, func(t *testing.T) {
			got := maskSum(NewMask(ap, Exact))
			want := ap.Area()
			if math.Abs(got-want) > 1e-8 {
				t.Errorf("weight sum: got %v, want %v (diff %v)", got, want, got-want)
			}
		})
	}
}

func TestMaskAreaConservationSubpixel(t *testing.T) {
	for name, ap := range sixShapes(t) {
		t.Run(name, func(t *testing.T) {
			want := ap.Area()
			if coarse := math.Abs(maskSum(NewMask(ap, Subpixel(4))) - want); coarse > 1.0 {
				t.Errorf("n=4 weight sum off by %v from %v", coarse, want)
			}
			if fine := math.Abs(maskSum(NewMask(ap, Subpixel(32))) - want); fine > 0.1 {
				t.Errorf("n=32 weight sum off by %v from %v", fine, want)
			}
		})
	}
}

func TestMaskWeightBounds(t *testing.T) {
	for name, ap := range sixShapes(t) {
		t.Run(name, func(t *testing.T) {
			for _, m := range []Method{Exact, Center(), Subpixel(7)} {
				mask := NewMask(ap, m)
				box := mask.BBox()
				for y := box.YMin; y <= box.YMax; y++ {
					for x := box.XMin; x <= box.XMax; x++ {
						w := mask.WeightAt(x, y)
						if w < 0 || w > 1 || math.IsNaN(w) {
							t.Fatalf("weight at (%d,%d) out of range: %v", x, y, w)
						}
					}
				}
			}
		})
	}
}

func TestMaskOutsideBBoxIsZero(t *testing.T) {
	c, _ := NewCircle(10, 10, 2)
	mask := NewMask(c, Exact)
	box := mask.BBox()

	points := [][2]int{
		{box.XMin - 1, 10},
		{box.XMax + 1, 10},
		{10, box.YMin - 1},
		{10, box.YMax + 1},
		{-100, -100},
	}
	for _, p := range points {
		if w := mask.WeightAt(p[0], p[1]); w != 0 {
			t.Errorf("WeightAt(%d,%d): got %v, want 0", p[0], p[1], w)
		}
	}
}

func TestMaskGridSymmetry(t *testing.T) {
	// A circle centered exactly on a pixel center produces a weight field
	// symmetric under mirror and transpose.
	c, _ := NewCircle(15, 15, 2.6)
	mask := NewMask(c, Exact)

	for dy := -3; dy <= 3; dy++ {
		for dx := -3; dx <= 3; dx++ {
			w := mask.WeightAt(15+dx, 15+dy)
			mirrors := []float64{
				mask.WeightAt(15-dx, 15+dy),
				mask.WeightAt(15+dx, 15-dy),
				mask.WeightAt(15+dy, 15+dx),
			}
			for i, m := range mirrors {
				if math.Abs(w-m) > 1e-12 {
					t.Errorf("asymmetry at offset (%d,%d), mirror %d: %v vs %v", dx, dy, i, w, m)
				}
			}
		}
	}
}

func TestMaskFourPixelJunction(t *testing.T) {
	// A unit square centered on the corner shared by four pixels covers each
	// with weight exactly one quarter.
	r, _ := NewRectangle(50.5, 50.5, 1, 1, 0)
	mask := NewMask(r, Exact)

	for _, p := range [][2]int{{50, 50}, {51, 50}, {50, 51}, {51, 51}} {
		if w := mask.WeightAt(p[0], p[1]); w != 0.25 {
			t.Errorf("WeightAt(%d,%d): got %v, want exactly 0.25", p[0], p[1], w)
		}
	}
	if got := maskSum(mask); got != 1.0 {
		t.Errorf("weight sum: got %v, want exactly 1.0", got)
	}
}

func TestMaskZeroSizeShapes(t *testing.T) {
	c, _ := NewCircle(10, 10, 0)
	e, _ := NewEllipse(10, 10, 0, 2, 0)
	r, _ := NewRectangle(10, 10, 3, 0, 0)

	for name, ap := range map[string]Aperture{"circle": c, "ellipse": e, "rectangle": r} {
		t.Run(name, func(t *testing.T) {
			if a := ap.Area(); a != 0 {
				t.Errorf("area: got %v, want 0", a)
			}
			for _, m := range []Method{Exact, Subpixel(5)} {
				if got := maskSum(NewMask(ap, m)); got != 0 {
					t.Errorf("weight sum: got %v, want 0", got)
				}
			}
		})
	}
}

func TestMaskMultiply(t *testing.T) {
	data := mat.NewDense(8, 8, nil)
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			data.Set(i, j, 2)
		}
	}

	c, _ := NewCircle(4, 4, 1.5)
	mask := NewMask(c, Exact)

	cutout, box, ok := mask.Multiply(data)
	if !ok {
		t.Fatal("expected non-empty intersection")
	}
	if box != mask.BBox() {
		t.Errorf("box: got %+v, want %+v", box, mask.BBox())
	}

	var got float64
	rows, cols := cutout.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			got += cutout.At(i, j)
		}
	}
	want := 2 * c.Area()
	if math.Abs(got-want) > 1e-8 {
		t.Errorf("cutout sum: got %v, want %v", got, want)
	}
}

func TestMaskMultiplyClipsToData(t *testing.T) {
	// Aperture straddling the array edge: only the on-array part contributes.
	data := mat.NewDense(10, 10, nil)
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			data.Set(i, j, 1)
		}
	}

	c, _ := NewCircle(0.5, 0.5, 3)
	mask := NewMask(c, Exact)

	cutout, box, ok := mask.Multiply(data)
	if !ok {
		t.Fatal("expected non-empty intersection")
	}
	if box.XMin != 1 || box.YMin != 1 {
		t.Errorf("intersection not clipped to the array: %+v", box)
	}

	var got float64
	rows, cols := cutout.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			got += cutout.At(i, j)
		}
	}
	// The center sits on the array corner, so one quarter of the disk is on
	// the array.
	want := c.Area() / 4
	if math.Abs(got-want) > 1e-8 {
		t.Errorf("clipped sum: got %v, want %v", got, want)
	}
}

func TestMaskMultiplyDisjoint(t *testing.T) {
	data := mat.NewDense(5, 5, nil)
	c, _ := NewCircle(100, 100, 2)
	if _, _, ok := NewMask(c, Exact).Multiply(data); ok {
		t.Error("expected no intersection with a far-away array")
	}
}
