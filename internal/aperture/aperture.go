package aperture

import "math"

// tol absorbs floating-point noise when corner tests sit on a shape boundary.
const tol = 1e-10

// PixelClass is the relation of one pixel square to a shape boundary.
type PixelClass int

const (
	// Outside pixels have no overlap with the shape; their weight is 0.
	Outside PixelClass = iota
	// Inside pixels are fully covered by the shape; their weight is 1.
	Inside
	// Partial pixels straddle the boundary; their weight comes from the
	// geometry kernel.
	Partial
)

func (c PixelClass) String() string {
	switch c {
	case Outside:
		return "outside"
	case Inside:
		return "inside"
	case Partial:
		return "partial"
	default:
		return "unknown"
	}
}

// Method selects how per-pixel overlap fractions are computed. The zero
// value is the exact analytic method.
type Method struct {
	subpixels int
}

// Exact is the analytic overlap method (the default).
var Exact = Method{}

// Subpixel returns a sampling method that tests an n-by-n grid of subpixel
// centers. Values below 1 are treated as 1.
func Subpixel(n int) Method {
	if n < 1 {
		n = 1
	}
	return Method{subpixels: n}
}

// Center is the n=1 sampling method: only the pixel center is tested.
func Center() Method {
	return Subpixel(1)
}

// IsExact reports whether m is the analytic method.
func (m Method) IsExact() bool { return m.subpixels == 0 }

// Subpixels returns the sampling grid size, or 0 for the exact method.
func (m Method) Subpixels() int { return m.subpixels }

// Aperture is a parametrized region that can weight the pixels it touches.
// Implementations are immutable values; all methods are safe for concurrent
// use.
type Aperture interface {
	// Center returns the aperture center in pixel coordinates.
	Center() (x, y float64)

	// Area returns the analytic area of the aperture.
	Area() float64

	// BBox returns the tight pixel-index bounds of the nonzero-weight
	// region. The box may be empty for zero-size shapes.
	BBox() BBox

	// Classify relates pixel (x,y) to the aperture boundary.
	Classify(x, y int) PixelClass

	// Overlap returns the fraction of pixel (x,y) covered by the aperture,
	// in [0,1], computed with the given method.
	Overlap(x, y int, m Method) float64
}

// BBox is an inclusive range of 1-based pixel indices.
type BBox struct {
	XMin int `json:"x_min"`
	XMax int `json:"x_max"`
	YMin int `json:"y_min"`
	YMax int `json:"y_max"`
}

// boxAround returns the tight pixel bounds of the region within half extents
// (hw,hh) of the continuous center (xc,yc). A pixel is included only when the
// region overlaps its square with nonzero width.
func boxAround(xc, yc, hw, hh float64) BBox {
	return BBox{
		XMin: int(math.Floor(xc - hw + 0.5)),
		XMax: int(math.Ceil(xc + hw - 0.5)),
		YMin: int(math.Floor(yc - hh + 0.5)),
		YMax: int(math.Ceil(yc + hh - 0.5)),
	}
}

// DataBBox returns the pixel-index bounds of a rows-by-cols data array under
// the package's 1-based convention.
func DataBBox(rows, cols int) BBox {
	return BBox{XMin: 1, XMax: cols, YMin: 1, YMax: rows}
}

// Empty reports whether the box contains no pixels.
func (b BBox) Empty() bool {
	return b.XMin > b.XMax || b.YMin > b.YMax
}

// Width returns the number of pixel columns covered, 0 when empty.
func (b BBox) Width() int {
	if b.Empty() {
		return 0
	}
	return b.XMax - b.XMin + 1
}

// Height returns the number of pixel rows covered, 0 when empty.
func (b BBox) Height() int {
	if b.Empty() {
		return 0
	}
	return b.YMax - b.YMin + 1
}

// Contains reports whether pixel (x,y) lies within the box.
func (b BBox) Contains(x, y int) bool {
	return x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax
}

// Intersect returns the overlap of two boxes and whether it is non-empty.
func (b BBox) Intersect(o BBox) (BBox, bool) {
	r := BBox{
		XMin: maxInt(b.XMin, o.XMin),
		XMax: minInt(b.XMax, o.XMax),
		YMin: maxInt(b.YMin, o.YMin),
		YMax: minInt(b.YMax, o.YMax),
	}
	return r, !r.Empty()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// pixelRect returns pixel (x,y)'s square in shape-local coordinates for a
// shape centered at (xc,yc).
func pixelRect(x, y int, xc, yc float64) (x0, y0, x1, y1 float64) {
	x0 = float64(x) - 0.5 - xc
	y0 = float64(y) - 0.5 - yc
	return x0, y0, x0 + 1, y0 + 1
}

// clamp01 keeps kernel results inside [0,1] against rounding spill.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// normalizeDeg maps an angle in degrees onto [0, 360).
func normalizeDeg(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// annulusClassify composes an inner and outer classification by the
// outer-minus-inner rule. Any ambiguity degrades to Partial.
func annulusClassify(outer, inner PixelClass) PixelClass {
	switch {
	case outer == Inside && inner == Outside:
		return Inside
	case outer == Outside || inner == Inside:
		return Outside
	default:
		return Partial
	}
}
