package aperture

import (
	"fmt"
	"math"

	"github.com/ironsheep/photometry-tools-mcp/internal/geometry"
)

// Circle is a circular aperture of radius r centered at (x,y).
type Circle struct {
	x, y, r float64
}

// NewCircle validates and builds a circular aperture. The radius must be
// non-negative; zero is allowed and produces a zero-weight aperture.
func NewCircle(x, y, r float64) (Circle, error) {
	if r < 0 {
		return Circle{}, fmt.Errorf("circle radius must be non-negative, got %g", r)
	}
	return Circle{x: x, y: y, r: r}, nil
}

// Center returns the aperture center.
func (c Circle) Center() (float64, float64) { return c.x, c.y }

// Radius returns the circle radius.
func (c Circle) Radius() float64 { return c.r }

// Area returns pi*r^2.
func (c Circle) Area() float64 { return math.Pi * c.r * c.r }

// BBox returns the tight pixel bounds of the circle.
func (c Circle) BBox() BBox {
	return boxAround(c.x, c.y, c.r, c.r)
}

// Classify relates pixel (x,y) to the circle boundary. All four corners
// inside the closed disk means Inside; a pixel whose nearest point is at or
// beyond the radius is Outside; everything else is Partial.
func (c Circle) Classify(x, y int) PixelClass {
	x0, y0, x1, y1 := pixelRect(x, y, c.x, c.y)
	r2 := c.r * c.r

	fx := math.Max(math.Abs(x0), math.Abs(x1))
	fy := math.Max(math.Abs(y0), math.Abs(y1))
	if fx*fx+fy*fy <= r2+tol {
		return Inside
	}

	nx := nearestCoord(x0, x1)
	ny := nearestCoord(y0, y1)
	if nx*nx+ny*ny >= r2 {
		return Outside
	}
	return Partial
}

// Overlap returns the covered fraction of pixel (x,y).
func (c Circle) Overlap(x, y int, m Method) float64 {
	x0, y0, x1, y1 := pixelRect(x, y, c.x, c.y)
	if m.IsExact() {
		return clamp01(geometry.CircleRectOverlap(x0, y0, x1, y1, c.r))
	}
	r2 := c.r * c.r
	return clamp01(geometry.SubpixelOverlap(x0, y0, x1, y1, m.Subpixels(),
		func(px, py float64) bool { return px*px+py*py < r2 }))
}

func nearestCoord(lo, hi float64) float64 {
	switch {
	case lo > 0:
		return lo
	case hi < 0:
		return hi
	default:
		return 0
	}
}

// CircularAnnulus is the ring between two concentric circles.
type CircularAnnulus struct {
	inner, outer Circle
}

// NewCircularAnnulus validates and builds a circular annulus. Radii must be
// non-negative and rOut must not be smaller than rIn.
func NewCircularAnnulus(x, y, rIn, rOut float64) (CircularAnnulus, error) {
	if rIn < 0 {
		return CircularAnnulus{}, fmt.Errorf("annulus inner radius must be non-negative, got %g", rIn)
	}
	if rOut < rIn {
		return CircularAnnulus{}, fmt.Errorf("annulus outer radius %g smaller than inner radius %g", rOut, rIn)
	}
	return CircularAnnulus{
		inner: Circle{x: x, y: y, r: rIn},
		outer: Circle{x: x, y: y, r: rOut},
	}, nil
}

// Center returns the annulus center.
func (c CircularAnnulus) Center() (float64, float64) { return c.outer.Center() }

// InnerRadius returns the inner radius.
func (c CircularAnnulus) InnerRadius() float64 { return c.inner.r }

// OuterRadius returns the outer radius.
func (c CircularAnnulus) OuterRadius() float64 { return c.outer.r }

// Area returns pi*(rOut^2 - rIn^2).
func (c CircularAnnulus) Area() float64 { return c.outer.Area() - c.inner.Area() }

// BBox returns the outer circle's bounds; the ring has no weight beyond them.
func (c CircularAnnulus) BBox() BBox { return c.outer.BBox() }

// Classify composes the outer and inner classifications: fully inside the
// ring requires fully inside the outer circle and fully clear of the inner
// one; any disagreement is Partial.
func (c CircularAnnulus) Classify(x, y int) PixelClass {
	return annulusClassify(c.outer.Classify(x, y), c.inner.Classify(x, y))
}

// Overlap returns the outer fraction minus the inner fraction.
func (c CircularAnnulus) Overlap(x, y int, m Method) float64 {
	return clamp01(c.outer.Overlap(x, y, m) - c.inner.Overlap(x, y, m))
}
