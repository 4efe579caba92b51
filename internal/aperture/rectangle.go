package aperture

import (
	"fmt"
	"math"

	"github.com/ironsheep/photometry-tools-mcp/internal/geometry"
)

// Rectangle is a w-by-h rectangular aperture centered at (x,y), rotated
// thetaDeg degrees counterclockwise.
type Rectangle struct {
	x, y     float64
	w, h     float64
	thetaDeg float64
}

// NewRectangle validates and builds a rectangular aperture. Width and height
// must be non-negative; the rotation is stored normalized to [0, 360).
func NewRectangle(x, y, w, h, thetaDeg float64) (Rectangle, error) {
	if w < 0 {
		return Rectangle{}, fmt.Errorf("rectangle width must be non-negative, got %g", w)
	}
	if h < 0 {
		return Rectangle{}, fmt.Errorf("rectangle height must be non-negative, got %g", h)
	}
	return Rectangle{x: x, y: y, w: w, h: h, thetaDeg: normalizeDeg(thetaDeg)}, nil
}

// Center returns the aperture center.
func (r Rectangle) Center() (float64, float64) { return r.x, r.y }

// Size returns the full width and height.
func (r Rectangle) Size() (float64, float64) { return r.w, r.h }

// Theta returns the rotation in degrees, in [0, 360).
func (r Rectangle) Theta() float64 { return r.thetaDeg }

// Area returns w*h.
func (r Rectangle) Area() float64 { return r.w * r.h }

func (r Rectangle) thetaRad() float64 { return r.thetaDeg * math.Pi / 180 }

// BBox returns the tight pixel bounds: the union of the four rotated corner
// offsets around the center.
func (r Rectangle) BBox() BBox {
	cosT, sinT := math.Cos(r.thetaRad()), math.Sin(r.thetaRad())
	hw, hh := 0.5*r.w, 0.5*r.h

	var ex, ey float64
	for _, c := range [4][2]float64{{hw, hh}, {-hw, hh}, {-hw, -hh}, {hw, -hh}} {
		ex = math.Max(ex, math.Abs(c[0]*cosT-c[1]*sinT))
		ey = math.Max(ey, math.Abs(c[0]*sinT+c[1]*cosT))
	}
	return boxAround(r.x, r.y, ex, ey)
}

// Classify relates pixel (x,y) to the rectangle by testing the rotated
// half-width/half-height inequality at the four pixel corners, with a
// separating-axis test to prove Outside.
func (r Rectangle) Classify(x, y int) PixelClass {
	if r.w <= 0 || r.h <= 0 {
		return Outside
	}
	cosT, sinT := math.Cos(r.thetaRad()), math.Sin(r.thetaRad())
	hw, hh := 0.5*r.w, 0.5*r.h
	x0, y0, x1, y1 := pixelRect(x, y, r.x, r.y)

	cx := [4]float64{x0, x1, x1, x0}
	cy := [4]float64{y0, y0, y1, y1}

	inside := true
	for i := 0; i < 4; i++ {
		u := cx[i]*cosT + cy[i]*sinT
		v := cy[i]*cosT - cx[i]*sinT
		if math.Abs(u) > hw+tol || math.Abs(v) > hh+tol {
			inside = false
			break
		}
	}
	if inside {
		return Inside
	}

	if rectsSeparated(x0, y0, x1, y1, hw, hh, cosT, sinT) {
		return Outside
	}
	return Partial
}

// rectsSeparated runs the separating-axis test between the axis-aligned
// pixel square and the rotated rectangle (both in shape-local coordinates).
// Two convex rectangles are disjoint exactly when one of their four edge
// normals separates them.
func rectsSeparated(x0, y0, x1, y1, hw, hh, cosT, sinT float64) bool {
	// Pixel axes: the rotated rectangle spans +-extent around the origin.
	extX := hw*math.Abs(cosT) + hh*math.Abs(sinT)
	if x0 >= extX || x1 <= -extX {
		return true
	}
	extY := hw*math.Abs(sinT) + hh*math.Abs(cosT)
	if y0 >= extY || y1 <= -extY {
		return true
	}

	// Rectangle axes: project the pixel corners onto (cosT,sinT) and its
	// normal, compare against the half extents.
	cx := [4]float64{x0, x1, x1, x0}
	cy := [4]float64{y0, y0, y1, y1}
	minU, maxU := math.Inf(1), math.Inf(-1)
	minV, maxV := math.Inf(1), math.Inf(-1)
	for i := 0; i < 4; i++ {
		u := cx[i]*cosT + cy[i]*sinT
		v := cy[i]*cosT - cx[i]*sinT
		minU, maxU = math.Min(minU, u), math.Max(maxU, u)
		minV, maxV = math.Min(minV, v), math.Max(maxV, v)
	}
	return minU >= hw || maxU <= -hw || minV >= hh || maxV <= -hh
}

// Overlap returns the covered fraction of pixel (x,y).
func (r Rectangle) Overlap(x, y int, m Method) float64 {
	x0, y0, x1, y1 := pixelRect(x, y, r.x, r.y)
	if m.IsExact() {
		return clamp01(geometry.RectRectOverlap(x0, y0, x1, y1, r.w, r.h, r.thetaRad()))
	}
	if r.w <= 0 || r.h <= 0 {
		return 0
	}
	cosT, sinT := math.Cos(r.thetaRad()), math.Sin(r.thetaRad())
	hw, hh := 0.5*r.w, 0.5*r.h
	return clamp01(geometry.SubpixelOverlap(x0, y0, x1, y1, m.Subpixels(),
		func(px, py float64) bool {
			u := px*cosT + py*sinT
			v := py*cosT - px*sinT
			return math.Abs(u) < hw && math.Abs(v) < hh
		}))
}

// RectangularAnnulus is the frame between two concentric, co-rotated
// rectangles. The inner height is derived as (wIn/wOut)*hOut so the two
// boundaries stay similar and non-crossing.
type RectangularAnnulus struct {
	inner, outer Rectangle
}

// NewRectangularAnnulus validates and builds a rectangular annulus.
func NewRectangularAnnulus(x, y, wIn, wOut, hOut, thetaDeg float64) (RectangularAnnulus, error) {
	if wIn < 0 {
		return RectangularAnnulus{}, fmt.Errorf("annulus inner width must be non-negative, got %g", wIn)
	}
	if wOut < wIn {
		return RectangularAnnulus{}, fmt.Errorf("annulus outer width %g smaller than inner width %g", wOut, wIn)
	}
	if hOut < 0 {
		return RectangularAnnulus{}, fmt.Errorf("annulus outer height must be non-negative, got %g", hOut)
	}

	hIn := 0.0
	if wOut > 0 {
		hIn = wIn / wOut * hOut
	}
	theta := normalizeDeg(thetaDeg)
	return RectangularAnnulus{
		inner: Rectangle{x: x, y: y, w: wIn, h: hIn, thetaDeg: theta},
		outer: Rectangle{x: x, y: y, w: wOut, h: hOut, thetaDeg: theta},
	}, nil
}

// Center returns the annulus center.
func (r RectangularAnnulus) Center() (float64, float64) { return r.outer.Center() }

// InnerSize returns the inner boundary's width and derived height.
func (r RectangularAnnulus) InnerSize() (float64, float64) { return r.inner.Size() }

// OuterSize returns the outer boundary's width and height.
func (r RectangularAnnulus) OuterSize() (float64, float64) { return r.outer.Size() }

// Theta returns the rotation in degrees, in [0, 360).
func (r RectangularAnnulus) Theta() float64 { return r.outer.Theta() }

// Area returns the frame area.
func (r RectangularAnnulus) Area() float64 { return r.outer.Area() - r.inner.Area() }

// BBox returns the outer rectangle's bounds.
func (r RectangularAnnulus) BBox() BBox { return r.outer.BBox() }

// Classify composes the outer and inner classifications by the
// outer-minus-inner rule; any disagreement is Partial.
func (r RectangularAnnulus) Classify(x, y int) PixelClass {
	return annulusClassify(r.outer.Classify(x, y), r.inner.Classify(x, y))
}

// Overlap returns the outer fraction minus the inner fraction.
func (r RectangularAnnulus) Overlap(x, y int, m Method) float64 {
	return clamp01(r.outer.Overlap(x, y, m) - r.inner.Overlap(x, y, m))
}
