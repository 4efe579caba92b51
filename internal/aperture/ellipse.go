package aperture

import (
	"fmt"
	"math"

	"github.com/ironsheep/photometry-tools-mcp/internal/geometry"
)

// Ellipse is an elliptical aperture with semi-axes a and b centered at (x,y),
// rotated thetaDeg degrees counterclockwise from the x axis.
type Ellipse struct {
	x, y     float64
	a, b     float64
	thetaDeg float64
}

// NewEllipse validates and builds an elliptical aperture. Both semi-axes
// must be non-negative; the rotation angle is given in degrees and stored
// normalized to [0, 360).
func NewEllipse(x, y, a, b, thetaDeg float64) (Ellipse, error) {
	if a < 0 {
		return Ellipse{}, fmt.Errorf("ellipse semi-axis a must be non-negative, got %g", a)
	}
	if b < 0 {
		return Ellipse{}, fmt.Errorf("ellipse semi-axis b must be non-negative, got %g", b)
	}
	return Ellipse{x: x, y: y, a: a, b: b, thetaDeg: normalizeDeg(thetaDeg)}, nil
}

// Center returns the aperture center.
func (e Ellipse) Center() (float64, float64) { return e.x, e.y }

// SemiAxes returns the semi-axes (a, b).
func (e Ellipse) SemiAxes() (float64, float64) { return e.a, e.b }

// Theta returns the rotation in degrees, in [0, 360).
func (e Ellipse) Theta() float64 { return e.thetaDeg }

// Area returns pi*a*b.
func (e Ellipse) Area() float64 { return math.Pi * e.a * e.b }

func (e Ellipse) thetaRad() float64 { return e.thetaDeg * math.Pi / 180 }

// BBox returns the tight pixel bounds of the rotated ellipse. The boundary
// x(t) = a cosT cos t - b sinT sin t is extremized at tan t = -b sinT/(a cosT)
// (closed-form arctangent); evaluating there and at t+pi gives the horizontal
// half extent, and likewise for y.
func (e Ellipse) BBox() BBox {
	cosT, sinT := math.Cos(e.thetaRad()), math.Sin(e.thetaRad())

	tx := math.Atan2(-e.b*sinT, e.a*cosT)
	hw := math.Abs(e.a*cosT*math.Cos(tx) - e.b*sinT*math.Sin(tx))

	ty := math.Atan2(e.b*cosT, e.a*sinT)
	hh := math.Abs(e.a*sinT*math.Cos(ty) + e.b*cosT*math.Sin(ty))

	return boxAround(e.x, e.y, hw, hh)
}

// corners maps pixel (x,y)'s corners through the inverse affine transform of
// the ellipse, onto the frame where the boundary is the unit circle.
func (e Ellipse) corners(x, y int) (qx, qy [4]float64, ok bool) {
	if e.a <= 0 || e.b <= 0 {
		return qx, qy, false
	}
	cosT, sinT := math.Cos(e.thetaRad()), math.Sin(e.thetaRad())
	x0, y0, x1, y1 := pixelRect(x, y, e.x, e.y)

	cx := [4]float64{x0, x1, x1, x0}
	cy := [4]float64{y0, y0, y1, y1}
	for i := 0; i < 4; i++ {
		qx[i] = (cx[i]*cosT + cy[i]*sinT) / e.a
		qy[i] = (cy[i]*cosT - cx[i]*sinT) / e.b
	}
	return qx, qy, true
}

// Classify relates pixel (x,y) to the ellipse boundary by testing the
// oblique quadratic form at the four pixel corners.
func (e Ellipse) Classify(x, y int) PixelClass {
	qx, qy, ok := e.corners(x, y)
	if !ok {
		// Degenerate axis: the ellipse has zero area.
		return Outside
	}

	inside := true
	for i := 0; i < 4; i++ {
		if qx[i]*qx[i]+qy[i]*qy[i] > 1+tol {
			inside = false
			break
		}
	}
	if inside {
		return Inside
	}
	if geometry.UnitCircleQuadDisjoint(qx, qy) {
		return Outside
	}
	return Partial
}

// Overlap returns the covered fraction of pixel (x,y).
func (e Ellipse) Overlap(x, y int, m Method) float64 {
	x0, y0, x1, y1 := pixelRect(x, y, e.x, e.y)
	if m.IsExact() {
		return clamp01(geometry.EllipseRectOverlap(x0, y0, x1, y1, e.a, e.b, e.thetaRad()))
	}
	if e.a <= 0 || e.b <= 0 {
		return 0
	}
	cosT, sinT := math.Cos(e.thetaRad()), math.Sin(e.thetaRad())
	return clamp01(geometry.SubpixelOverlap(x0, y0, x1, y1, m.Subpixels(),
		func(px, py float64) bool {
			u := (px*cosT + py*sinT) / e.a
			v := (py*cosT - px*sinT) / e.b
			return u*u+v*v < 1
		}))
}

// EllipticalAnnulus is the ring between two concentric, co-rotated ellipses.
// Only the inner semi-major axis is free: the inner semi-minor axis is
// derived as (aIn/aOut)*bOut, which keeps the two boundaries similar and
// non-crossing by construction.
type EllipticalAnnulus struct {
	inner, outer Ellipse
}

// NewEllipticalAnnulus validates and builds an elliptical annulus.
func NewEllipticalAnnulus(x, y, aIn, aOut, bOut, thetaDeg float64) (EllipticalAnnulus, error) {
	if aIn < 0 {
		return EllipticalAnnulus{}, fmt.Errorf("annulus inner semi-axis must be non-negative, got %g", aIn)
	}
	if aOut < aIn {
		return EllipticalAnnulus{}, fmt.Errorf("annulus outer semi-axis %g smaller than inner semi-axis %g", aOut, aIn)
	}
	if bOut < 0 {
		return EllipticalAnnulus{}, fmt.Errorf("annulus outer semi-minor axis must be non-negative, got %g", bOut)
	}

	bIn := 0.0
	if aOut > 0 {
		bIn = aIn / aOut * bOut
	}
	theta := normalizeDeg(thetaDeg)
	return EllipticalAnnulus{
		inner: Ellipse{x: x, y: y, a: aIn, b: bIn, thetaDeg: theta},
		outer: Ellipse{x: x, y: y, a: aOut, b: bOut, thetaDeg: theta},
	}, nil
}

// Center returns the annulus center.
func (e EllipticalAnnulus) Center() (float64, float64) { return e.outer.Center() }

// InnerSemiAxes returns the inner boundary's semi-axes (aIn, derived bIn).
func (e EllipticalAnnulus) InnerSemiAxes() (float64, float64) { return e.inner.SemiAxes() }

// OuterSemiAxes returns the outer boundary's semi-axes.
func (e EllipticalAnnulus) OuterSemiAxes() (float64, float64) { return e.outer.SemiAxes() }

// Theta returns the rotation in degrees, in [0, 360).
func (e EllipticalAnnulus) Theta() float64 { return e.outer.Theta() }

// Area returns the ring area.
func (e EllipticalAnnulus) Area() float64 { return e.outer.Area() - e.inner.Area() }

// BBox returns the outer ellipse's bounds.
func (e EllipticalAnnulus) BBox() BBox { return e.outer.BBox() }

// Classify composes the outer and inner classifications by the
// outer-minus-inner rule; any disagreement is Partial.
func (e EllipticalAnnulus) Classify(x, y int) PixelClass {
	return annulusClassify(e.outer.Classify(x, y), e.inner.Classify(x, y))
}

// Overlap returns the outer fraction minus the inner fraction.
func (e EllipticalAnnulus) Overlap(x, y int, m Method) float64 {
	return clamp01(e.outer.Overlap(x, y, m) - e.inner.Overlap(x, y, m))
}
