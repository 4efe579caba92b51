package geometry

import "math"

// EllipseRectOverlap returns the area of overlap between the rectangle
// [x0,x1]x[y0,y1] and an ellipse centered at the origin with semi-axes a and b
// and rotation theta (radians, counterclockwise from the x axis).
//
// The four rectangle corners are mapped through the inverse affine transform
// of the ellipse, which turns the ellipse into the unit circle and the
// rectangle into a quadrilateral. The quadrilateral is split into two
// triangles, each triangle-disk overlap is computed exactly, and the sum is
// rescaled by the Jacobian a*b.
func EllipseRectOverlap(x0, y0, x1, y1, a, b, theta float64) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	cos, sin := math.Cos(theta), math.Sin(theta)

	// Inverse map: rotate by -theta, then scale axes to unit length.
	ux := func(x, y float64) float64 { return (x*cos + y*sin) / a }
	uy := func(x, y float64) float64 { return (y*cos - x*sin) / b }

	// Corners in counterclockwise order.
	qx := [4]float64{ux(x0, y0), ux(x1, y0), ux(x1, y1), ux(x0, y1)}
	qy := [4]float64{uy(x0, y0), uy(x1, y0), uy(x1, y1), uy(x0, y1)}

	// Fully contained: all corners inside the unit circle (the disk is
	// convex, so the whole quadrilateral is inside).
	contained := true
	for i := 0; i < 4; i++ {
		if qx[i]*qx[i]+qy[i]*qy[i] > 1 {
			contained = false
			break
		}
	}
	if contained {
		return (x1 - x0) * (y1 - y0)
	}

	if UnitCircleQuadDisjoint(qx, qy) {
		return 0
	}

	area := TriangleUnitCircleOverlap(qx[0], qy[0], qx[1], qy[1], qx[2], qy[2]) +
		TriangleUnitCircleOverlap(qx[2], qy[2], qx[3], qy[3], qx[0], qy[0])
	return area * a * b
}

// UnitCircleQuadDisjoint reports whether a quadrilateral (corners in order)
// lies entirely outside the unit disk centered at the origin.
func UnitCircleQuadDisjoint(qx, qy [4]float64) bool {
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		if segmentDistToOrigin(qx[i], qy[i], qx[j], qy[j]) < 1+tol {
			return false
		}
	}
	// No edge touches the disk; the disk can still be wholly inside the quad.
	return !originInQuad(qx, qy)
}

// segmentDistToOrigin returns the distance from the origin to the closest
// point of the segment (ax,ay)-(bx,by).
func segmentDistToOrigin(ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	dd := dx*dx + dy*dy
	if dd < tol*tol {
		return math.Hypot(ax, ay)
	}
	t := -(ax*dx + ay*dy) / dd
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(ax+t*dx, ay+t*dy)
}

// originInQuad reports whether the origin is strictly inside the
// quadrilateral. The corners must be in consistent (cw or ccw) order.
func originInQuad(qx, qy [4]float64) bool {
	var pos, neg bool
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		cross := qx[i]*(qy[j]-qy[i]) - qy[i]*(qx[j]-qx[i])
		if cross > 0 {
			pos = true
		} else if cross < 0 {
			neg = true
		}
	}
	return !(pos && neg)
}

// TriangleUnitCircleOverlap returns the area of overlap between the triangle
// (x1,y1),(x2,y2),(x3,y3) and the unit disk centered at the origin.
//
// Each directed edge contributes a signed area by Green's theorem: the part
// of the edge inside the disk contributes the triangle it spans with the
// origin, and the part outside contributes the circular sector swept between
// its endpoint directions. Edges are recursively split at their circle
// crossings until each piece lies wholly inside or outside, so vertices on
// the boundary and 0, 1, or 2 crossings per edge all reduce to the same two
// closed forms.
func TriangleUnitCircleOverlap(x1, y1, x2, y2, x3, y3 float64) float64 {
	s := edgeDiskContribution(x1, y1, x2, y2) +
		edgeDiskContribution(x2, y2, x3, y3) +
		edgeDiskContribution(x3, y3, x1, y1)
	return math.Abs(s)
}

// edgeDiskContribution returns the signed contribution of the directed edge
// (ax,ay)->(bx,by) to the area of triangle-disk overlap.
func edgeDiskContribution(ax, ay, bx, by float64) float64 {
	t1, t2, n := segmentCircleCrossings(ax, ay, bx, by)
	switch n {
	case 2:
		px, py := ax+t1*(bx-ax), ay+t1*(by-ay)
		qx, qy := ax+t2*(bx-ax), ay+t2*(by-ay)
		return edgeDiskContribution(ax, ay, px, py) +
			0.5*(px*qy-py*qx) +
			edgeDiskContribution(qx, qy, bx, by)
	case 1:
		px, py := ax+t1*(bx-ax), ay+t1*(by-ay)
		return edgeDiskContribution(ax, ay, px, py) +
			edgeDiskContribution(px, py, bx, by)
	}

	// No interior crossing: the segment lies wholly on one side of the
	// circle. Classify by its midpoint, counting on-boundary as inside.
	mx, my := 0.5*(ax+bx), 0.5*(ay+by)
	if mx*mx+my*my <= 1+tol {
		return 0.5 * (ax*by - ay*bx)
	}
	// A segment outside the disk subtends less than pi from the origin, so
	// the signed sector angle is unambiguous.
	return 0.5 * math.Atan2(ax*by-ay*bx, ax*bx+ay*by)
}

// segmentCircleCrossings finds the parameters in (0,1) at which the segment
// (ax,ay)+t*(bx-ax,by-ay) crosses the unit circle. It returns up to two
// crossing parameters in ascending order and their count. Tangencies and
// crossings at the segment endpoints are not reported.
func segmentCircleCrossings(ax, ay, bx, by float64) (float64, float64, int) {
	dx, dy := bx-ax, by-ay
	aa := dx*dx + dy*dy
	if aa < tol*tol {
		return 0, 0, 0
	}
	bb := ax*dx + ay*dy
	cc := ax*ax + ay*ay - 1
	disc := bb*bb - aa*cc
	if disc <= tol {
		return 0, 0, 0
	}
	sq := math.Sqrt(disc)
	t1 := (-bb - sq) / aa
	t2 := (-bb + sq) / aa

	lo, hi := tol, 1-tol
	in1 := t1 > lo && t1 < hi
	in2 := t2 > lo && t2 < hi
	switch {
	case in1 && in2:
		return t1, t2, 2
	case in1:
		return t1, 0, 1
	case in2:
		return t2, 0, 1
	default:
		return 0, 0, 0
	}
}
