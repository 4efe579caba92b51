package geometry

import "math"

// tol absorbs floating-point noise in boundary comparisons. Points closer to a
// boundary than this are treated as lying on it.
const tol = 1e-10

// CircleRectOverlap returns the area of overlap between the rectangle
// [x0,x1]x[y0,y1] and a circle of radius r centered at the origin.
//
// The result is exact up to floating-point rounding: disjoint configurations
// return exactly 0 and a fully contained rectangle returns exactly
// (x1-x0)*(y1-y0). A non-positive radius yields 0.
func CircleRectOverlap(x0, y0, x1, y1, r float64) float64 {
	if r <= 0 {
		return 0
	}
	r2 := r * r

	// Farthest corner inside: the whole rectangle is covered.
	fx := math.Max(math.Abs(x0), math.Abs(x1))
	fy := math.Max(math.Abs(y0), math.Abs(y1))
	if fx*fx+fy*fy <= r2 {
		return (x1 - x0) * (y1 - y0)
	}

	// Nearest point of the rectangle outside: no overlap at all.
	nx := nearestCoord(x0, x1)
	ny := nearestCoord(y0, y1)
	if nx*nx+ny*ny >= r2 {
		return 0
	}

	return circleRectQuadrants(x0, y0, x1, y1, r)
}

// nearestCoord returns the coordinate of the interval [lo,hi] closest to 0.
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

// circleRectQuadrants reduces an arbitrary rectangle to first-quadrant pieces
// by recursive splitting along the coordinate axes. Pieces in other quadrants
// are reflected into the first quadrant, which leaves the overlap with the
// origin-centered circle unchanged.
func circleRectQuadrants(xmin, ymin, xmax, ymax, r float64) float64 {
	switch {
	case xmin >= 0:
		switch {
		case ymin >= 0:
			return circleRectCore(xmin, ymin, xmax, ymax, r)
		case ymax <= 0:
			return circleRectCore(-ymax, xmin, -ymin, xmax, r)
		default:
			return circleRectQuadrants(xmin, ymin, xmax, 0, r) +
				circleRectQuadrants(xmin, 0, xmax, ymax, r)
		}
	case xmax <= 0:
		switch {
		case ymin >= 0:
			return circleRectCore(-xmax, ymin, -xmin, ymax, r)
		case ymax <= 0:
			return circleRectCore(-xmax, -ymax, -xmin, -ymin, r)
		default:
			return circleRectQuadrants(xmin, ymin, xmax, 0, r) +
				circleRectQuadrants(xmin, 0, xmax, ymax, r)
		}
	default:
		switch {
		case ymin >= 0, ymax <= 0:
			return circleRectQuadrants(xmin, ymin, 0, ymax, r) +
				circleRectQuadrants(0, ymin, xmax, ymax, r)
		default:
			return circleRectQuadrants(xmin, ymin, 0, 0, r) +
				circleRectQuadrants(0, ymin, xmax, 0, r) +
				circleRectQuadrants(xmin, 0, 0, ymax, r) +
				circleRectQuadrants(0, 0, xmax, ymax, r)
		}
	}
}

// circleRectCore handles a rectangle lying entirely in the first quadrant
// (0 <= xmin <= xmax, 0 <= ymin <= ymax). The circle boundary enters and
// leaves the rectangle through exactly two of its edges; each of the four
// possible edge pairs reduces to a rectangle or trapezoid, a triangle, and a
// circular segment.
func circleRectCore(xmin, ymin, xmax, ymax, r float64) float64 {
	r2 := r * r
	if xmin*xmin+ymin*ymin >= r2 {
		return 0
	}
	if xmax*xmax+ymax*ymax <= r2 {
		return (xmax - xmin) * (ymax - ymin)
	}

	// d1: bottom-right corner, d2: top-left corner.
	d1in := xmax*xmax+ymin*ymin < r2
	d2in := xmin*xmin+ymax*ymax < r2

	switch {
	case d1in && d2in:
		// Boundary crosses the top and right edges; only the far corner pokes
		// out. Full rectangle minus the corner triangle plus the segment.
		x1, y1 := floorSqrt(r2-ymax*ymax), ymax
		x2, y2 := xmax, floorSqrt(r2-xmax*xmax)
		return (xmax-xmin)*(ymax-ymin) -
			triangleArea(x1, y1, x2, y2, xmax, ymax) +
			segmentArea(x1, y1, x2, y2, r)
	case d1in:
		// Boundary crosses the left and right edges.
		x1, y1 := xmin, floorSqrt(r2-xmin*xmin)
		x2, y2 := xmax, floorSqrt(r2-xmax*xmax)
		return segmentArea(x1, y1, x2, y2, r) +
			triangleArea(x1, y1, x1, ymin, xmax, ymin) +
			triangleArea(x1, y1, xmax, ymin, x2, y2)
	case d2in:
		// Boundary crosses the bottom and top edges.
		x1, y1 := floorSqrt(r2-ymin*ymin), ymin
		x2, y2 := floorSqrt(r2-ymax*ymax), ymax
		return segmentArea(x1, y1, x2, y2, r) +
			triangleArea(x1, y1, xmin, ymin, xmin, ymax) +
			triangleArea(x1, y1, xmin, ymax, x2, y2)
	default:
		// Only the near corner is inside: boundary crosses the bottom and
		// left edges.
		x1, y1 := floorSqrt(r2-ymin*ymin), ymin
		x2, y2 := xmin, floorSqrt(r2-xmin*xmin)
		return segmentArea(x1, y1, x2, y2, r) +
			triangleArea(x1, y1, x2, y2, xmin, ymin)
	}
}

// floorSqrt is a square root clamped against tiny negative arguments that
// arise from cancellation near the circle boundary.
func floorSqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Sqrt(x)
}

// segmentArea returns the area of the circular segment cut off by the chord
// from (x1,y1) to (x2,y2) on a circle of radius r centered at the origin.
// Both points are expected to lie on the circle.
func segmentArea(x1, y1, x2, y2, r float64) float64 {
	halfChord := 0.5 * math.Hypot(x2-x1, y2-y1)
	s := halfChord / r
	if s > 1 {
		s = 1
	}
	theta := 2 * math.Asin(s)
	return 0.5 * r * r * (theta - math.Sin(theta))
}

// triangleArea returns the unsigned area of the triangle (x1,y1),(x2,y2),(x3,y3).
func triangleArea(x1, y1, x2, y2, x3, y3 float64) float64 {
	return 0.5 * math.Abs((x2-x1)*(y3-y1)-(x3-x1)*(y2-y1))
}
