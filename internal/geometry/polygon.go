package geometry

import "math"

// RectRectOverlap returns the area of overlap between the axis-aligned
// rectangle [x0,x1]x[y0,y1] and a w-by-h rectangle centered at the origin,
// rotated by theta (radians, counterclockwise).
//
// Both rectangles are convex polygons, so the overlap is their exact polygon
// intersection: the rotated rectangle is clipped against the four half-planes
// of the axis-aligned one and the remainder is measured with the shoelace
// formula.
func RectRectOverlap(x0, y0, x1, y1, w, h, theta float64) float64 {
	if w <= 0 || h <= 0 {
		return 0
	}
	cos, sin := math.Cos(theta), math.Sin(theta)
	hw, hh := 0.5*w, 0.5*h

	// Rotated rectangle corners, counterclockwise.
	poly := []vertex{
		{hw*cos - hh*sin, hw*sin + hh*cos},
		{-hw*cos - hh*sin, -hw*sin + hh*cos},
		{-hw*cos + hh*sin, -hw*sin - hh*cos},
		{hw*cos + hh*sin, hw*sin - hh*cos},
	}

	// Fully contained pixel: every pixel corner maps inside the rotated
	// rectangle's local bounds.
	if rectContainsRect(x0, y0, x1, y1, hw, hh, cos, sin) {
		return (x1 - x0) * (y1 - y0)
	}

	poly = clipHalfPlane(poly, func(v vertex) float64 { return v.x - x0 })
	poly = clipHalfPlane(poly, func(v vertex) float64 { return x1 - v.x })
	poly = clipHalfPlane(poly, func(v vertex) float64 { return v.y - y0 })
	poly = clipHalfPlane(poly, func(v vertex) float64 { return y1 - v.y })
	return polygonArea(poly)
}

type vertex struct{ x, y float64 }

// rectContainsRect reports whether all four corners of [x0,x1]x[y0,y1] fall
// inside the rotated rectangle with half extents (hw,hh).
func rectContainsRect(x0, y0, x1, y1, hw, hh, cos, sin float64) bool {
	for _, c := range [4]vertex{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}} {
		u := c.x*cos + c.y*sin
		v := c.y*cos - c.x*sin
		if math.Abs(u) > hw || math.Abs(v) > hh {
			return false
		}
	}
	return true
}

// clipHalfPlane clips a polygon against the half-plane where dist >= 0
// (Sutherland-Hodgman, one edge at a time).
func clipHalfPlane(poly []vertex, dist func(vertex) float64) []vertex {
	if len(poly) == 0 {
		return poly
	}
	out := make([]vertex, 0, len(poly)+2)
	prev := poly[len(poly)-1]
	dPrev := dist(prev)
	for _, cur := range poly {
		dCur := dist(cur)
		if dCur >= 0 {
			if dPrev < 0 {
				out = append(out, intersect(prev, cur, dPrev, dCur))
			}
			out = append(out, cur)
		} else if dPrev >= 0 {
			out = append(out, intersect(prev, cur, dPrev, dCur))
		}
		prev, dPrev = cur, dCur
	}
	return out
}

// intersect returns the point on segment a-b where the signed distance
// interpolates to zero. da and db must have opposite signs.
func intersect(a, b vertex, da, db float64) vertex {
	t := da / (da - db)
	return vertex{a.x + t*(b.x-a.x), a.y + t*(b.y-a.y)}
}

// polygonArea returns the unsigned area of a simple polygon (shoelace).
func polygonArea(poly []vertex) float64 {
	if len(poly) < 3 {
		return 0
	}
	var s float64
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		s += p.x*q.y - q.x*p.y
	}
	return 0.5 * math.Abs(s)
}
