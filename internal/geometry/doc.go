// Package geometry computes exact overlap areas between axis-aligned pixel
// rectangles and aperture boundaries (circles, ellipses, rotated rectangles).
//
// All functions work in shape-local coordinates: the shape is centered at the
// origin and the pixel rectangle is given by its lower-left and upper-right
// corners. Callers translate pixel coordinates into this frame before calling.
//
// # Exact Methods
//
// Circle overlap uses quadrant reduction: the rectangle is split along the
// coordinate axes until each piece lies in the first quadrant, where a closed
// form combining rectangle, triangle, and circular-segment areas applies.
//
// Ellipse overlap maps the pixel corners through the inverse affine transform
// (rotate by -theta, scale by 1/a and 1/b), reducing the problem to a
// quadrilateral against the unit circle. The quadrilateral is split into two
// triangles and each triangle-disk overlap is evaluated by Green's theorem,
// with edges recursively split at their circle crossings.
//
// Rotated-rectangle overlap clips the rotated rectangle against the pixel with
// Sutherland-Hodgman and measures the result with the shoelace formula.
//
// # Sampling Method
//
// SubpixelOverlap estimates any shape's overlap from an NxN grid of
// sample-center inside tests. It converges to the exact result as N grows and
// serves as a cross-check and performance fallback.
//
// # Numerical Behavior
//
// All boundary comparisons use a small tolerance rather than strict equality.
// Degenerate shapes (zero radius or extent) yield zero area, never NaN or Inf.
// Disjoint configurations return exactly 0 and full containment returns
// exactly the rectangle area.
package geometry
