package geometry

// SubpixelOverlap estimates the area of overlap between the rectangle
// [x0,x1]x[y0,y1] and an arbitrary shape given only by an inside-test
// predicate. The rectangle is divided into an n-by-n grid and the center of
// each cell is tested; the covered fraction times the rectangle area is
// returned.
//
// n=1 is "center" mode: the whole rectangle is attributed to the shape when
// its center lies inside, and nothing otherwise. The estimate converges to
// the exact overlap as n grows, with error O(1/n) on boundary rectangles.
func SubpixelOverlap(x0, y0, x1, y1 float64, n int, inside func(x, y float64) bool) float64 {
	if n < 1 {
		n = 1
	}
	dx := (x1 - x0) / float64(n)
	dy := (y1 - y0) / float64(n)
	if dx <= 0 || dy <= 0 {
		return 0
	}

	hits := 0
	for j := 0; j < n; j++ {
		sy := y0 + (float64(j)+0.5)*dy
		for i := 0; i < n; i++ {
			sx := x0 + (float64(i)+0.5)*dx
			if inside(sx, sy) {
				hits++
			}
		}
	}
	return float64(hits) / float64(n*n) * (x1 - x0) * (y1 - y0)
}
