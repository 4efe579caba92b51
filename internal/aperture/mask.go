package aperture

import "gonum.org/v1/gonum/mat"

// Mask presents an aperture, bound to an overlap method, as a lazily
// evaluated 2D weight field. No weight array is ever materialized: every
// access recomputes the pixel's classification and, for boundary pixels, its
// overlap fraction.
type Mask struct {
	ap   Aperture
	m    Method
	bbox BBox
}

// NewMask wraps an aperture with an overlap method.
func NewMask(ap Aperture, m Method) Mask {
	return Mask{ap: ap, m: m, bbox: ap.BBox()}
}

// Aperture returns the wrapped aperture.
func (k Mask) Aperture() Aperture { return k.ap }

// Method returns the overlap method the mask evaluates with.
func (k Mask) Method() Method { return k.m }

// BBox returns the pixel bounds outside of which every weight is zero.
func (k Mask) BBox() BBox { return k.bbox }

// WeightAt returns the weight of pixel (x,y) in [0,1]. Coordinates outside
// the bounding box return 0.0 rather than an error, so a mask can be combined
// with arrays of arbitrary size.
func (k Mask) WeightAt(x, y int) float64 {
	if !k.bbox.Contains(x, y) {
		return 0
	}
	switch k.ap.Classify(x, y) {
	case Inside:
		return 1
	case Outside:
		return 0
	default:
		return k.ap.Overlap(x, y, k.m)
	}
}

// Multiply computes the element-wise product of the mask weights and a data
// array over the intersection of their index ranges. It returns the product
// as a dense cutout the size of the intersection together with the
// intersection box; ok is false when the ranges do not meet.
//
// Data element (row, col) corresponds to pixel (col+1, row+1) under the
// package's 1-based bottom-left convention, so the operation is commutative:
// the same cutout results no matter which operand is considered "first".
func (k Mask) Multiply(data mat.Matrix) (cutout *mat.Dense, box BBox, ok bool) {
	rows, cols := data.Dims()
	box, ok = k.bbox.Intersect(DataBBox(rows, cols))
	if !ok {
		return nil, BBox{}, false
	}

	cutout = mat.NewDense(box.Height(), box.Width(), nil)
	for y := box.YMin; y <= box.YMax; y++ {
		for x := box.XMin; x <= box.XMax; x++ {
			w := k.WeightAt(x, y)
			if w == 0 {
				continue
			}
			cutout.Set(y-box.YMin, x-box.XMin, w*data.At(y-1, x-1))
		}
	}
	return cutout, box, true
}
