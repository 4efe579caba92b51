package photometry

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/photometry-tools-mcp/internal/aperture"
)

// Result holds the measurement of one aperture on one data array.
type Result struct {
	// XCenter and YCenter echo the aperture center, in pixel coordinates.
	XCenter float64 `json:"x_center"`
	YCenter float64 `json:"y_center"`

	// ApertureSum is the weighted sum of data values under the aperture.
	ApertureSum float64 `json:"aperture_sum"`

	// ApertureSumErr is the propagated 1-sigma uncertainty of the sum. Nil
	// when no uncertainty array was supplied; NaN when the aperture had no
	// on-array pixel to measure.
	ApertureSumErr *float64 `json:"aperture_sum_err,omitempty"`

	// CustomStat is the value of the caller's reduction over the weighted
	// cutout, when one was requested.
	CustomStat *float64 `json:"custom_stat,omitempty"`
}

// Options selects how a measurement is evaluated.
type Options struct {
	// Method chooses the overlap evaluation; the zero value is exact
	// geometric overlap.
	Method aperture.Method

	// Reduce, when non-nil, receives the weighted pixel values of the
	// on-array cutout (weight times data, boundary pixels partial) and its
	// result is reported as CustomStat. The slice is only valid during the
	// call.
	Reduce func(values []float64) float64

	// Workers bounds the MeasureAll pool size; zero means one worker per
	// CPU.
	Workers int
}

// Measure computes the weighted sum of data under ap.
//
// stddev, when non-nil, must match data's dimensions and holds each pixel's
// standard deviation; the result then carries the propagated uncertainty of
// the sum.
func Measure(data, stddev mat.Matrix, ap aperture.Aperture, opts Options) (Result, error) {
	rows, cols := data.Dims()
	if stddev != nil {
		if er, ec := stddev.Dims(); er != rows || ec != cols {
			return Result{}, fmt.Errorf("stddev dimensions %dx%d do not match data %dx%d", er, ec, rows, cols)
		}
	}

	x, y := ap.Center()
	res := Result{XCenter: x, YCenter: y}

	// A degenerate aperture covers nothing by construction, wherever it
	// sits. Checked before clipping so a zero-size aperture off the array
	// still reads as "measured nothing" rather than "nothing to measure".
	if ap.Area() == 0 {
		if stddev != nil {
			res.ApertureSumErr = newFloat(0)
		}
		if opts.Reduce != nil {
			res.CustomStat = newFloat(opts.Reduce(nil))
		}
		return res, nil
	}

	mask := aperture.NewMask(ap, opts.Method)
	box, ok := mask.BBox().Intersect(aperture.DataBBox(rows, cols))
	if !ok {
		if stddev != nil {
			res.ApertureSumErr = newFloat(math.NaN())
		}
		if opts.Reduce != nil {
			res.CustomStat = newFloat(math.NaN())
		}
		return res, nil
	}

	var sum, variance float64
	var weighted []float64
	if opts.Reduce != nil {
		weighted = make([]float64, 0, box.Width()*box.Height())
	}

	for py := box.YMin; py <= box.YMax; py++ {
		for px := box.XMin; px <= box.XMax; px++ {
			w := mask.WeightAt(px, py)
			if w == 0 {
				continue
			}
			v := w * data.At(py-1, px-1)
			sum += v
			if stddev != nil {
				e := stddev.At(py-1, px-1)
				variance += w * e * e
			}
			if weighted != nil {
				weighted = append(weighted, v)
			}
		}
	}

	res.ApertureSum = sum
	if stddev != nil {
		res.ApertureSumErr = newFloat(math.Sqrt(variance))
	}
	if opts.Reduce != nil {
		res.CustomStat = newFloat(opts.Reduce(weighted))
	}
	return res, nil
}

// MeasureAll measures every aperture against the same data array, spreading
// the work over a small pool. Results come back indexed like the input; one
// aperture falling off the array does not disturb its neighbors.
func MeasureAll(data, stddev mat.Matrix, aps []aperture.Aperture, opts Options) ([]Result, error) {
	rows, cols := data.Dims()
	if stddev != nil {
		if er, ec := stddev.Dims(); er != rows || ec != cols {
			return nil, fmt.Errorf("stddev dimensions %dx%d do not match data %dx%d", er, ec, rows, cols)
		}
	}
	if len(aps) == 0 {
		return nil, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(aps) {
		workers = len(aps)
	}

	results := make([]Result, len(aps))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Dimensions were validated once up front, so the
				// per-aperture call cannot fail.
				results[i], _ = Measure(data, stddev, aps[i], opts)
			}
		}()
	}
	for i := range aps {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results, nil
}

func newFloat(v float64) *float64 { return &v }
