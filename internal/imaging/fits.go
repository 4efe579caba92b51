package imaging

import (
	"fmt"
	"os"

	"github.com/astrogo/fitsio"
	"gonum.org/v1/gonum/mat"
)

// loadFITS reads the primary image HDU of a FITS file into a dense array of
// float64 samples. Integer and floating-point BITPIX values are all
// supported; samples are converted but otherwise untouched.
//
// FITS stores images bottom-up with the first axis fastest, which matches
// the matrix layout directly: no row flip is needed.
func loadFITS(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FITS file: %w", err)
	}
	defer f.Close()

	fits, err := fitsio.Open(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse FITS file: %w", err)
	}
	defer fits.Close()

	hdu := fits.HDU(0)
	img, ok := hdu.(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("primary HDU of %q is not an image", path)
	}

	hdr := img.Header()
	axes := hdr.Axes()
	nx, ny, err := planeDims(axes)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}

	bitpix := hdr.Bitpix()
	raw, err := readSamples(img, bitpix, nx*ny)
	if err != nil {
		return nil, fmt.Errorf("failed to read FITS data from %q: %w", path, err)
	}

	bitDepth := bitpix
	if bitDepth < 0 {
		bitDepth = -bitDepth
	}

	return &Frame{
		Data: mat.NewDense(ny, nx, raw),
		Info: Info{
			Width:    nx,
			Height:   ny,
			Format:   "fits",
			BitDepth: bitDepth,
		},
	}, nil
}

// planeDims extracts the 2D plane dimensions from NAXIS. Trailing axes of
// length one (degenerate cube dimensions) are tolerated.
func planeDims(axes []int) (nx, ny int, err error) {
	if len(axes) < 2 {
		return 0, 0, fmt.Errorf("image has %d axes, need 2", len(axes))
	}
	for _, n := range axes[2:] {
		if n > 1 {
			return 0, 0, fmt.Errorf("image is a cube with axes %v, only 2D images are supported", axes)
		}
	}
	return axes[0], axes[1], nil
}

// readSamples reads n samples of the HDU's native type and widens them to
// float64. Sample order is preserved: index j*nx+i is pixel (i+1, j+1).
func readSamples(img fitsio.Image, bitpix, n int) ([]float64, error) {
	out := make([]float64, n)

	switch bitpix {
	case 8:
		raw := make([]int8, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float64(v)
		}
	case 16:
		raw := make([]int16, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float64(v)
		}
	case 32:
		raw := make([]int32, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float64(v)
		}
	case 64:
		raw := make([]int64, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float64(v)
		}
	case -32:
		raw := make([]float32, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float64(v)
		}
	case -64:
		if err := img.Read(&out); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d", bitpix)
	}

	return out, nil
}
