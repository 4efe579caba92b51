package imaging

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"
)

// LoadRegion loads only a rectangular region of an image as a sample matrix.
// The region is given in 0-based array indices, half-open: columns [x1, x2)
// and rows [y1, y2) under the bottom-left convention.
//
// For raster files the region is cropped before luminance conversion, so
// large frames never pay for a full conversion; cached frames and FITS files
// are sliced from the decoded array instead. The returned matrix is a copy
// and is safe to modify.
func LoadRegion(c *FrameCache, path string, x1, y1, x2, y2 int) (*mat.Dense, error) {
	if fr := c.cached(path); fr != nil || isFITSPath(path) {
		if fr == nil {
			var err error
			fr, err = c.Load(path)
			if err != nil {
				return nil, err
			}
		}
		return sliceFrame(fr, x1, y1, x2, y2)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if err := checkRegion(x1, y1, x2, y2, w, h); err != nil {
		return nil, err
	}

	// Array row y counts from the bottom; image rows count from the top.
	rect := image.Rect(bounds.Min.X+x1, bounds.Min.Y+h-y2, bounds.Min.X+x2, bounds.Min.Y+h-y1)
	cropped := imaging.Crop(img, rect)

	cb := cropped.Bounds()
	rw, rh := cb.Dx(), cb.Dy()
	data := mat.NewDense(rh, rw, nil)
	for iy := 0; iy < rh; iy++ {
		for ix := 0; ix < rw; ix++ {
			data.Set(rh-1-iy, ix, luminanceAt(cropped, cb.Min.X+ix, cb.Min.Y+iy))
		}
	}
	return data, nil
}

// cached returns the frame for path if it is already in the cache.
func (c *FrameCache) cached(path string) *Frame {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frames[path]
}

func checkRegion(x1, y1, x2, y2, w, h int) error {
	if x1 < 0 || y1 < 0 || x2 > w || y2 > h {
		return fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds %dx%d", x1, y1, x2, y2, w, h)
	}
	if x1 >= x2 || y1 >= y2 {
		return fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
	}
	return nil
}

func sliceFrame(fr *Frame, x1, y1, x2, y2 int) (*mat.Dense, error) {
	rows, cols := fr.Data.Dims()
	if err := checkRegion(x1, y1, x2, y2, cols, rows); err != nil {
		return nil, err
	}

	out := mat.NewDense(y2-y1, x2-x1, nil)
	out.Copy(fr.Data.Slice(y1, y2, x1, x2))
	return out, nil
}
