package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"
)

// CutoutResult is a rendered quicklook of a frame region, encoded as a
// base64 PNG for transport.
type CutoutResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`

	// Low and High are the sample values mapped to black and white.
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Cutout renders a rectangular region of a frame as an 8-bit grayscale PNG,
// stretched linearly between the region's minimum and maximum sample values.
//
// The region is given in 0-based array indices, half-open: columns
// [x1, x2) and rows [y1, y2) of the matrix. A scale other than 1 resizes
// the rendered cutout with Lanczos resampling.
func Cutout(fr *Frame, x1, y1, x2, y2 int, scale float64) (*CutoutResult, error) {
	rows, cols := fr.Data.Dims()

	if x1 < 0 || y1 < 0 || x2 > cols || y2 > rows {
		return nil, fmt.Errorf("cutout region (%d,%d)-(%d,%d) outside frame bounds %dx%d",
			x1, y1, x2, y2, cols, rows)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid cutout region: x1 must be < x2, y1 must be < y2")
	}

	lo, hi := regionRange(fr.Data, x1, y1, x2, y2)

	// Render the full frame once so the crop keeps ordinary image
	// coordinates; matrix row 0 is the bottom, so rows flip here.
	gray := image.NewGray(image.Rect(0, 0, cols, rows))
	span := hi - lo
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := fr.Data.At(r, c)
			var level uint8
			switch {
			case math.IsNaN(v) || v <= lo:
				level = 0
			case span == 0 || v >= hi:
				level = 255
			default:
				level = uint8(255 * (v - lo) / span)
			}
			gray.SetGray(c, rows-1-r, color.Gray{Y: level})
		}
	}

	rect := image.Rect(x1, rows-y2, x2, rows-y1)
	cropped := imaging.Crop(gray, rect)

	if scale > 0 && scale != 1.0 {
		newW := int(float64(cropped.Bounds().Dx()) * scale)
		newH := int(float64(cropped.Bounds().Dy()) * scale)
		cropped = imaging.Resize(cropped, newW, newH, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cutout: %w", err)
	}

	return &CutoutResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Low:         lo,
		High:        hi,
	}, nil
}

// regionRange scans the region for its finite minimum and maximum.
func regionRange(data *mat.Dense, x1, y1, x2, y2 int) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for r := y1; r < y2; r++ {
		for c := x1; c < x2; c++ {
			v := data.At(r, c)
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		lo, hi = 0, 0
	}
	return lo, hi
}
