package imaging

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func rampFrame(rows, cols int) *Frame {
	data := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			data.Set(r, c, float64(r*cols+c))
		}
	}
	return &Frame{Data: data, Info: Info{Width: cols, Height: rows, Format: "fits"}}
}

func decodeCutout(t *testing.T, res *CutoutResult) {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("invalid png payload: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != res.Width || b.Dy() != res.Height {
		t.Errorf("payload %dx%d does not match reported %dx%d", b.Dx(), b.Dy(), res.Width, res.Height)
	}
}

func TestCutoutFullFrame(t *testing.T) {
	fr := rampFrame(6, 8)

	res, err := Cutout(fr, 0, 0, 8, 6, 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Width != 8 || res.Height != 6 {
		t.Errorf("size: got %dx%d, want 8x6", res.Width, res.Height)
	}
	if res.Low != 0 || res.High != 47 {
		t.Errorf("stretch: got [%v,%v], want [0,47]", res.Low, res.High)
	}
	if res.MimeType != "image/png" {
		t.Errorf("mime type: got %q", res.MimeType)
	}
	decodeCutout(t, res)
}

func TestCutoutRegionAndScale(t *testing.T) {
	fr := rampFrame(10, 10)

	res, err := Cutout(fr, 2, 2, 6, 8, 2)
	if err != nil {
		t.Fatal(err)
	}
	if res.Width != 8 || res.Height != 12 {
		t.Errorf("scaled size: got %dx%d, want 8x12", res.Width, res.Height)
	}
	decodeCutout(t, res)
}

func TestCutoutFlatRegion(t *testing.T) {
	fr := &Frame{Data: mat.NewDense(4, 4, nil)}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			fr.Data.Set(r, c, 3)
		}
	}

	res, err := Cutout(fr, 0, 0, 4, 4, 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Low != 3 || res.High != 3 {
		t.Errorf("flat stretch: got [%v,%v], want [3,3]", res.Low, res.High)
	}
	decodeCutout(t, res)
}

func TestCutoutValidation(t *testing.T) {
	fr := rampFrame(5, 5)

	tests := []struct {
		name           string
		x1, y1, x2, y2 int
	}{
		{"out_of_bounds", -1, 0, 5, 5},
		{"past_edge", 0, 0, 6, 5},
		{"inverted", 3, 3, 3, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Cutout(fr, tt.x1, tt.y1, tt.x2, tt.y2, 1); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
