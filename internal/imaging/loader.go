package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/mat"
)

// Frame is a decoded image ready for measurement: a dense 2D array of
// float64 samples plus the source metadata.
//
// Row 0 of the matrix is the BOTTOM image row, matching the 1-based
// bottom-left pixel convention of the aperture and photometry packages:
// matrix element (row, col) is pixel (col+1, row+1).
//
// Raster formats (PNG, JPEG, GIF) are reduced to relative luminance in
// [0, 1]; FITS images keep their native sample values.
type Frame struct {
	Data *mat.Dense
	Info Info
}

// Info describes a loaded image file.
type Info struct {
	// Width and Height are the array dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is the detected source format: "png", "jpeg", "gif", "fits",
	// or "unknown". Detection is based on file extension.
	Format string `json:"format"`

	// BitDepth is the bits per sample of the source file. For FITS this is
	// the magnitude of BITPIX; raster formats report 8 or 16.
	BitDepth int `json:"bit_depth"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// FrameCache provides thread-safe caching of decoded frames to avoid
// redundant disk reads and luminance conversions.
//
// Frames are keyed by the exact path string given to Load; different paths
// to the same file result in separate entries. Cached frames remain in
// memory until Evict or Clear is called.
//
// FrameCache is safe for concurrent use by multiple goroutines.
type FrameCache struct {
	mu     sync.RWMutex
	frames map[string]*Frame
}

// NewFrameCache creates an empty frame cache ready for use.
func NewFrameCache() *FrameCache {
	return &FrameCache{
		frames: make(map[string]*Frame),
	}
}

// Load retrieves a frame from the cache or reads and decodes it from disk.
//
// FITS files (.fits, .fit, .fts) are read through their primary image HDU
// and keep native sample values. Everything else goes through the standard
// raster decoders and is converted to relative luminance.
//
// Callers must treat the returned frame as read-only; it is shared with
// every other caller of the same path.
func (c *FrameCache) Load(path string) (*Frame, error) {
	c.mu.RLock()
	if fr, ok := c.frames[path]; ok {
		c.mu.RUnlock()
		return fr, nil
	}
	c.mu.RUnlock()

	var (
		fr  *Frame
		err error
	)
	if isFITSPath(path) {
		fr, err = loadFITS(path)
	} else {
		fr, err = loadRaster(path)
	}
	if err != nil {
		return nil, err
	}

	if stat, err := os.Stat(path); err == nil {
		fr.Info.FileSizeBytes = stat.Size()
	}

	c.mu.Lock()
	c.frames[path] = fr
	c.mu.Unlock()

	return fr, nil
}

// Clear removes every frame from the cache, freeing the associated memory.
func (c *FrameCache) Clear() {
	c.mu.Lock()
	c.frames = make(map[string]*Frame)
	c.mu.Unlock()
}

// Evict removes a single frame by its path. Unknown paths are ignored.
func (c *FrameCache) Evict(path string) {
	c.mu.Lock()
	delete(c.frames, path)
	c.mu.Unlock()
}

func isFITSPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fits", ".fit", ".fts":
		return true
	}
	return false
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".fits", ".fit", ".fts":
		return "fits"
	}
	return "unknown"
}

// loadRaster decodes a PNG, JPEG, or GIF file and reduces each pixel to its
// relative luminance (the Y component of CIE XYZ), so color images measure
// the same way monochrome ones do. Image rows are flipped so that row 0 of
// the matrix is the bottom of the picture.
func loadRaster(path string) (*Frame, error) {
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
	data := mat.NewDense(h, w, nil)

	for iy := 0; iy < h; iy++ {
		for ix := 0; ix < w; ix++ {
			data.Set(h-1-iy, ix, luminanceAt(img, bounds.Min.X+ix, bounds.Min.Y+iy))
		}
	}

	bitDepth := 8
	switch img.(type) {
	case *image.RGBA64, *image.NRGBA64, *image.Gray16:
		bitDepth = 16
	}

	return &Frame{
		Data: data,
		Info: Info{
			Width:    w,
			Height:   h,
			Format:   formatFromPath(path),
			BitDepth: bitDepth,
		},
	}, nil
}

// luminanceAt reads one pixel and returns its relative luminance in [0, 1].
// Fully transparent pixels read as 0.
func luminanceAt(img image.Image, x, y int) float64 {
	col, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		return 0
	}
	_, lum, _ := col.Xyz()
	return lum
}

// Dimensions returns just the width and height of an image, loading it into
// the cache if needed.
func Dimensions(cache *FrameCache, path string) (width, height int, err error) {
	fr, err := cache.Load(path)
	if err != nil {
		return 0, 0, err
	}
	return fr.Info.Width, fr.Info.Height, nil
}
