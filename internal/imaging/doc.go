// Package imaging loads image files into measurable 2D sample arrays.
//
// The package bridges on-disk formats and the photometry pipeline: every
// supported file becomes a Frame, a dense float64 matrix plus metadata,
// served through a concurrency-safe FrameCache so repeated measurements of
// the same file decode it once.
//
// # Supported Formats
//
// FITS files are read through their primary image HDU and keep native
// sample values for every standard BITPIX. PNG, JPEG, and GIF files are
// decoded and reduced to relative luminance in [0, 1], so color pictures
// measure consistently with monochrome data.
//
// # Orientation
//
// Frames use the bottom-left convention of the aperture package: matrix
// row 0 is the bottom image row, and element (row, col) is pixel
// (col+1, row+1). FITS files already store data this way; raster rows are
// flipped during decoding.
//
// # Thread Safety
//
// FrameCache is safe for concurrent use. Frames handed out by the cache are
// shared between callers and must be treated as read-only.
package imaging
