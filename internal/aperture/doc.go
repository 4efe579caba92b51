// Package aperture defines the photometric aperture shapes and their lazily
// evaluated pixel weight fields.
//
// Six shapes are provided: Circle, CircularAnnulus, Ellipse,
// EllipticalAnnulus, Rectangle, and RectangularAnnulus. All are immutable
// values constructed through validating New* functions; construction is the
// only place invalid parameters (negative sizes, annulus inner larger than
// outer) are rejected. A valid shape with zero size is not an error: it
// simply weights every pixel at zero.
//
// # Pixel Coordinate Convention
//
// Pixel indices are 1-based and follow the FITS/IRAF/DS9 convention: pixel
// (1,1) is centered on the bottom-left data element and the exact image
// corner is at (0.5, 0.5). Pixel (x,y) covers the square
// [x-0.5, x+0.5] x [y-0.5, y+0.5]. Shape centers, radii, and extents are
// plain float64 values in this same coordinate frame; rotations are given in
// degrees counterclockwise and normalized to [0, 360).
//
// # Classification and Overlap
//
// Every shape classifies an integer pixel as Inside, Outside, or Partial by
// evaluating its implicit boundary inequality at the four pixel corners.
// Inside and Outside give weights 1 and 0 without touching the geometry
// kernel; Partial defers to the kernel for the exact (or subpixel-sampled)
// overlap fraction. Whenever corner tests disagree or cannot prove a pixel
// fully in or out, the pixel degrades to Partial — the kernel then returns
// exactly 0 for pixels with no true overlap, so a conservative Partial is
// never wrong. Annuli compose as outer minus inner for both classification
// and overlap.
//
// # Mask
//
// Mask wraps a shape together with an overlap Method (Exact or Subpixel(N))
// as an indexable, boundable weight field. Weights are computed fresh on
// every access and never materialized into an array; coordinates outside the
// bounding box yield 0.0 rather than an error, so a mask combines with data
// arrays of any size over the intersection of their index ranges.
package aperture
