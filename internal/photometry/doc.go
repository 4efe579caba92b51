// Package photometry aggregates image data under aperture weight fields.
//
// Measure computes the weighted sum of a 2D data array under a single
// aperture, optionally propagating per-pixel uncertainties and applying a
// caller-supplied reduction to the weighted cutout. MeasureAll fans a batch
// of apertures out over a worker pool and returns results in input order.
//
// # Conventions
//
// Data arrays follow the aperture package's 1-based bottom-left pixel
// convention: element (row, col) of a gonum matrix is pixel (col+1, row+1).
// Apertures wholly or partly off the array are clipped; only on-array pixels
// contribute. An aperture with no on-array pixel yields a sum of 0 and, when
// uncertainties were requested, an error of NaN to flag that no data was
// measured. A zero-area aperture yields 0 with an error of 0.
//
// # Error propagation
//
// Given a per-pixel standard deviation array, the variance of the weighted
// sum is accumulated as sum(w * stddev^2) and the reported error is its
// square root. Pixel values are treated as independent.
package photometry
