// Package server implements the MCP (Model Context Protocol) server for
// aperture photometry tools.
//
// This package provides a JSON-RPC 2.0 server that exposes photometric
// measurement capabilities through the MCP protocol. It's designed to work
// with Claude and other MCP-compatible clients, enabling AI systems to make
// quantitative measurements on astronomical and scientific images.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - photometry_load: Load an image (FITS or raster) and get metadata
//   - photometry_dimensions: Get width and height
//
// Measurement Operations:
//   - photometry_aperture_sum: Weighted sum inside one aperture
//   - photometry_aperture_sum_multi: Batch measurement of many apertures
//   - photometry_background_stats: Sigma-clipped background statistics
//
// Region Operations:
//   - photometry_cutout: Grayscale quicklook of a region as base64 PNG
//
// # Coordinates
//
// Aperture centers use 1-based pixel coordinates with the origin at the
// bottom-left: pixel (1,1) is centered on the bottom-left pixel, matching
// the FITS convention. Cutout regions use 0-based array indices.
//
// # Non-finite Values
//
// JSON cannot carry NaN or infinity, so measurement results replace
// non-finite numbers with null. An aperture entirely off the image reports
// "aperture_sum_err": null this way.
//
// # Frame Caching
//
// The server maintains an in-memory cache of decoded frames. Frames are
// cached by path and reused across tool calls, so measuring many apertures
// on the same image decodes it once. The cache persists for the lifetime of
// the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
