package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// apertureSchema describes the shared aperture object accepted by the
// measurement tools. Which size fields apply depends on the shape.
func apertureSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"shape": map[string]interface{}{
				"type": "string",
				"enum": []string{
					"circle", "circular_annulus",
					"ellipse", "elliptical_annulus",
					"rectangle", "rectangular_annulus",
				},
				"description": "Aperture shape",
			},
			"x": map[string]interface{}{
				"type":        "number",
				"description": "Center X in 1-based pixel coordinates (pixel (1,1) is the bottom-left pixel center)",
			},
			"y": map[string]interface{}{
				"type":        "number",
				"description": "Center Y in 1-based pixel coordinates",
			},
			"r":     map[string]interface{}{"type": "number", "description": "Circle radius"},
			"r_in":  map[string]interface{}{"type": "number", "description": "Circular annulus inner radius"},
			"r_out": map[string]interface{}{"type": "number", "description": "Circular annulus outer radius"},
			"a":     map[string]interface{}{"type": "number", "description": "Ellipse semi-major axis"},
			"b":     map[string]interface{}{"type": "number", "description": "Ellipse semi-minor axis"},
			"a_in":  map[string]interface{}{"type": "number", "description": "Elliptical annulus inner semi-major axis"},
			"a_out": map[string]interface{}{"type": "number", "description": "Elliptical annulus outer semi-major axis"},
			"b_out": map[string]interface{}{"type": "number", "description": "Elliptical annulus outer semi-minor axis"},
			"w":     map[string]interface{}{"type": "number", "description": "Rectangle full width"},
			"h":     map[string]interface{}{"type": "number", "description": "Rectangle full height"},
			"w_in":  map[string]interface{}{"type": "number", "description": "Rectangular annulus inner width"},
			"w_out": map[string]interface{}{"type": "number", "description": "Rectangular annulus outer width"},
			"h_out": map[string]interface{}{"type": "number", "description": "Rectangular annulus outer height"},
			"theta": map[string]interface{}{
				"type":        "number",
				"description": "Rotation in degrees counterclockwise (ellipse and rectangle shapes)",
			},
		},
		"required": []string{"shape", "x", "y"},
	}
}

// methodSchema describes the overlap method selector.
func methodSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"exact", "center", "subpixel"},
				"description": "Overlap evaluation: exact geometry (default), pixel-center test, or subpixel sampling",
			},
			"subpixels": map[string]interface{}{
				"type":        "integer",
				"description": "Sampling grid per pixel side for the subpixel method (default 5)",
				"default":     5,
			},
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "photometry_load",
			Description: "Load an image file (FITS, PNG, JPEG, or GIF) and return its dimensions and format. FITS files keep native sample values; raster images are reduced to relative luminance.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "photometry_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Measurement Operations
		{
			Name:        "photometry_aperture_sum",
			Description: "Measure the weighted sum of pixel values inside an aperture. Boundary pixels contribute their covered fraction. Optionally propagates per-pixel uncertainties from an error image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"aperture": apertureSchema(),
					"method":   methodSchema(),
					"error_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to a per-pixel standard deviation image with the same dimensions",
					},
				},
				"required": []string{"path", "aperture"},
			},
		},
		{
			Name:        "photometry_aperture_sum_multi",
			Description: "Measure many apertures against the same image in one call. Results come back in input order; apertures falling off the image yield a sum of 0 with a null error.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"apertures": map[string]interface{}{
						"type":        "array",
						"items":       apertureSchema(),
						"description": "Apertures to measure",
					},
					"method": methodSchema(),
					"error_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to a per-pixel standard deviation image",
					},
				},
				"required": []string{"path", "apertures"},
			},
		},
		{
			Name:        "photometry_background_stats",
			Description: "Estimate the background level of an image with iterative sigma clipping: mean, median, and standard deviation after rejecting outlier pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"sigma": map[string]interface{}{
						"type":        "number",
						"description": "Clip threshold in standard deviations (default 3.0)",
						"default":     3.0,
					},
					"max_iters": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum clipping iterations (default 5)",
						"default":     5,
					},
				},
				"required": []string{"path"},
			},
		},

		// Region Operations
		{
			Name:        "photometry_cutout",
			Description: "Render a rectangular region of the image as a base64 PNG quicklook, linearly stretched between the region's minimum and maximum sample values. Use this to inspect sources before measuring them.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left column (0-based, inclusive)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom row (0-based, inclusive)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right column (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Top row (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
