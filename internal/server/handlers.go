package server

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/photometry-tools-mcp/internal/aperture"
	"github.com/ironsheep/photometry-tools-mcp/internal/imaging"
	"github.com/ironsheep/photometry-tools-mcp/internal/photometry"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "photometry_aperture_sum").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "photometry_load":
		return s.handleLoad(args)
	case "photometry_dimensions":
		return s.handleDimensions(args)

	// Measurement Operations
	case "photometry_aperture_sum":
		return s.handleApertureSum(args)
	case "photometry_aperture_sum_multi":
		return s.handleApertureSumMulti(args)
	case "photometry_background_stats":
		return s.handleBackgroundStats(args)

	// Region Operations
	case "photometry_cutout":
		return s.handleCutout(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Aperture and Method Parsing ===

// apertureSpec is the wire form of an aperture. The shape decides which size
// fields are read; coordinates are 1-based pixel coordinates.
type apertureSpec struct {
	Shape string  `json:"shape"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`

	R    float64 `json:"r"`
	RIn  float64 `json:"r_in"`
	ROut float64 `json:"r_out"`

	A    float64 `json:"a"`
	B    float64 `json:"b"`
	AIn  float64 `json:"a_in"`
	AOut float64 `json:"a_out"`
	BOut float64 `json:"b_out"`

	W    float64 `json:"w"`
	H    float64 `json:"h"`
	WIn  float64 `json:"w_in"`
	WOut float64 `json:"w_out"`
	HOut float64 `json:"h_out"`

	Theta float64 `json:"theta"`
}

// buildAperture turns a wire spec into a validated aperture value.
func buildAperture(spec apertureSpec) (aperture.Aperture, error) {
	switch spec.Shape {
	case "circle":
		return aperture.NewCircle(spec.X, spec.Y, spec.R)
	case "circular_annulus":
		return aperture.NewCircularAnnulus(spec.X, spec.Y, spec.RIn, spec.ROut)
	case "ellipse":
		return aperture.NewEllipse(spec.X, spec.Y, spec.A, spec.B, spec.Theta)
	case "elliptical_annulus":
		return aperture.NewEllipticalAnnulus(spec.X, spec.Y, spec.AIn, spec.AOut, spec.BOut, spec.Theta)
	case "rectangle":
		return aperture.NewRectangle(spec.X, spec.Y, spec.W, spec.H, spec.Theta)
	case "rectangular_annulus":
		return aperture.NewRectangularAnnulus(spec.X, spec.Y, spec.WIn, spec.WOut, spec.HOut, spec.Theta)
	case "":
		return nil, fmt.Errorf("aperture shape is required")
	default:
		return nil, fmt.Errorf("unknown aperture shape: %s", spec.Shape)
	}
}

// methodSpec is the wire form of the overlap method selector.
type methodSpec struct {
	Name      string `json:"name"`
	Subpixels int    `json:"subpixels"`
}

func parseMethod(spec methodSpec) (aperture.Method, error) {
	switch spec.Name {
	case "", "exact":
		return aperture.Exact, nil
	case "center":
		return aperture.Center(), nil
	case "subpixel":
		n := spec.Subpixels
		if n <= 0 {
			n = 5
		}
		return aperture.Subpixel(n), nil
	default:
		return aperture.Method{}, fmt.Errorf("unknown overlap method: %s", spec.Name)
	}
}

// jsonFloat maps non-finite values to null so results survive JSON encoding.
func jsonFloat(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// wireResult flattens a measurement for the wire, with NaN replaced by null.
func wireResult(r photometry.Result) map[string]interface{} {
	out := map[string]interface{}{
		"x_center":     r.XCenter,
		"y_center":     r.YCenter,
		"aperture_sum": jsonFloat(r.ApertureSum),
	}
	if r.ApertureSumErr != nil {
		out["aperture_sum_err"] = jsonFloat(*r.ApertureSumErr)
	}
	if r.CustomStat != nil {
		out["custom_stat"] = jsonFloat(*r.CustomStat)
	}
	return out
}

// matOrNil unwraps an optional frame into a matrix, keeping the interface
// value nil when no frame was loaded.
func matOrNil(fr *imaging.Frame) mat.Matrix {
	if fr == nil {
		return nil
	}
	return fr.Data
}

// === Basic Image Information Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	fr, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return fr.Info, nil
}

func (s *Server) handleDimensions(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	w, h, err := imaging.Dimensions(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"width": w, "height": h}, nil
}

// === Measurement Handlers ===

type apertureSumArgs struct {
	Path      string       `json:"path"`
	Aperture  apertureSpec `json:"aperture"`
	Method    methodSpec   `json:"method"`
	ErrorPath string       `json:"error_path"`
}

// loadMeasureInputs loads the data frame and, when requested, the error
// frame, and parses the overlap method.
func (s *Server) loadMeasureInputs(path, errorPath string, m methodSpec) (data, stddev *imaging.Frame, opts photometry.Options, err error) {
	data, err = s.cache.Load(path)
	if err != nil {
		return nil, nil, opts, err
	}
	if errorPath != "" {
		stddev, err = s.cache.Load(errorPath)
		if err != nil {
			return nil, nil, opts, fmt.Errorf("error image: %w", err)
		}
	}
	opts.Method, err = parseMethod(m)
	if err != nil {
		return nil, nil, opts, err
	}
	return data, stddev, opts, nil
}

func (s *Server) handleApertureSum(args json.RawMessage) (interface{}, error) {
	var a apertureSumArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	ap, err := buildAperture(a.Aperture)
	if err != nil {
		return nil, err
	}
	data, stddev, opts, err := s.loadMeasureInputs(a.Path, a.ErrorPath, a.Method)
	if err != nil {
		return nil, err
	}

	var stddevMat = matOrNil(stddev)
	res, err := photometry.Measure(data.Data, stddevMat, ap, opts)
	if err != nil {
		return nil, err
	}
	return wireResult(res), nil
}

type apertureSumMultiArgs struct {
	Path      string         `json:"path"`
	Apertures []apertureSpec `json:"apertures"`
	Method    methodSpec     `json:"method"`
	ErrorPath string         `json:"error_path"`
}

func (s *Server) handleApertureSumMulti(args json.RawMessage) (interface{}, error) {
	var a apertureSumMultiArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Apertures) == 0 {
		return nil, fmt.Errorf("at least one aperture is required")
	}

	aps := make([]aperture.Aperture, len(a.Apertures))
	for i, spec := range a.Apertures {
		ap, err := buildAperture(spec)
		if err != nil {
			return nil, fmt.Errorf("aperture %d: %w", i, err)
		}
		aps[i] = ap
	}

	data, stddev, opts, err := s.loadMeasureInputs(a.Path, a.ErrorPath, a.Method)
	if err != nil {
		return nil, err
	}

	results, err := photometry.MeasureAll(data.Data, matOrNil(stddev), aps, opts)
	if err != nil {
		return nil, err
	}

	wire := make([]map[string]interface{}, len(results))
	for i, r := range results {
		wire[i] = wireResult(r)
	}
	return map[string]interface{}{"results": wire}, nil
}

type backgroundStatsArgs struct {
	Path     string  `json:"path"`
	Sigma    float64 `json:"sigma"`
	MaxIters *int    `json:"max_iters"`
}

func (s *Server) handleBackgroundStats(args json.RawMessage) (interface{}, error) {
	var a backgroundStatsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Sigma == 0 {
		a.Sigma = 3.0
	}
	maxIters := 5
	if a.MaxIters != nil {
		maxIters = *a.MaxIters
	}

	fr, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return photometry.SigmaClippedStats(fr.Data, a.Sigma, maxIters)
}

// === Region Operation Handlers ===

type cutoutArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleCutout(args json.RawMessage) (interface{}, error) {
	var a cutoutArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	fr, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Cutout(fr, a.X1, a.Y1, a.X2, a.Y2, a.Scale)
}
