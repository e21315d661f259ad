package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
	"github.com/ironsheep/image-geometry-mcp/internal/features"
	"github.com/ironsheep/image-geometry-mcp/internal/imaging"
	"github.com/ironsheep/image-geometry-mcp/internal/pipeline"
	"github.com/ironsheep/image-geometry-mcp/internal/transforms"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "geometry_transform").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "code", geomerrors.GetCode(err), "err", err)
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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Geometry
	case "geometry_transform":
		return s.handleGeometryTransform(ctx, args)
	case "geometry_convert_boxes":
		return s.handleGeometryConvertBoxes(args)
	case "geometry_operations":
		return s.handleGeometryOperations()

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

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Geometry Handlers ===

type geometryTransformArgs struct {
	Path         string            `json:"path"`
	MaskPath     string            `json:"mask_path"`
	Boxes        [][]float64       `json:"boxes"`
	BoxFormat    string            `json:"box_format"`
	Steps        []json.RawMessage `json:"steps"`
	OutputFormat string            `json:"output_format"`
	Overlay      bool              `json:"overlay"`
	BoxColor     string            `json:"box_color"`
	PreviewWidth int               `json:"preview_width"`
}

// GeometryTransformResult is the result of geometry_transform.
type GeometryTransformResult struct {
	Steps       []string              `json:"steps"`
	ImageSize   features.ImageSize    `json:"image_size"`
	TensorShape []int                 `json:"tensor_shape"`
	Image       *imaging.EncodedImage `json:"image"`
	Mask        *imaging.EncodedImage `json:"mask,omitempty"`
	Boxes       [][]float64           `json:"boxes,omitempty"`
	BoxFormat   string                `json:"box_format,omitempty"`
	Overlay     *imaging.EncodedImage `json:"overlay,omitempty"`
	Preview     *imaging.EncodedImage `json:"preview,omitempty"`
}

func (s *Server) handleGeometryTransform(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a geometryTransformArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	p, err := parseSteps(a.Steps)
	if err != nil {
		return nil, err
	}

	format := features.XYXY
	if a.BoxFormat != "" {
		if format, err = features.ParseBoundingBoxFormat(a.BoxFormat); err != nil {
			return nil, err
		}
	}
	sample, err := imaging.LoadSample(s.cache, imaging.SampleSource{
		ImagePath: a.Path,
		MaskPath:  a.MaskPath,
		Boxes:     a.Boxes,
		BoxFormat: format,
	})
	if err != nil {
		return nil, err
	}
	if err := p.Validate(sample.Kinds()...); err != nil {
		return nil, err
	}
	out, err := p.Apply(ctx, sample)
	if err != nil {
		return nil, err
	}

	img, ok := out.Image()
	if !ok {
		return nil, geomerrors.New(geomerrors.ErrCodeShapeMismatch, "transformed sample has no image")
	}
	rendered, err := imaging.FromTensor(img.Data())
	if err != nil {
		return nil, err
	}
	result := &GeometryTransformResult{
		Steps:       p.Ops(),
		ImageSize:   img.Size(),
		TensorShape: img.Shape(),
	}
	if result.Image, err = imaging.Encode(rendered, a.OutputFormat); err != nil {
		return nil, err
	}

	masks := out.Masks()
	if len(masks) > 0 {
		m, err := imaging.FromTensor(masks[0].Data())
		if err != nil {
			return nil, err
		}
		if result.Mask, err = imaging.Encode(m, a.OutputFormat); err != nil {
			return nil, err
		}
	}

	boxes := out.Boxes()
	if len(boxes) > 0 {
		result.Boxes = imaging.BoxRows(boxes[0].Data())
		result.BoxFormat = boxes[0].Format().String()
	}

	if a.Overlay {
		o, err := imaging.Overlay(rendered, masks, boxes, imaging.OverlayOptions{BoxColor: a.BoxColor})
		if err != nil {
			return nil, err
		}
		if result.Overlay, err = imaging.Encode(o, a.OutputFormat); err != nil {
			return nil, err
		}
	}

	if a.PreviewWidth > 0 {
		size := img.Size()
		height := max(1, int(math.Round(float64(a.PreviewWidth)*float64(size.Height)/float64(max(size.Width, 1)))))
		preview, err := transforms.RawImageResize()(rendered, features.ImageSize{Height: height, Width: a.PreviewWidth}, features.Bilinear)
		if err != nil {
			return nil, err
		}
		if result.Preview, err = imaging.Encode(preview, a.OutputFormat); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// parseSteps turns the JSON step list into a pipeline. Each step carries
// its op name next to the operation's parameters.
func parseSteps(raw []json.RawMessage) (*pipeline.Pipeline, error) {
	if len(raw) == 0 {
		return nil, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "at least one step is required")
	}
	p := &pipeline.Pipeline{}
	for i, r := range raw {
		var head struct {
			Op string `json:"op"`
		}
		if err := json.Unmarshal(r, &head); err != nil {
			return nil, geomerrors.Wrap(geomerrors.ErrCodeInvalidArgument, err, "step %d", i+1)
		}
		step, err := pipeline.NewStep(head.Op, func(v any) error { return json.Unmarshal(r, v) })
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		p.Steps = append(p.Steps, step)
	}
	return p, nil
}

type geometryConvertBoxesArgs struct {
	Boxes [][]float64 `json:"boxes"`
	From  string      `json:"from"`
	To    string      `json:"to"`
}

// ConvertBoxesResult is the result of geometry_convert_boxes.
type ConvertBoxesResult struct {
	Boxes  [][]float64 `json:"boxes"`
	Format string      `json:"format"`
}

func (s *Server) handleGeometryConvertBoxes(args json.RawMessage) (interface{}, error) {
	var a geometryConvertBoxesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	from, err := features.ParseBoundingBoxFormat(a.From)
	if err != nil {
		return nil, err
	}
	to, err := features.ParseBoundingBoxFormat(a.To)
	if err != nil {
		return nil, err
	}
	data, err := imaging.BoxTensor(a.Boxes)
	if err != nil {
		return nil, err
	}
	out, err := transforms.ConvertBoundingBoxFormat(data, from, to, true)
	if err != nil {
		return nil, err
	}
	return &ConvertBoxesResult{Boxes: imaging.BoxRows(out), Format: to.String()}, nil
}

// OperationInfo describes one operation in geometry_operations.
type OperationInfo struct {
	Name  string          `json:"name"`
	Kinds []features.Kind `json:"kinds"`
}

// OperationsResult is the result of geometry_operations.
type OperationsResult struct {
	Operations     []OperationInfo `json:"operations"`
	Interpolations []string        `json:"interpolations"`
	BoxFormats     []string        `json:"box_formats"`
}

func (s *Server) handleGeometryOperations() (interface{}, error) {
	catalog := transforms.Operations().Catalog()
	matrix := catalog.Matrix()

	result := &OperationsResult{}
	for _, name := range catalog.Names() {
		result.Operations = append(result.Operations, OperationInfo{Name: name, Kinds: matrix[name]})
	}
	for _, mode := range []features.Interpolation{
		features.Nearest, features.Bilinear, features.Bicubic,
		features.Box, features.Hamming, features.Lanczos,
	} {
		result.Interpolations = append(result.Interpolations, mode.String())
	}
	for _, f := range []features.BoundingBoxFormat{features.XYXY, features.XYWH, features.CXCYWH} {
		result.BoxFormats = append(result.BoxFormats, f.String())
	}
	return result, nil
}
