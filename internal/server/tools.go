package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file (PNG, JPEG, GIF or WebP)",
}

var boxesProperty = map[string]interface{}{
	"type":        "array",
	"description": "Bounding boxes, one [a, b, c, d] array per box",
	"items": map[string]interface{}{
		"type":     "array",
		"items":    map[string]interface{}{"type": "number"},
		"minItems": 4,
		"maxItems": 4,
	},
}

var formatProperty = map[string]interface{}{
	"type": "string",
	"enum": []string{"XYXY", "XYWH", "CXCYWH"},
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, channel count and the (C,H,W) tensor shape it converts to.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Geometry
		{
			Name: "geometry_transform",
			Description: "Apply a sequence of geometric transforms (horizontal_flip, resize, center_crop, resized_crop, affine, rotate) " +
				"to an image together with its optional segmentation mask and bounding boxes, keeping them aligned. " +
				"Returns the transformed image as base64, the transformed mask and boxes, and optionally an overlay and a preview.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"mask_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to a grayscale label map of the same size as the image",
					},
					"boxes": boxesProperty,
					"box_format": map[string]interface{}{
						"type":        "string",
						"description": "Coordinate format of boxes (default XYXY)",
						"enum":        []string{"XYXY", "XYWH", "CXCYWH"},
						"default":     "XYXY",
					},
					"steps": map[string]interface{}{
						"type": "array",
						"description": "Operations applied in order. Each step is an object with an 'op' name and that operation's parameters, " +
							"e.g. {\"op\": \"resize\", \"size\": [256], \"max_size\": 512} or {\"op\": \"rotate\", \"angle\": 30, \"expand\": true}.",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"op": map[string]interface{}{
									"type": "string",
									"enum": []string{"horizontal_flip", "resize", "center_crop", "resized_crop", "affine", "rotate"},
								},
							},
							"required": []string{"op"},
						},
					},
					"output_format": map[string]interface{}{
						"type":    "string",
						"enum":    []string{"png", "webp"},
						"default": "png",
					},
					"overlay": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the result with the mask tinted and the boxes outlined",
						"default":     false,
					},
					"box_color": map[string]interface{}{
						"type":        "string",
						"description": "Overlay outline color as #RRGGBB (default: one color per box)",
					},
					"preview_width": map[string]interface{}{
						"type":        "integer",
						"description": "If set, also return a bilinear preview of the result scaled to this width",
					},
				},
				"required": []string{"path", "steps"},
			},
		},
		{
			Name:        "geometry_convert_boxes",
			Description: "Convert bounding boxes between the XYXY, XYWH and CXCYWH coordinate formats.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"boxes": boxesProperty,
					"from":  formatProperty,
					"to":    formatProperty,
				},
				"required": []string{"boxes", "from", "to"},
			},
		},
		{
			Name:        "geometry_operations",
			Description: "List the geometric operations, the annotation kinds each supports, and the accepted interpolation modes and box formats.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the tool catalog.
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
