// Package server implements the MCP (Model Context Protocol) server for
// geometric image transforms.
//
// This package provides a JSON-RPC 2.0 server that lets MCP clients flip,
// resize, crop, rotate and warp images together with their segmentation
// masks and bounding boxes, keeping every annotation aligned with the pixels.
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
//   - image_load: Load image and get metadata, including its tensor shape
//   - image_dimensions: Get width and height
//
// Geometry:
//   - geometry_transform: Run a list of steps over an image, mask and boxes
//   - geometry_convert_boxes: Convert between XYXY, XYWH and CXCYWH
//   - geometry_operations: The operation/kind support matrix
//
// A geometry_transform step is a flat object holding the operation name and
// its parameters:
//
//	{"op": "resize", "size": [256], "max_size": 512, "interpolation": "bicubic"}
//	{"op": "affine", "angle": 15, "translate": [4, 0], "scale": 1, "fill_hex": "#808080"}
//
// # Image Caching
//
// Images and masks are cached by path for the lifetime of the server
// process, so repeated calls on the same file skip the decode.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, prefixed with its category code
//     (UNSUPPORTED_KIND, INVALID_FORMAT, SHAPE_MISMATCH, INVALID_ARGUMENT)
//     when it has one
//
// # Usage
//
//	srv := server.New(server.WithLogger(logger), server.WithVersion(version))
//	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package server
