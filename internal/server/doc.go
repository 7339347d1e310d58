// Package server implements the MCP (Model Context Protocol) server for the
// EasyOCR pipeline.
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
//   - image_load: Load image and get metadata
//   - ocr_read: Read the text and its bounding box
//   - ocr_detect_region: Find the text region only
//   - ocr_annotate: Draw the text region onto the image
//   - ocr_compare: Compare the reading with Tesseract
//
// Boxes are reported in the 800x608 model space and in source pixels.
//
// # Image Caching
//
// Decoded images are cached by path and reused across tool calls for the
// lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: {"code", "error"} for pipeline errors, otherwise the error string
//
// # Usage
//
//	srv := server.New(recognizer, baseline.NewEngine("eng"), logger)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
