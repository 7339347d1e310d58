package server

import (
	"encoding/json"
	"errors"
	"fmt"

	easyocr "github.com/ironsheep/easyocr-go"
	"github.com/ironsheep/easyocr-go/internal/baseline"
	"github.com/ironsheep/easyocr-go/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "ocr_read").
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
// Pipeline errors carry their code (for example INVALID_REGION) in data.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", errorData(err))
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
	case "image_load":
		return s.handleImageLoad(args)
	case "ocr_read":
		return s.handleOCRRead(args)
	case "ocr_detect_region":
		return s.handleOCRDetectRegion(args)
	case "ocr_annotate":
		return s.handleOCRAnnotate(args)
	case "ocr_compare":
		return s.handleOCRCompare(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
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

// errorData is the JSON-RPC error data for a tool failure.
func errorData(err error) interface{} {
	var ocrErr *easyocr.Error
	if errors.As(err, &ocrErr) {
		return map[string]interface{}{
			"code":  ocrErr.Code,
			"error": err.Error(),
		}
	}
	return err.Error()
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type pathArgs struct {
	Path string `json:"path"`
}

func parsePathArgs(args json.RawMessage) (pathArgs, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return a, err
	}
	if a.Path == "" {
		return a, fmt.Errorf("path is required")
	}
	return a, nil
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// OCRReadResult is the ocr_read payload.
type OCRReadResult struct {
	Path     string           `json:"path"`
	Language string           `json:"language"`
	Results  []easyocr.Result `json:"results"`
}

func (s *Server) handleOCRRead(args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	results, err := s.reader.Read(img)
	if err != nil {
		return nil, err
	}
	return &OCRReadResult{
		Path:     a.Path,
		Language: s.reader.Language(),
		Results:  results,
	}, nil
}

// RegionResult is the ocr_detect_region payload.
type RegionResult struct {
	Box       easyocr.Box `json:"box"`
	SourceBox easyocr.Box `json:"source_box"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
}

func (s *Server) handleOCRDetectRegion(args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	box, err := s.reader.Detect(img)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &RegionResult{
		Box:       box,
		SourceBox: easyocr.ScaleBox(box, b.Dx(), b.Dy()),
		Width:     b.Dx(),
		Height:    b.Dy(),
	}, nil
}

type ocrAnnotateArgs struct {
	Path  string `json:"path"`
	Color string `json:"color"`
}

func (s *Server) handleOCRAnnotate(args json.RawMessage) (interface{}, error) {
	var a ocrAnnotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if a.Color == "" {
		a.Color = imaging.DefaultBoxColor
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	box, err := s.reader.Detect(img)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return imaging.Annotate(img, easyocr.ScaleBox(box, b.Dx(), b.Dy()), a.Color)
}

func (s *Server) handleOCRCompare(args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	if s.baseline == nil {
		return nil, fmt.Errorf("no baseline OCR engine configured")
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	results, err := s.reader.Read(img)
	if err != nil {
		return nil, err
	}
	tess, err := s.baseline.ExtractImage(img)
	if err != nil {
		return nil, fmt.Errorf("baseline OCR failed: %w", err)
	}

	var text string
	if len(results) > 0 {
		text = results[0].Text
	}
	return baseline.Compare(text, tess.Text), nil
}
