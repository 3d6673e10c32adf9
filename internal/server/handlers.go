package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironsheep/image-strip-mcp/internal/imaging"
	"github.com/ironsheep/image-strip-mcp/internal/strip"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_strip_merge").
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
// Tool execution errors return a JSON-RPC error response with code -32000
// whose data is the failing stage and cause.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
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
	case "image_load":
		return s.handleImageLoad(ctx, args)
	case "image_parse_color":
		return s.handleParseColor(args)
	case "image_strip_plan":
		return s.handleStripPlan(ctx, args)
	case "image_strip_merge":
		return s.handleStripMerge(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// release drops decoded images once a tool call is done with them, so the
// next call sees the current file contents and memory does not accumulate.
func (s *Server) release(refs ...string) {
	for _, ref := range refs {
		s.source.Evict(ref)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", imaging.ErrInvalidParameter)
	}
	defer s.release(a.Path)
	return s.source.Info(ctx, a.Path)
}

type parseColorArgs struct {
	Color string `json:"color"`
}

func (s *Server) handleParseColor(args json.RawMessage) (interface{}, error) {
	var a parseColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.DescribeColor(a.Color)
}

// stripArgs are the arguments shared by the strip tools. Options that are
// left out keep the defaults of strip.DefaultRequest.
type stripArgs struct {
	strip.Request
	OutputPath   string `json:"output_path"`
	ReturnBase64 bool   `json:"return_base64"`
}

func parseStripArgs(args json.RawMessage) (*stripArgs, error) {
	a := stripArgs{Request: strip.DefaultRequest()}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// StripPlanResult is the result of image_strip_plan.
type StripPlanResult struct {
	Layout *imaging.Layout      `json:"layout"`
	Plans  []imaging.ResizePlan `json:"plans"`
}

func (s *Server) handleStripPlan(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a, err := parseStripArgs(args)
	if err != nil {
		return nil, err
	}
	defer s.release(a.Images...)
	layout, plans, err := s.pipeline.Plan(ctx, a.Request)
	if err != nil {
		return nil, err
	}
	return &StripPlanResult{Layout: layout, Plans: plans}, nil
}

// StripMergeResult is the result of image_strip_merge.
type StripMergeResult struct {
	OutputPath string         `json:"output_path"`
	MimeType   string         `json:"mime_type"`
	Message    string         `json:"message"`
	Summary    *strip.Summary `json:"summary"`
	Data       string         `json:"data,omitempty"`
}

func (s *Server) handleStripMerge(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a, err := parseStripArgs(args)
	if err != nil {
		return nil, err
	}
	settings, err := a.Validate()
	if err != nil {
		return nil, err
	}

	path := a.OutputPath
	if path == "" {
		path = filepath.Join(s.outDir, fmt.Sprintf("strip-%s.%s", uuid.NewString(), settings.Output.Format.Extension()))
	}

	defer s.release(a.Images...)
	out, err := s.pipeline.Render(ctx, a.Request)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, out.Data, 0o644); err != nil {
		return nil, &strip.StageError{Stage: strip.StageWrite, Err: err}
	}

	res := &StripMergeResult{
		OutputPath: path,
		MimeType:   settings.Output.Format.MimeType(),
		Message:    out.Summary.String(),
		Summary:    &out.Summary,
	}
	if a.ReturnBase64 {
		res.Data = base64.StdEncoding.EncodeToString(out.Data)
	}
	return res, nil
}
