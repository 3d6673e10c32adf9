package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// stripProperties are the input properties shared by the strip tools.
func stripProperties() map[string]interface{} {
	return map[string]interface{}{
		"images": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
			"minItems":    2,
			"description": "Image paths or http(s) URLs, in strip order (at least 2)",
		},
		"orientation": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"horizontal", "vertical"},
			"description": "Concatenate left to right or top to bottom. Default horizontal",
			"default":     "horizontal",
		},
		"alignment": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"start", "center", "end"},
			"description": "Position along the cross axis. Default center",
			"default":     "center",
		},
		"resize_strategy": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"none", "magnify_smaller", "reduce_larger", "crop_larger"},
			"description": "How mismatched heights (horizontal) or widths (vertical) are reconciled. Default reduce_larger",
			"default":     "reduce_larger",
		},
		"keep_aspect_ratio": map[string]interface{}{
			"type":        "boolean",
			"description": "Scale the other axis proportionally when resampling. Default true",
			"default":     true,
		},
		"border_thickness": map[string]interface{}{
			"type":        "integer",
			"minimum":     0,
			"description": "Border around and between images in pixels. Default 0",
			"default":     0,
		},
		"border_color": map[string]interface{}{
			"type":        "string",
			"description": "Hex (#RRGGBB, #RRGGBBAA), CSS name, rgb(), rgba() or hsl(). Default #ffffff",
			"default":     "#ffffff",
		},
		"output_format": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"webp", "jpg", "jpeg", "png"},
			"description": "Output encoding. Default webp",
			"default":     "webp",
		},
		"output_quality": map[string]interface{}{
			"type":        "integer",
			"minimum":     1,
			"maximum":     100,
			"description": "Lossy quality 1-100, ignored for png. WebP is lossless at 100. Default 90",
			"default":     90,
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	mergeProps := stripProperties()
	mergeProps["output_path"] = map[string]interface{}{
		"type":        "string",
		"description": "Where to write the strip. Default: a new file in the server's output directory",
	}
	mergeProps["return_base64"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Also return the encoded strip as base64. Default false",
		"default":     false,
	}

	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image from a path or URL and return its dimensions, format and whether it has transparency.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path or http(s) URL of the image",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_parse_color",
			Description: "Resolve a border color specification and return it as hex, RGBA and HSL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Hex (#RGB, #RGBA, #RRGGBB, #RRGGBBAA), CSS color name, rgb(), rgba() or hsl()",
					},
				},
				"required": []string{"color"},
			},
		},
		{
			Name:        "image_strip_plan",
			Description: "Compute the strip layout (canvas size, per-image resize and position) without rendering it.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": stripProperties(),
				"required":   []string{"images"},
			},
		},
		{
			Name:        "image_strip_merge",
			Description: "Merge two or more images into one horizontal or vertical strip with optional borders and write it to a file.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": mergeProps,
				"required":   []string{"images"},
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
