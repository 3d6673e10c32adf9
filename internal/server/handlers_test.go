package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-strip-mcp/internal/imaging"
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	tmpFile, err := os.CreateTemp(t.TempDir(), "handler-test-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return tmpFile.Name()
}

// callTool runs a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()
	params, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	require.NoError(t, err)

	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	})
	require.NotNil(t, resp)
	return resp
}

// decodeResult unmarshals the text content of a successful tool response into v.
func decodeResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()
	require.Nil(t, resp.Error, "unexpected tool error")

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok, "Result should be a map")
	content, ok := result["content"].([]map[string]interface{})
	require.True(t, ok && len(content) == 1, "content should hold one item")
	assert.Equal(t, "text", content[0]["type"])

	text, ok := content[0]["text"].(string)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(text), v))
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	var info imaging.ImageInfo
	decodeResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}), &info)

	assert.Equal(t, 100, info.Width)
	assert.Equal(t, 80, info.Height)
	assert.Equal(t, "png", info.Format)
	assert.False(t, info.HasAlpha)
}

func TestHandleToolsCall_ImageLoad_FileChanged(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 10, 10, color.RGBA{255, 0, 0, 255})

	var info imaging.ImageInfo
	decodeResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}), &info)
	assert.Equal(t, 10, info.Width)

	replacement, err := os.ReadFile(createTestImageFile(t, 30, 20, color.RGBA{0, 255, 0, 255}))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(imgPath, replacement, 0o644))

	decodeResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}), &info)
	assert.Equal(t, 30, info.Width)
	assert.Equal(t, 20, info.Height)
}

func TestHandleToolsCall_StripPlan_FileChanged(t *testing.T) {
	s := New(nil)
	a := createTestImageFile(t, 10, 10, color.RGBA{255, 0, 0, 255})
	b := createTestImageFile(t, 10, 10, color.RGBA{0, 0, 255, 255})
	args := map[string]interface{}{"images": []string{a, b}, "resize_strategy": "none"}

	var res StripPlanResult
	decodeResult(t, callTool(t, s, "image_strip_plan", args), &res)
	assert.Equal(t, imaging.Dimensions{Width: 20, Height: 10}, res.Layout.Canvas)

	replacement, err := os.ReadFile(createTestImageFile(t, 5, 10, color.RGBA{0, 255, 0, 255}))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(b, replacement, 0o644))

	decodeResult(t, callTool(t, s, "image_strip_plan", args), &res)
	assert.Equal(t, imaging.Dimensions{Width: 15, Height: 10}, res.Layout.Canvas)
}

func TestHandleToolsCall_ImageLoad_URL(t *testing.T) {
	imgPath := createTestImageFile(t, 12, 9, color.RGBA{0, 0, 255, 255})
	data, err := os.ReadFile(imgPath)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	s := New(nil, WithSource(imaging.NewSource(imaging.WithHTTPClient(srv.Client()))))

	var info imaging.ImageInfo
	decodeResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": srv.URL + "/blue.png"}), &info)
	assert.Equal(t, 12, info.Width)
	assert.True(t, info.Remote)
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := New(nil)

	tests := []struct {
		name     string
		tool     string
		args     interface{}
		wantData string
	}{
		{"non-existent file", "image_load", map[string]interface{}{"path": "/nonexistent/image.png"}, "decode failed"},
		{"missing path", "image_load", map[string]interface{}{}, "path is required"},
		{"invalid color", "image_parse_color", map[string]interface{}{"color": "notacolor"}, "invalid color"},
		{"unknown tool", "image_rotate", map[string]interface{}{}, "unknown tool"},
		{"single image", "image_strip_merge", map[string]interface{}{"images": []string{"a.png"}}, "parameters:"},
		{
			"color before decode", "image_strip_merge",
			map[string]interface{}{"images": []string{"/missing/a.png", "/missing/b.png"}, "border_color": "nope"},
			"color parse:",
		},
		{
			"decode", "image_strip_plan",
			map[string]interface{}{"images": []string{"/missing/a.png", "/missing/b.png"}},
			"decode:",
		},
		{"bad argument type", "image_strip_merge", map[string]interface{}{"images": "a.png"}, "cannot unmarshal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, tt.tool, tt.args)
			require.NotNil(t, resp.Error, "expected a tool error")
			assert.Equal(t, -32000, resp.Error.Code)
			data, _ := resp.Error.Data.(string)
			assert.Contains(t, data, tt.wantData)
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New(nil)
	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`["not", "an", "object"]`),
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}

func TestHandleToolsCall_ParseColor(t *testing.T) {
	var res imaging.ColorResult
	decodeResult(t, callTool(t, New(nil), "image_parse_color", map[string]interface{}{"color": "RebeccaPurple"}), &res)

	assert.Equal(t, "#663399", res.Hex)
	assert.Equal(t, imaging.Color{R: 102, G: 51, B: 153, A: 255}, res.RGBA)
	assert.True(t, res.Opaque)
}

func TestHandleToolsCall_StripPlan(t *testing.T) {
	s := New(nil)
	a := createTestImageFile(t, 100, 50, color.RGBA{255, 0, 0, 255})
	b := createTestImageFile(t, 200, 100, color.RGBA{0, 255, 0, 255})

	var res struct {
		Layout struct {
			Canvas     imaging.Dimensions `json:"canvas"`
			Placements []struct {
				Action string             `json:"action"`
				Size   imaging.Dimensions `json:"size"`
				X      int                `json:"x"`
				Y      int                `json:"y"`
			} `json:"placements"`
		} `json:"layout"`
	}
	decodeResult(t, callTool(t, s, "image_strip_plan", map[string]interface{}{
		"images":           []string{a, b},
		"border_thickness": 5,
	}), &res)

	assert.Equal(t, imaging.Dimensions{Width: 215, Height: 60}, res.Layout.Canvas)
	require.Len(t, res.Layout.Placements, 2)
	assert.Equal(t, "none", res.Layout.Placements[0].Action)
	assert.Equal(t, "resample", res.Layout.Placements[1].Action)
	assert.Equal(t, imaging.Dimensions{Width: 100, Height: 50}, res.Layout.Placements[1].Size)
	assert.Equal(t, 110, res.Layout.Placements[1].X)
	assert.Equal(t, 5, res.Layout.Placements[1].Y)
}

func TestHandleToolsCall_StripMerge(t *testing.T) {
	outDir := t.TempDir()
	s := New(nil, WithOutputDir(outDir))
	a := createTestImageFile(t, 4, 3, color.RGBA{255, 0, 0, 255})
	b := createTestImageFile(t, 4, 3, color.RGBA{0, 0, 255, 255})

	var res StripMergeResult
	decodeResult(t, callTool(t, s, "image_strip_merge", map[string]interface{}{
		"images":          []string{a, b},
		"orientation":     "vertical",
		"resize_strategy": "none",
		"output_format":   "png",
		"return_base64":   true,
	}), &res)

	assert.Equal(t, outDir, filepath.Dir(res.OutputPath))
	assert.True(t, strings.HasPrefix(filepath.Base(res.OutputPath), "strip-"))
	assert.Equal(t, ".png", filepath.Ext(res.OutputPath))
	assert.Equal(t, "image/png", res.MimeType)
	assert.Equal(t, "merged 2 image(s) → 4×6 PNG (Q=90)", res.Message)

	written, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	inline, err := base64.StdEncoding.DecodeString(res.Data)
	require.NoError(t, err)
	assert.Equal(t, written, inline)

	img, err := png.Decode(bytes.NewReader(written))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 6), img.Bounds())
	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, color.NRGBAModel.Convert(img.At(0, 5)))
}

func TestHandleToolsCall_StripMerge_OutputPath(t *testing.T) {
	s := New(nil)
	a := createTestImageFile(t, 10, 10, color.RGBA{10, 20, 30, 255})
	b := createTestImageFile(t, 20, 20, color.RGBA{30, 20, 10, 255})
	out := filepath.Join(t.TempDir(), "custom.jpg")

	var res StripMergeResult
	decodeResult(t, callTool(t, s, "image_strip_merge", map[string]interface{}{
		"images":        []string{a, b},
		"output_format": "jpeg",
		"output_path":   out,
	}), &res)

	assert.Equal(t, out, res.OutputPath)
	assert.Empty(t, res.Data)
	assert.Equal(t, "image/jpeg", res.MimeType)

	_, err := os.Stat(out)
	assert.NoError(t, err)
}

func TestHandleToolsCall_StripMerge_NoFileOnFailure(t *testing.T) {
	outDir := t.TempDir()
	s := New(nil, WithOutputDir(outDir))
	a := createTestImageFile(t, 10, 10, color.RGBA{A: 255})

	resp := callTool(t, s, "image_strip_merge", map[string]interface{}{
		"images": []string{a, filepath.Join(outDir, "missing.png")},
	})
	require.NotNil(t, resp.Error)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
