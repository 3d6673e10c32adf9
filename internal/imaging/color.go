package imaging

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color is a non-premultiplied RGBA color with 8-bit components.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type Color struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// White is the default border color.
var White = Color{R: 255, G: 255, B: 255, A: 255}

// NRGBA converts c to the standard library color type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Opaque reports whether c has full alpha.
func (c Color) Opaque() bool { return c.A == 255 }

// Hex renders c as "#RRGGBB", or "#RRGGBBAA" when c is not opaque.
func (c Color) Hex() string {
	if c.Opaque() {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// HSL returns the hue, saturation and lightness of c, ignoring alpha.
func (c Color) HSL() HSLColor {
	h, s, l := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// ColorResult describes a parsed color in several notations.
type ColorResult struct {
	Input  string   `json:"input"`
	Hex    string   `json:"hex"`
	RGBA   Color    `json:"rgba"`
	HSL    HSLColor `json:"hsl"`
	Opaque bool     `json:"opaque"`
}

// DescribeColor parses spec and reports it in every notation.
func DescribeColor(spec string) (*ColorResult, error) {
	c, err := ParseColor(spec)
	if err != nil {
		return nil, err
	}
	return &ColorResult{
		Input:  spec,
		Hex:    c.Hex(),
		RGBA:   c,
		HSL:    c.HSL(),
		Opaque: c.Opaque(),
	}, nil
}

// extraColorNames holds CSS names that are missing from the SVG 1.1 set in
// colornames.
var extraColorNames = map[string]color.RGBA{
	"rebeccapurple": {0x66, 0x33, 0x99, 0xff},
}

// ParseColor resolves a border color specification.
//
// Accepted forms:
//   - Hex: "#RGB", "#RGBA", "#RRGGBB", "#RRGGBBAA"
//   - CSS color names: "white", "rebeccapurple", ... (case-insensitive)
//   - Functional: "rgb(r, g, b)", "rgba(r, g, b, a)", "hsl(h, s%, l%)"
//
// rgb components may be integers (0-255) or percentages. The rgba alpha is
// an integer 0-255. Alpha defaults to 255 when the form has none.
//
// # Errors
//
// Returns an error wrapping ErrInvalidColor when spec matches none of the forms.
func ParseColor(spec string) (Color, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" {
		return Color{}, fmt.Errorf("%w: empty color string", ErrInvalidColor)
	}

	var (
		c   Color
		err error
	)
	switch {
	case strings.HasPrefix(s, "#"):
		c, err = parseHexColor(s[1:])
	case strings.HasPrefix(s, "rgba(") || strings.HasPrefix(s, "rgb("):
		c, err = parseRGBFunc(s)
	case strings.HasPrefix(s, "hsl("):
		c, err = parseHSLFunc(s)
	default:
		named, ok := colornames.Map[s]
		if !ok {
			named, ok = extraColorNames[s]
		}
		if !ok {
			return Color{}, fmt.Errorf("%w: %q is neither a hex value nor a color name", ErrInvalidColor, spec)
		}
		return Color{R: named.R, G: named.G, B: named.B, A: named.A}, nil
	}
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, spec, err)
	}
	return c, nil
}

// parseHexColor parses the digits of a hex color after the leading '#'.
func parseHexColor(hex string) (Color, error) {
	var rgb, alpha string
	switch len(hex) {
	case 3, 6:
		rgb = hex
	case 4:
		rgb, alpha = hex[:3], strings.Repeat(hex[3:], 2)
	case 8:
		rgb, alpha = hex[:6], hex[6:]
	default:
		return Color{}, fmt.Errorf("invalid hex color length %d", len(hex))
	}
	if strings.Trim(hex, "0123456789abcdef") != "" {
		return Color{}, fmt.Errorf("invalid hex digits %q", hex)
	}

	base, err := colorful.Hex("#" + rgb)
	if err != nil {
		return Color{}, err
	}
	r, g, b := base.RGB255()

	a := uint64(255)
	if alpha != "" {
		a, err = strconv.ParseUint(alpha, 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid alpha %q", alpha)
		}
	}
	return Color{R: r, G: g, B: b, A: uint8(a)}, nil
}

func parseRGBFunc(s string) (Color, error) {
	name, args, err := splitFunc(s)
	if err != nil {
		return Color{}, err
	}
	want := 3
	if name == "rgba" {
		want = 4
	}
	if len(args) != want {
		return Color{}, fmt.Errorf("%s() takes %d components, got %d", name, want, len(args))
	}

	var ch [4]uint8
	ch[3] = 255
	for i, arg := range args {
		if i < 3 && strings.HasSuffix(arg, "%") {
			p, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
			if err != nil || p < 0 || p > 100 {
				return Color{}, fmt.Errorf("invalid percentage %q", arg)
			}
			ch[i] = uint8(math.Round(p * 255 / 100))
			continue
		}
		v, err := strconv.ParseUint(arg, 10, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid component %q", arg)
		}
		ch[i] = uint8(v)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func parseHSLFunc(s string) (Color, error) {
	_, args, err := splitFunc(s)
	if err != nil {
		return Color{}, err
	}
	if len(args) != 3 {
		return Color{}, fmt.Errorf("hsl() takes 3 components, got %d", len(args))
	}
	h, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hue %q", args[0])
	}
	var sl [2]float64
	for i, arg := range args[1:] {
		if !strings.HasSuffix(arg, "%") {
			return Color{}, fmt.Errorf("saturation and lightness must be percentages, got %q", arg)
		}
		v, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
		if err != nil || v < 0 || v > 100 {
			return Color{}, fmt.Errorf("invalid percentage %q", arg)
		}
		sl[i] = v / 100
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsl(h, sl[0], sl[1]).Clamped().RGB255()
	return Color{R: r, G: g, B: b, A: 255}, nil
}

// splitFunc splits "name(a, b, c)" into its name and trimmed arguments.
func splitFunc(s string) (string, []string, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return "", nil, fmt.Errorf("malformed color function")
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.TrimSpace(s[:open]), parts, nil
}
