package imaging

import (
	"errors"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		spec string
		want Color
	}{
		{"#ffffff", White},
		{"#FFF", White},
		{"  #fff  ", White},
		{"#123456", Color{0x12, 0x34, 0x56, 255}},
		{"#11223380", Color{0x11, 0x22, 0x33, 0x80}},
		{"#f008", Color{255, 0, 0, 0x88}},
		{"#000000", Color{0, 0, 0, 255}},
		{"white", White},
		{"White", White},
		{"rebeccapurple", Color{102, 51, 153, 255}},
		{"RebeccaPurple", Color{102, 51, 153, 255}},
		{"teal", Color{0, 128, 128, 255}},
		{"rgb(255, 0, 0)", Color{255, 0, 0, 255}},
		{"rgba(0,0,255,128)", Color{0, 0, 255, 128}},
		{"rgb(100%, 0%, 50%)", Color{255, 0, 128, 255}},
		{"hsl(120, 100%, 50%)", Color{0, 255, 0, 255}},
		{"hsl(-120, 100%, 50%)", Color{0, 0, 255, 255}},
		{"hsl(0, 0%, 100%)", White},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseColor(tt.spec)
			if err != nil {
				t.Fatalf("ParseColor(%q) failed: %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q): got %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseColor_Invalid(t *testing.T) {
	specs := []string{
		"",
		"notacolor",
		"#12",
		"#12345",
		"#ggg",
		"#12345z",
		"rgb(1,2)",
		"rgb(256,0,0)",
		"rgb(-1,0,0)",
		"rgba(1,2,3)",
		"rgb(1,2,3",
		"hsl(0, 50, 50%)",
		"hsl(x, 50%, 50%)",
		"hsl(0, 150%, 50%)",
	}

	for _, spec := range specs {
		t.Run(spec, func(t *testing.T) {
			_, err := ParseColor(spec)
			if !errors.Is(err, ErrInvalidColor) {
				t.Errorf("ParseColor(%q): got %v, want ErrInvalidColor", spec, err)
			}
		})
	}
}

func TestColor_Hex(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{White, "#FFFFFF"},
		{Color{0x12, 0xab, 0x00, 255}, "#12AB00"},
		{Color{1, 2, 3, 4}, "#01020304"},
	}
	for _, tt := range tests {
		if got := tt.c.Hex(); got != tt.want {
			t.Errorf("%+v.Hex(): got %s, want %s", tt.c, got, tt.want)
		}
	}
}

func TestColor_HSL(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want HSLColor
	}{
		{"red", Color{255, 0, 0, 255}, HSLColor{0, 100, 50}},
		{"blue", Color{0, 0, 255, 255}, HSLColor{240, 100, 50}},
		{"white", White, HSLColor{0, 0, 100}},
		{"black", Color{0, 0, 0, 255}, HSLColor{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.HSL(); got != tt.want {
				t.Errorf("HSL(): got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDescribeColor(t *testing.T) {
	res, err := DescribeColor("#00ff0080")
	if err != nil {
		t.Fatalf("DescribeColor failed: %v", err)
	}
	if res.Hex != "#00FF0080" {
		t.Errorf("Hex: got %s, want #00FF0080", res.Hex)
	}
	if res.Opaque {
		t.Error("half-transparent color reported opaque")
	}
	if res.HSL.H != 120 {
		t.Errorf("HSL hue: got %d, want 120", res.HSL.H)
	}
	if res.Input != "#00ff0080" {
		t.Errorf("Input not preserved: %q", res.Input)
	}

	if _, err := DescribeColor("nope"); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("got %v, want ErrInvalidColor", err)
	}
}
