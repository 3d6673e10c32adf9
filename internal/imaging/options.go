package imaging

import (
	"fmt"
	"strings"
)

// Orientation selects the axis along which images are concatenated.
type Orientation int

const (
	// Horizontal places images left to right; the main axis is X.
	Horizontal Orientation = iota
	// Vertical places images top to bottom; the main axis is Y.
	Vertical
)

var orientationNames = []string{"horizontal", "vertical"}

// ParseOrientation resolves an orientation name.
func ParseOrientation(s string) (Orientation, error) {
	i, err := parseEnum("orientation", s, orientationNames)
	return Orientation(i), err
}

func (o Orientation) String() string { return enumName(int(o), orientationNames) }

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(b []byte) error {
	v, err := ParseOrientation(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Alignment positions an image along the cross axis of the strip.
type Alignment int

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
)

var alignmentNames = []string{"start", "center", "end"}

// ParseAlignment resolves an alignment name.
func ParseAlignment(s string) (Alignment, error) {
	i, err := parseEnum("alignment", s, alignmentNames)
	return Alignment(i), err
}

func (a Alignment) String() string { return enumName(int(a), alignmentNames) }

// MarshalText implements encoding.TextMarshaler.
func (a Alignment) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Alignment) UnmarshalText(b []byte) error {
	v, err := ParseAlignment(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ResizeStrategy decides how mismatched cross-axis extents are reconciled.
type ResizeStrategy int

const (
	// ResizeNone keeps every image at its native size.
	ResizeNone ResizeStrategy = iota
	// MagnifySmaller scales smaller images up to the largest cross extent.
	MagnifySmaller
	// ReduceLarger scales larger images down to the smallest cross extent.
	ReduceLarger
	// CropLarger center-crops larger images to the smallest cross extent.
	CropLarger
)

var strategyNames = []string{"none", "magnify_smaller", "reduce_larger", "crop_larger"}

// ParseResizeStrategy resolves a resize strategy name.
func ParseResizeStrategy(s string) (ResizeStrategy, error) {
	i, err := parseEnum("resize strategy", s, strategyNames)
	return ResizeStrategy(i), err
}

func (r ResizeStrategy) String() string { return enumName(int(r), strategyNames) }

// MarshalText implements encoding.TextMarshaler.
func (r ResizeStrategy) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *ResizeStrategy) UnmarshalText(b []byte) error {
	v, err := ParseResizeStrategy(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Format is an output encoding.
type Format int

const (
	FormatWebP Format = iota
	FormatJPG
	FormatJPEG
	FormatPNG
)

var formatNames = []string{"webp", "jpg", "jpeg", "png"}

// ParseFormat resolves an output format name. A leading dot is accepted so
// that file extensions can be passed directly.
func ParseFormat(s string) (Format, error) {
	i, err := parseEnum("output format", strings.TrimPrefix(s, "."), formatNames)
	return Format(i), err
}

func (f Format) String() string { return enumName(int(f), formatNames) }

// Extension returns the file extension without a dot. Both JPEG spellings
// map to "jpg".
func (f Format) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return f.String()
}

// MimeType returns the media type of encoded output.
func (f Format) MimeType() string {
	switch f {
	case FormatJPG, FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	default:
		return "image/webp"
	}
}

// Lossy reports whether quality affects the encoding.
func (f Format) Lossy() bool { return f != FormatPNG }

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(b []byte) error {
	v, err := ParseFormat(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// OutputSpec selects the output encoding. Quality is 1-100 and only
// meaningful for lossy formats.
type OutputSpec struct {
	Format  Format `json:"format" yaml:"format"`
	Quality int    `json:"quality" yaml:"quality"`
}

// Validate checks the quality range.
func (o OutputSpec) Validate() error {
	if o.Quality < 1 || o.Quality > 100 {
		return fmt.Errorf("%w: quality %d outside 1-100", ErrInvalidParameter, o.Quality)
	}
	return nil
}

// Border is the uniform frame drawn around and between images.
type Border struct {
	Thickness int   `json:"thickness"`
	Color     Color `json:"color"`
}

// Validate rejects negative thickness.
func (b Border) Validate() error {
	if b.Thickness < 0 {
		return fmt.Errorf("%w: border thickness %d is negative", ErrInvalidParameter, b.Thickness)
	}
	if b.Thickness > MaxCanvasPixels {
		return fmt.Errorf("%w: border thickness %d exceeds %d", ErrInvalidParameter, b.Thickness, MaxCanvasPixels)
	}
	return nil
}

// Options configures the geometry of a strip.
type Options struct {
	Orientation     Orientation
	Alignment       Alignment
	Strategy        ResizeStrategy
	KeepAspectRatio bool
	Border          Border
}

// DefaultOptions returns horizontal, centered, reduce_larger with aspect
// ratio kept and no border.
func DefaultOptions() Options {
	return Options{
		Orientation:     Horizontal,
		Alignment:       AlignCenter,
		Strategy:        ReduceLarger,
		KeepAspectRatio: true,
		Border:          Border{Color: White},
	}
}

func parseEnum(kind, s string, names []string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == key {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown %s %q (want one of %s)",
		ErrInvalidParameter, kind, s, strings.Join(names, ", "))
}

func enumName(i int, names []string) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("unknown(%d)", i)
	}
	return names[i]
}
