package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Dimensions is a width and height in pixels.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SizeOf returns the dimensions of img.
func SizeOf(img image.Image) Dimensions {
	b := img.Bounds()
	return Dimensions{Width: b.Dx(), Height: b.Dy()}
}

// DimensionsFor builds dimensions from extents along the main and cross
// axes of orientation o.
func DimensionsFor(o Orientation, main, cross int) Dimensions {
	if o == Vertical {
		return Dimensions{Width: cross, Height: main}
	}
	return Dimensions{Width: main, Height: cross}
}

// Main returns the extent along the strip (width for horizontal strips).
func (d Dimensions) Main(o Orientation) int {
	if o == Vertical {
		return d.Height
	}
	return d.Width
}

// Cross returns the extent perpendicular to the strip.
func (d Dimensions) Cross(o Orientation) int {
	if o == Vertical {
		return d.Width
	}
	return d.Height
}

// Valid reports whether both extents are positive.
func (d Dimensions) Valid() bool { return d.Width > 0 && d.Height > 0 }

func (d Dimensions) String() string { return fmt.Sprintf("%dx%d", d.Width, d.Height) }

// ResizeAction is the kind of work a ResizePlan performs.
type ResizeAction int

const (
	// ActionNone keeps the image as is.
	ActionNone ResizeAction = iota
	// ActionResample scales the image to the target dimensions.
	ActionResample
	// ActionCrop cuts the target dimensions out of the image at Offset.
	ActionCrop
)

var actionNames = []string{"none", "resample", "crop"}

func (a ResizeAction) String() string { return enumName(int(a), actionNames) }

// MarshalText implements encoding.TextMarshaler.
func (a ResizeAction) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *ResizeAction) UnmarshalText(b []byte) error {
	i, err := parseEnum("resize action", string(b), actionNames)
	if err != nil {
		return err
	}
	*a = ResizeAction(i)
	return nil
}

// ResizePlan describes how one image is harmonized before compositing.
//
// Target is the size of the image after the plan is applied; for ActionNone
// it equals the source size. Offset is the top-left corner of the crop
// rectangle, relative to the image origin, and is only set for ActionCrop.
type ResizePlan struct {
	Action ResizeAction `json:"action"`
	Source Dimensions   `json:"source"`
	Target Dimensions   `json:"target"`
	Offset image.Point  `json:"offset"`
}

// PlanResize computes a per-image resize plan for sizes so that, depending
// on strategy, the images share a common cross-axis extent.
//
// Strategies:
//   - ResizeNone: every plan is a no-op.
//   - MagnifySmaller: the target is the largest cross extent; smaller images
//     are resampled up.
//   - ReduceLarger: the target is the smallest cross extent; larger images
//     are resampled down.
//   - CropLarger: the target is the smallest cross extent; larger images are
//     center-cropped on the cross axis. The main axis is never changed.
//
// When keepAspect is set, resampling scales the main axis by the same factor
// as the cross axis, rounded half to even and never below one pixel.
// Otherwise only the cross axis is forced.
//
// The cross axis is orientation-relative: height for Horizontal, width for
// Vertical. A single size, or sizes that already share a cross extent,
// always yield no-op plans.
//
// # Errors
//
// Returns an error wrapping ErrInvalidParameter if any size is not positive
// or the strategy is unknown.
func PlanResize(sizes []Dimensions, o Orientation, strategy ResizeStrategy, keepAspect bool) ([]ResizePlan, error) {
	plans := make([]ResizePlan, len(sizes))
	minCross, maxCross := math.MaxInt, 0
	for i, d := range sizes {
		if !d.Valid() {
			return nil, fmt.Errorf("%w: image %d has invalid size %s", ErrInvalidParameter, i, d)
		}
		plans[i] = ResizePlan{Action: ActionNone, Source: d, Target: d}
		minCross = min(minCross, d.Cross(o))
		maxCross = max(maxCross, d.Cross(o))
	}

	if len(sizes) < 2 || minCross == maxCross {
		return plans, nil
	}

	switch strategy {
	case ResizeNone:
	case MagnifySmaller:
		for i, d := range sizes {
			if d.Cross(o) < maxCross {
				plans[i] = resamplePlan(d, o, maxCross, keepAspect)
			}
		}
	case ReduceLarger:
		for i, d := range sizes {
			if d.Cross(o) > minCross {
				plans[i] = resamplePlan(d, o, minCross, keepAspect)
			}
		}
	case CropLarger:
		for i, d := range sizes {
			if d.Cross(o) > minCross {
				plans[i] = cropPlan(d, o, minCross)
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown resize strategy %d", ErrInvalidParameter, int(strategy))
	}
	return plans, nil
}

func resamplePlan(d Dimensions, o Orientation, target int, keepAspect bool) ResizePlan {
	main := d.Main(o)
	if keepAspect {
		scaled := math.RoundToEven(float64(main*target) / float64(d.Cross(o)))
		main = max(1, int(scaled))
	}
	return ResizePlan{
		Action: ActionResample,
		Source: d,
		Target: DimensionsFor(o, main, target),
	}
}

func cropPlan(d Dimensions, o Orientation, target int) ResizePlan {
	// Floor division leaves an odd excess pixel on the trailing edge.
	shift := (d.Cross(o) - target) / 2
	offset := image.Pt(0, shift)
	if o == Vertical {
		offset = image.Pt(shift, 0)
	}
	return ResizePlan{
		Action: ActionCrop,
		Source: d,
		Target: DimensionsFor(o, d.Main(o), target),
		Offset: offset,
	}
}

// Apply executes the plan on img. The input is never modified. For
// ActionNone img is only converted when it is not already an NRGBA image
// anchored at the origin, so the result must be treated as read-only.
//
// # Errors
//
// Returns an error wrapping ErrInvalidParameter if img does not have the
// size the plan was computed for.
func (p ResizePlan) Apply(img image.Image) (*image.NRGBA, error) {
	if got := SizeOf(img); got != p.Source {
		return nil, fmt.Errorf("%w: plan computed for %s, image is %s", ErrInvalidParameter, p.Source, got)
	}
	switch p.Action {
	case ActionResample:
		return imaging.Resize(img, p.Target.Width, p.Target.Height, imaging.Lanczos), nil
	case ActionCrop:
		rect := image.Rectangle{Min: p.Offset, Max: p.Offset.Add(image.Pt(p.Target.Width, p.Target.Height))}
		return Crop(img, rect)
	default:
		return toNRGBA(img), nil
	}
}
