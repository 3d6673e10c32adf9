package imaging

import (
	"fmt"
	"image"
)

// MaxCanvasPixels bounds the area of a strip canvas (1 GiB of NRGBA pixels).
const MaxCanvasPixels = 1 << 28

// Placement is where one harmonized image lands on the canvas.
type Placement struct {
	Index  int          `json:"index"`
	Action ResizeAction `json:"action"`
	Source Dimensions   `json:"source"`
	Size   Dimensions   `json:"size"`
	X      int          `json:"x"`
	Y      int          `json:"y"`
}

// Rect returns the canvas rectangle covered by the placed image.
func (p Placement) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Size.Width, p.Y+p.Size.Height)
}

// Layout is the geometry of one strip: the canvas size and every image's
// final rectangle, in input order.
type Layout struct {
	Orientation Orientation `json:"orientation"`
	Border      int         `json:"border"`
	Canvas      Dimensions  `json:"canvas"`
	Placements  []Placement `json:"placements"`
}

// NewLayout lays out harmonized images along the main axis.
//
// The canvas main extent is the sum of the images' main extents plus one
// border before the first image, one between each pair and one after the
// last. The cross extent is the largest image cross extent plus a border on
// each side. crossOffsets come from PlanAlignment and already include the
// leading border.
//
// # Errors
//
// Returns an error wrapping ErrInvalidParameter when the plan and offset
// counts differ, the border is negative, the canvas would exceed
// MaxCanvasPixels, or an offset would push an image outside the canvas.
func NewLayout(plans []ResizePlan, crossOffsets []int, o Orientation, border int) (*Layout, error) {
	if len(plans) != len(crossOffsets) {
		return nil, fmt.Errorf("%w: %d resize plans but %d alignment offsets",
			ErrInvalidParameter, len(plans), len(crossOffsets))
	}
	if border < 0 {
		return nil, fmt.Errorf("%w: border thickness %d is negative", ErrInvalidParameter, border)
	}

	if border > MaxCanvasPixels {
		return nil, canvasTooLarge(border)
	}

	// Every partial sum stays below MaxCanvasPixels, so nothing overflows.
	mainTotal, maxCross := border, 0
	for _, p := range plans {
		m := p.Target.Main(o)
		if m > MaxCanvasPixels || mainTotal+m+border > MaxCanvasPixels {
			return nil, canvasTooLarge(mainTotal + min(m, MaxCanvasPixels))
		}
		mainTotal += m + border
		maxCross = max(maxCross, p.Target.Cross(o))
	}
	cross := min(maxCross, MaxCanvasPixels) + 2*border
	if cross > MaxCanvasPixels || (cross > 0 && mainTotal > MaxCanvasPixels/cross) {
		return nil, fmt.Errorf("%w: canvas %s exceeds %d pixels",
			ErrInvalidParameter, DimensionsFor(o, mainTotal, cross), MaxCanvasPixels)
	}

	layout := &Layout{
		Orientation: o,
		Border:      border,
		Canvas:      DimensionsFor(o, mainTotal, cross),
		Placements:  make([]Placement, len(plans)),
	}
	canvas := image.Rect(0, 0, layout.Canvas.Width, layout.Canvas.Height)

	pos := border
	for i, p := range plans {
		x, y := pos, crossOffsets[i]
		if o == Vertical {
			x, y = y, x
		}
		pl := Placement{Index: i, Action: p.Action, Source: p.Source, Size: p.Target, X: x, Y: y}
		if !pl.Rect().In(canvas) {
			return nil, fmt.Errorf("%w: image %d at %v does not fit canvas %s",
				ErrInvalidParameter, i, pl.Rect(), layout.Canvas)
		}
		layout.Placements[i] = pl
		pos += p.Target.Main(o) + border
	}
	return layout, nil
}

func canvasTooLarge(extent int) error {
	return fmt.Errorf("%w: canvas extent %d exceeds %d pixels", ErrInvalidParameter, extent, MaxCanvasPixels)
}

// PlanStrip computes the complete geometry of a strip from the source sizes
// without touching any pixels.
func PlanStrip(sizes []Dimensions, opts Options) (*Layout, []ResizePlan, error) {
	if len(sizes) < 2 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrEmptyInput, len(sizes))
	}
	if err := opts.Border.Validate(); err != nil {
		return nil, nil, err
	}

	plans, err := PlanResize(sizes, opts.Orientation, opts.Strategy, opts.KeepAspectRatio)
	if err != nil {
		return nil, nil, err
	}

	extents := make([]int, len(plans))
	stripCross := 0
	for i, p := range plans {
		extents[i] = p.Target.Cross(opts.Orientation)
		stripCross = max(stripCross, extents[i])
	}
	offsets, err := PlanAlignment(extents, stripCross, opts.Alignment, opts.Border.Thickness)
	if err != nil {
		return nil, nil, err
	}

	layout, err := NewLayout(plans, offsets, opts.Orientation, opts.Border.Thickness)
	if err != nil {
		return nil, nil, err
	}
	return layout, plans, nil
}
