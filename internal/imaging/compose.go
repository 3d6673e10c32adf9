package imaging

import (
	"fmt"
	"image"
	"runtime"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// Result is a composited strip.
type Result struct {
	// Image is the canvas. When Transparent is false every pixel is opaque
	// and encoders may treat it as RGB.
	Image *image.NRGBA

	// Layout is the geometry the canvas was built from.
	Layout *Layout

	// Transparent is set when an input image has transparency or the border
	// color is not opaque.
	Transparent bool
}

// CrossOffsets returns each placement's offset along the cross axis.
func (l *Layout) CrossOffsets() []int {
	offsets := make([]int, len(l.Placements))
	for i, p := range l.Placements {
		offsets[i] = p.Y
		if l.Orientation == Vertical {
			offsets[i] = p.X
		}
	}
	return offsets
}

// Compose builds the strip canvas and places every image on it.
//
// The canvas is allocated already filled with the border color, so the
// outer frame and the gaps between images are never drawn separately.
// Each image is then harmonized according to its plan and placed at its
// layout rectangle: images with transparency are composited over the fill,
// opaque images overwrite it.
//
// Harmonizing and placing run concurrently, one worker per image up to
// GOMAXPROCS. Every worker writes only its own rectangle of the canvas, so
// the result does not depend on completion order, and each harmonized image
// is dropped as soon as it has been placed.
//
// # Errors
//
//   - ErrEmptyInput when fewer than two images are given
//   - ErrInvalidParameter when plans or offsets do not match the images
func Compose(images []image.Image, plans []ResizePlan, crossOffsets []int, o Orientation, border Border) (*Result, error) {
	if len(images) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrEmptyInput, len(images))
	}
	if len(plans) != len(images) {
		return nil, fmt.Errorf("%w: %d images but %d resize plans", ErrInvalidParameter, len(images), len(plans))
	}
	if err := border.Validate(); err != nil {
		return nil, err
	}

	layout, err := NewLayout(plans, crossOffsets, o, border.Thickness)
	if err != nil {
		return nil, err
	}

	transparent := !border.Color.Opaque()
	overlay := make([]bool, len(images))
	for i, img := range images {
		overlay[i] = HasTransparency(img)
		transparent = transparent || overlay[i]
	}

	canvas := imaging.New(layout.Canvas.Width, layout.Canvas.Height, border.Color.NRGBA())

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range images {
		g.Go(func() error {
			harmonized, err := plans[i].Apply(images[i])
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			placement := layout.Placements[i]
			if got := SizeOf(harmonized); got != placement.Size {
				return fmt.Errorf("%w: image %d harmonized to %s, layout expects %s",
					ErrInvalidParameter, i, got, placement.Size)
			}
			blit(canvas, harmonized, placement.Rect(), overlay[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Result{Image: canvas, Layout: layout, Transparent: transparent}, nil
}

// Merge plans and composes a strip in one call.
func Merge(images []image.Image, opts Options) (*Result, error) {
	if len(images) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrEmptyInput, len(images))
	}
	sizes := make([]Dimensions, len(images))
	for i, img := range images {
		sizes[i] = SizeOf(img)
	}

	layout, plans, err := PlanStrip(sizes, opts)
	if err != nil {
		return nil, err
	}
	return Compose(images, plans, layout.CrossOffsets(), opts.Orientation, opts.Border)
}

// blit places src into r of dst. With overlay set, src is composited over
// the existing pixels; otherwise its rows are copied and forced opaque.
func blit(dst, src *image.NRGBA, r image.Rectangle, overlay bool) {
	if overlay {
		draw.Draw(dst, r, src, src.Rect.Min, draw.Over)
		return
	}
	rowLen := 4 * r.Dx()
	for y := 0; y < r.Dy(); y++ {
		di := dst.PixOffset(r.Min.X, r.Min.Y+y)
		si := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		row := dst.Pix[di : di+rowLen]
		copy(row, src.Pix[si:si+rowLen])
		for a := 3; a < rowLen; a += 4 {
			row[a] = 0xff
		}
	}
}
