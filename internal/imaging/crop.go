package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Crop extracts a rectangular region from an image.
//
// rect is relative to the image origin: (0,0) is the top-left pixel even
// when img.Bounds().Min is not zero. Min is inclusive, Max is exclusive.
// The result is a new image anchored at (0,0).
func Crop(img image.Image, rect image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()
	abs := rect.Add(bounds.Min)

	if !abs.In(bounds) {
		return nil, fmt.Errorf("%w: crop region (%d,%d)-(%d,%d) outside image bounds %dx%d",
			ErrInvalidParameter, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y, bounds.Dx(), bounds.Dy())
	}
	if rect.Empty() {
		return nil, fmt.Errorf("%w: empty crop region (%d,%d)-(%d,%d)",
			ErrInvalidParameter, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y)
	}

	return imaging.Crop(img, abs), nil
}

// toNRGBA returns img as an NRGBA image anchored at the origin, converting
// only when needed.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}

// HasTransparency reports whether any pixel of img is not fully opaque.
// Images whose type cannot report opacity are assumed to be transparent.
func HasTransparency(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return true
}
