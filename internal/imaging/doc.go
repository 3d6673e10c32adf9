// Package imaging builds image strips: it harmonizes the sizes of a set of
// images, aligns them, and composites them side by side or stacked on a
// single canvas with a uniform border.
//
// The package covers every stage of a strip except orchestration:
//
//   - ParseColor resolves border color specifications.
//   - PlanResize decides, per image, whether to resample, crop or keep it.
//   - PlanAlignment positions images along the cross axis.
//   - NewLayout and PlanStrip compute the canvas and every image rectangle.
//   - Compose fills the canvas with the border color and places each image.
//   - Encode writes PNG, JPEG or WebP output.
//   - Source loads images from local paths or http(s) URLs.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner.
// Rectangles have an inclusive Min and an exclusive Max.
//
// # Axes
//
// The main axis is the one images are concatenated along (X for Horizontal,
// Y for Vertical). The cross axis is perpendicular to it; resize strategies
// and alignment only ever look at cross-axis extents.
//
// # Thread Safety
//
// Source is safe for concurrent use. Every other function is pure with
// respect to its inputs: images passed in are never modified and every
// derived image is a new value.
//
// # Error Handling
//
// Errors wrap one of ErrInvalidColor, ErrEmptyInput, ErrDecode,
// ErrInvalidParameter or ErrEncode and can be matched with errors.Is.
package imaging
