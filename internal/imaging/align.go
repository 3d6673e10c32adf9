package imaging

import "fmt"

// PlanAlignment returns, for each cross extent, the offset of the image from
// the strip's cross-axis origin. Offsets include the leading border, so an
// image aligned to the start sits at exactly border.
//
// stripCross is the inner cross extent of the strip, i.e. the largest
// post-resize cross extent. Centering uses floor division, so an odd
// remainder pixel ends up on the trailing side and the image leans toward
// the leading edge.
//
// # Errors
//
// Returns an error wrapping ErrInvalidParameter when an extent is not
// positive or exceeds stripCross, when border is negative, or when the
// alignment is unknown.
func PlanAlignment(crossExtents []int, stripCross int, a Alignment, border int) ([]int, error) {
	if border < 0 {
		return nil, fmt.Errorf("%w: border thickness %d is negative", ErrInvalidParameter, border)
	}
	offsets := make([]int, len(crossExtents))
	for i, extent := range crossExtents {
		if extent <= 0 || extent > stripCross {
			return nil, fmt.Errorf("%w: image %d cross extent %d does not fit strip extent %d",
				ErrInvalidParameter, i, extent, stripCross)
		}
		switch a {
		case AlignStart:
			offsets[i] = border
		case AlignCenter:
			offsets[i] = border + (stripCross-extent)/2
		case AlignEnd:
			offsets[i] = border + stripCross - extent
		default:
			return nil, fmt.Errorf("%w: unknown alignment %d", ErrInvalidParameter, int(a))
		}
	}
	return offsets, nil
}
