package imaging

import "errors"

// Error kinds returned by this package. Callers match them with errors.Is;
// the concrete errors wrap them with the offending value.
var (
	// ErrInvalidColor reports a border color that is neither hex nor a known name.
	ErrInvalidColor = errors.New("invalid color")

	// ErrEmptyInput reports fewer than two images.
	ErrEmptyInput = errors.New("at least two images are required")

	// ErrDecode reports an image reference that could not be resolved or decoded.
	ErrDecode = errors.New("decode failed")

	// ErrInvalidParameter reports an unknown enum value or an out-of-range number.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrEncode reports an output serialization failure.
	ErrEncode = errors.New("encode failed")
)
