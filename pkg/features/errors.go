package features

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates caller input the pipeline cannot work with:
	// non-positive rows or cols, an empty or ragged grid, or parameter text
	// that is not an integer.
	ErrInvalidArgument = errors.New("features: invalid argument")

	// ErrNoImage indicates a computation was requested before any image was
	// loaded. It also matches ErrInvalidArgument under errors.Is.
	ErrNoImage = fmt.Errorf("%w: no image loaded", ErrInvalidArgument)
)

// invalidf wraps ErrInvalidArgument with a formatted detail message.
func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
