package sweep

import "errors"

// ErrInvalidSweep indicates a degenerate request: an empty axis, k < 1, or
// an unknown surface kind.
var ErrInvalidSweep = errors.New("sweep: invalid sweep request")
