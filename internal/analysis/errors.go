package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrDomainUndefined indicates a closed-form result with a zero or
	// negative denominator.
	ErrDomainUndefined = errors.New("analysis: result undefined for parameters")

	// ErrUnknownEquilibrium indicates an equilibrium tag other than forest or savanna.
	ErrUnknownEquilibrium = fmt.Errorf("%w: unknown equilibrium", ErrDomainUndefined)
)
