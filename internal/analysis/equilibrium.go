package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/tipsim/internal/model"
)

type Equilibrium string

const (
	Forest  Equilibrium = "F"
	Savanna Equilibrium = "S"
)

func ParseEquilibrium(s string) (Equilibrium, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f", "forest":
		return Forest, nil
	case "s", "savanna":
		return Savanna, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEquilibrium, s)
}

func (e Equilibrium) Name() string {
	switch e {
	case Forest:
		return "Forest State"
	case Savanna:
		return "Savanna State"
	}
	return string(e)
}

// CharReturnTime returns the linearised return time near eq. Undefined
// results come back as NaN together with an error wrapping
// ErrDomainUndefined.
func CharReturnTime(eq Equilibrium, rates model.RateParameters) (float64, error) {
	switch eq {
	case Forest:
		den := rates.SaturationRate - rates.DieRate
		if den <= 0 {
			return math.NaN(), fmt.Errorf("%w: forest return time needs saturation rate above die rate (%s)", ErrDomainUndefined, rates)
		}
		return 1 / den, nil
	case Savanna:
		if rates.DieRate == 0 {
			return math.NaN(), fmt.Errorf("%w: savanna return time needs a nonzero die rate", ErrDomainUndefined)
		}
		return 1 / rates.DieRate, nil
	}
	return math.NaN(), fmt.Errorf("%w: %q", ErrUnknownEquilibrium, string(eq))
}
