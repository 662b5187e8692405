package model

import "fmt"

// Rates of the reference parameterisation.
const (
	DefaultSaturationRate = 0.6  // r, logistic growth toward saturation
	DefaultDieRate        = 0.05 // d, linear die-off
)

// RateParameters holds the growth and die-off rates of one simulation.
// Values are copied, never shared.
type RateParameters struct {
	SaturationRate float64 `yaml:"saturation_rate" json:"saturation_rate"`
	DieRate        float64 `yaml:"die_rate" json:"die_rate"`
}

// DefaultRates returns the reference rates (r=0.6, d=0.05).
func DefaultRates() RateParameters {
	return RateParameters{SaturationRate: DefaultSaturationRate, DieRate: DefaultDieRate}
}

func (r RateParameters) WithSaturationRate(v float64) RateParameters {
	r.SaturationRate = v
	return r
}

func (r RateParameters) WithDieRate(v float64) RateParameters {
	r.DieRate = v
	return r
}

func (r RateParameters) GetParams() map[string]float64 {
	return map[string]float64{"saturation_rate": r.SaturationRate, "die_rate": r.DieRate}
}

// WithParam returns a copy with the named rate replaced.
func (r RateParameters) WithParam(name string, v float64) (RateParameters, error) {
	switch name {
	case "saturation_rate", "r":
		return r.WithSaturationRate(v), nil
	case "die_rate", "d":
		return r.WithDieRate(v), nil
	}
	return r, fmt.Errorf("%w: %q", ErrUnknownParam, name)
}

func (r RateParameters) String() string {
	return fmt.Sprintf("r=%.4g d=%.4g", r.SaturationRate, r.DieRate)
}
