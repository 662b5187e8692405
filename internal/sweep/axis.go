package sweep

import "fmt"

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: axis needs at least one point, got %d", ErrInvalidSweep, n)
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out, nil
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out, nil
}

// AxisSpec describes one sweep axis, either as explicit values or as an
// evenly spaced range.
type AxisSpec struct {
	Min    float64   `yaml:"min" json:"min"`
	Max    float64   `yaml:"max" json:"max"`
	N      int       `yaml:"n" json:"n"`
	Values []float64 `yaml:"values,omitempty" json:"values,omitempty"`
}

func (a AxisSpec) Resolve() ([]float64, error) {
	if len(a.Values) > 0 {
		out := make([]float64, len(a.Values))
		copy(out, a.Values)
		return out, nil
	}
	return Linspace(a.Min, a.Max, a.N)
}
