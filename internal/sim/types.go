package sim

import (
	"math"

	"github.com/san-kum/tipsim/internal/model"
)

// Trajectory holds cover values; index 0 is the initial condition and index i
// the state after i steps.
type Trajectory []float64

func (t Trajectory) Clone() Trajectory {
	c := make(Trajectory, len(t))
	copy(c, t)
	return c
}

// Final returns the last cover value, or false for an empty trajectory.
func (t Trajectory) Final() (float64, bool) {
	if len(t) == 0 {
		return 0, false
	}
	return t[len(t)-1], true
}

func (t Trajectory) IsValid() bool {
	for _, v := range t {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Bounds returns the smallest and largest cover visited.
func (t Trajectory) Bounds() (lo, hi float64) {
	if len(t) == 0 {
		return 0, 0
	}
	lo, hi = t[0], t[0]
	for _, v := range t[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

type Observer interface {
	OnStep(step int, cover float64)
}

type Metric interface {
	Name() string
	Observe(step int, cover float64)
	Value() float64
	Reset()
}

type Result struct {
	Trajectory Trajectory
	Aridity    float64
	Rates      model.RateParameters
	Metrics    map[string]float64
}
