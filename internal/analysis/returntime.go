package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/tipsim/internal/model"
	"github.com/san-kum/tipsim/internal/sim"
)

// CollapseSentinel is the step value plotted for collapsed cells.
const CollapseSentinel = -10

// Kind enumerates the states of a return-time search. Running is never
// returned; it is the zero value of an unfinished search.
type Kind int

const (
	Running Kind = iota
	KindCollapsed
	KindConverged
	KindExhausted
)

func (k Kind) String() string {
	switch k {
	case KindCollapsed:
		return "collapsed"
	case KindConverged:
		return "converged"
	case KindExhausted:
		return "exhausted"
	}
	return "running"
}

// Outcome is one of Collapsed, Converged or Exhausted.
type Outcome interface {
	Kind() Kind
	String() string
	outcome()
}

// Collapsed means cover reached the forced-decline region before the forest state.
type Collapsed struct {
	Steps int
	Cover float64
}

// Converged means cover came within eps of the forest state after Steps steps.
type Converged struct {
	Steps int
	Cover float64
}

// Exhausted means the step budget ran out.
type Exhausted struct {
	Steps int
	Cover float64
}

func (Collapsed) Kind() Kind { return KindCollapsed }
func (Converged) Kind() Kind { return KindConverged }
func (Exhausted) Kind() Kind { return KindExhausted }

func (Collapsed) outcome() {}
func (Converged) outcome() {}
func (Exhausted) outcome() {}

func (o Collapsed) String() string {
	return fmt.Sprintf("collapsed after %d steps (cover %.6f)", o.Steps, o.Cover)
}

func (o Converged) String() string {
	return fmt.Sprintf("converged in %d steps", o.Steps)
}

func (o Exhausted) String() string {
	return fmt.Sprintf("no convergence within %d steps (cover %.6f)", o.Steps, o.Cover)
}

// StepsOrSentinel flattens an outcome to a plottable number: the step count
// when converged, CollapseSentinel when collapsed, +Inf when exhausted.
func StepsOrSentinel(o Outcome) float64 {
	switch o := o.(type) {
	case Converged:
		return float64(o.Steps)
	case Collapsed:
		return CollapseSentinel
	}
	return math.Inf(1)
}

type ReturnOptions struct {
	MaxSteps int     `yaml:"max_steps" json:"max_steps"`
	Eps      float64 `yaml:"eps" json:"eps"`
}

func DefaultReturnOptions() ReturnOptions {
	return ReturnOptions{MaxSteps: 1000, Eps: 1e-6}
}

// ReturnTime steps from initial until cover collapses, reaches the forest
// state, or MaxSteps steps have been taken. Collapse is checked before
// convergence on every step.
func ReturnTime(initial, aridity float64, rates model.RateParameters, opts ReturnOptions) Outcome {
	target := model.ForestState(rates)

	var out Outcome
	s := sim.New(aridity, rates)
	steps, cover, stopped := s.Iterate(initial, opts.MaxSteps, func(step int, c float64) bool {
		switch {
		case model.InForcedDecline(c, aridity):
			out = Collapsed{Steps: step, Cover: c}
			return false
		case math.Abs(c-target) <= opts.Eps:
			out = Converged{Steps: step, Cover: target}
			return false
		}
		return true
	})
	if stopped {
		return out
	}
	return Exhausted{Steps: steps, Cover: cover}
}
