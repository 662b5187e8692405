package analysis

import "github.com/san-kum/tipsim/internal/model"

// Stability is the fraction of observed states above the critical
// threshold. It satisfies sim.Metric.
type Stability struct {
	aridity    float64
	violations int
	samples    int
}

func NewStability(aridity float64) *Stability {
	return &Stability{aridity: aridity}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(step int, cover float64) {
	s.samples++
	if model.InForcedDecline(cover, s.aridity) {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// CollapseStep records the first step at or below the threshold, -1 if none.
type CollapseStep struct {
	aridity float64
	first   int
}

func NewCollapseStep(aridity float64) *CollapseStep {
	return &CollapseStep{aridity: aridity, first: -1}
}

func (c *CollapseStep) Name() string { return "collapse_step" }

func (c *CollapseStep) Observe(step int, cover float64) {
	if c.first < 0 && model.InForcedDecline(cover, c.aridity) {
		c.first = step
	}
}

func (c *CollapseStep) Value() float64 { return float64(c.first) }
func (c *CollapseStep) Reset()         { c.first = -1 }
