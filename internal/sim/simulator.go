package sim

import "github.com/san-kum/tipsim/internal/model"

type Simulator struct {
	aridity   float64
	rates     model.RateParameters
	metrics   []Metric
	observers []Observer
}

func New(aridity float64, rates model.RateParameters) *Simulator {
	return &Simulator{
		aridity:   aridity,
		rates:     rates,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Aridity() float64             { return s.aridity }
func (s *Simulator) Rates() model.RateParameters { return s.rates }

// Trajectory returns k covers starting at c0. k <= 0 yields an empty
// trajectory.
func (s *Simulator) Trajectory(c0 float64, k int) Trajectory {
	if k <= 0 {
		return Trajectory{}
	}
	traj := make(Trajectory, 1, k)
	traj[0] = c0
	for len(traj) < k {
		traj = append(traj, model.NextStep(traj[len(traj)-1], s.aridity, s.rates))
	}
	return traj
}

// Run builds a k-step trajectory and feeds every state to the attached
// metrics and observers.
func (s *Simulator) Run(c0 float64, k int) *Result {
	for _, m := range s.metrics {
		m.Reset()
	}

	traj := s.Trajectory(c0, k)
	for i, c := range traj {
		for _, m := range s.metrics {
			m.Observe(i, c)
		}
		for _, obs := range s.observers {
			obs.OnStep(i, c)
		}
	}

	result := &Result{
		Trajectory: traj,
		Aridity:    s.aridity,
		Rates:      s.rates,
		Metrics:    make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result
}

// Iterate steps from c0, calling fn with the current state before each step.
// It stops when fn returns false (stopped is true) or after maxSteps steps.
// The state reached by the last step is returned but not passed to fn.
func (s *Simulator) Iterate(c0 float64, maxSteps int, fn func(step int, cover float64) bool) (steps int, cover float64, stopped bool) {
	cover = c0
	for steps < maxSteps {
		if !fn(steps, cover) {
			return steps, cover, true
		}
		cover = model.NextStep(cover, s.aridity, s.rates)
		steps++
	}
	return steps, cover, false
}

// KSteps is the stateless form of Simulator.Trajectory.
func KSteps(c0, aridity float64, k int, rates model.RateParameters) Trajectory {
	return New(aridity, rates).Trajectory(c0, k)
}
