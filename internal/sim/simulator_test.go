package sim

import (
	"math"
	"testing"

	"github.com/san-kum/tipsim/internal/model"
)

func TestKSteps_Length(t *testing.T) {
	rates := model.DefaultRates()
	for _, k := range []int{1, 2, 10, 50} {
		traj := KSteps(0.81, 0.6, k, rates)
		if len(traj) != k {
			t.Errorf("k=%d: expected %d states, got %d", k, k, len(traj))
		}
		if traj[0] != 0.81 {
			t.Errorf("k=%d: initial cover changed to %v", k, traj[0])
		}
	}
}

func TestKSteps_Singleton(t *testing.T) {
	for _, c0 := range []float64{0, 0.3, 1.7, -0.2} {
		traj := KSteps(c0, 1.2, 1, model.DefaultRates())
		if len(traj) != 1 || traj[0] != c0 {
			t.Errorf("KSteps(%v, k=1) = %v", c0, traj)
		}
	}
}

func TestKSteps_Degenerate(t *testing.T) {
	for _, k := range []int{0, -3} {
		if traj := KSteps(0.5, 0.5, k, model.DefaultRates()); len(traj) != 0 {
			t.Errorf("k=%d: expected empty trajectory, got %v", k, traj)
		}
	}
}

func TestKSteps_MatchesStepRule(t *testing.T) {
	rates := model.DefaultRates()
	traj := KSteps(0.4, 0.9, 20, rates)
	for i := 1; i < len(traj); i++ {
		if want := model.NextStep(traj[i-1], 0.9, rates); traj[i] != want {
			t.Fatalf("step %d: got %v, want %v", i, traj[i], want)
		}
	}
}

func TestTrajectory_Helpers(t *testing.T) {
	traj := Trajectory{0.5, 0.2, 0.9}
	lo, hi := traj.Bounds()
	if lo != 0.2 || hi != 0.9 {
		t.Errorf("Bounds() = %v, %v", lo, hi)
	}
	if f, ok := traj.Final(); !ok || f != 0.9 {
		t.Errorf("Final() = %v, %v", f, ok)
	}
	if _, ok := (Trajectory{}).Final(); ok {
		t.Error("Final() on empty trajectory should report false")
	}
	if !traj.IsValid() {
		t.Error("finite trajectory reported invalid")
	}
	if (Trajectory{1, math.NaN()}).IsValid() {
		t.Error("NaN trajectory reported valid")
	}

	c := traj.Clone()
	c[0] = 99
	if traj[0] == 99 {
		t.Error("Clone did not create independent copy")
	}
}

func TestIterate_Budget(t *testing.T) {
	s := New(0.2, model.DefaultRates())
	calls := 0
	steps, _, stopped := s.Iterate(0.5, 25, func(step int, cover float64) bool {
		if step != calls {
			t.Errorf("expected step %d, got %d", calls, step)
		}
		calls++
		return true
	})
	if stopped {
		t.Error("iteration should exhaust its budget")
	}
	if steps != 25 || calls != 25 {
		t.Errorf("expected 25 steps and calls, got %d steps %d calls", steps, calls)
	}
}

func TestIterate_Stop(t *testing.T) {
	s := New(0.2, model.DefaultRates())
	steps, cover, stopped := s.Iterate(0.5, 100, func(step int, cover float64) bool {
		return step < 3
	})
	if !stopped || steps != 3 {
		t.Errorf("expected stop at step 3, got %d (stopped=%v)", steps, stopped)
	}
	if want := KSteps(0.5, 0.2, 4, model.DefaultRates())[3]; cover != want {
		t.Errorf("cover at stop = %v, want %v", cover, want)
	}
}

type countMetric struct {
	count int
	sum   float64
}

func (c *countMetric) Name() string { return "mean" }
func (c *countMetric) Observe(step int, cover float64) {
	c.count++
	c.sum += cover
}
func (c *countMetric) Value() float64 {
	if c.count == 0 {
		return 0
	}
	return c.sum / float64(c.count)
}
func (c *countMetric) Reset() { c.count, c.sum = 0, 0 }

type recorder struct{ steps []int }

func (r *recorder) OnStep(step int, cover float64) { r.steps = append(r.steps, step) }

func TestSimulatorRun_Metrics(t *testing.T) {
	s := New(0.5, model.DefaultRates())
	metric := &countMetric{}
	rec := &recorder{}
	s.AddMetric(metric)
	s.AddObserver(rec)

	result := s.Run(0.81, 10)
	if len(result.Trajectory) != 10 {
		t.Fatalf("expected 10 states, got %d", len(result.Trajectory))
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
	if _, ok := result.Metrics["mean"]; !ok {
		t.Error("metric not found in result")
	}
	if len(rec.steps) != 10 || rec.steps[9] != 9 {
		t.Errorf("observer saw steps %v", rec.steps)
	}

	s.Run(0.81, 4)
	if metric.count != 4 {
		t.Errorf("metric not reset between runs: %d observations", metric.count)
	}
}
