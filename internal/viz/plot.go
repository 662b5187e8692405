package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/tipsim/internal/analysis"
	"github.com/san-kum/tipsim/internal/model"
	"github.com/san-kum/tipsim/internal/sim"
)

// PlotOptions sizes a terminal plot. Zero values pick the defaults.
type PlotOptions struct {
	Width   int
	Height  int
	Caption string
}

func (o PlotOptions) graphOptions() []asciigraph.Option {
	opts := []asciigraph.Option{asciigraph.Precision(3)}
	if o.Width > 0 {
		opts = append(opts, asciigraph.Width(o.Width))
	}
	h := o.Height
	if h <= 0 {
		h = 12
	}
	opts = append(opts, asciigraph.Height(h))
	if o.Caption != "" {
		opts = append(opts, asciigraph.Caption(o.Caption))
	}
	return opts
}

// PlotTrajectory draws the cover trajectory together with the threshold
// and the forest state as flat reference lines.
func PlotTrajectory(traj sim.Trajectory, aridity float64, rates model.RateParameters, o PlotOptions) string {
	if len(traj) == 0 {
		return "(empty trajectory)\n"
	}
	series := traj
	if len(series) == 1 {
		// asciigraph needs two points to draw a line
		series = sim.Trajectory{traj[0], traj[0]}
	}

	crit := flat(len(series), model.CCrit(aridity))
	forest := flat(len(series), model.ForestState(rates))

	lo, hi := series.Bounds()
	lo = math.Min(lo, math.Min(crit[0], forest[0]))
	hi = math.Max(hi, math.Max(crit[0], forest[0]))

	if o.Caption == "" {
		o.Caption = fmt.Sprintf("cover  a=%.3g  %s", aridity, rates)
	}
	opts := append(o.graphOptions(),
		asciigraph.LowerBound(lo),
		asciigraph.UpperBound(hi),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red, asciigraph.Yellow),
		asciigraph.SeriesLegends("cover", "c_crit", "forest state"),
	)
	return asciigraph.PlotMany([][]float64{series, crit, forest}, opts...)
}

// PlotSeries draws one or more aligned series, for example rows of a
// cover surface. Series with fewer than two points are skipped.
func PlotSeries(series [][]float64, o PlotOptions) string {
	var data [][]float64
	for _, s := range series {
		if len(s) >= 2 {
			data = append(data, s)
		}
	}
	if len(data) == 0 {
		return "(no data)\n"
	}
	return asciigraph.PlotMany(data, o.graphOptions()...)
}

// PlotBifurcation draws the upper and lower branches of the recorded
// attractor against the aridity index.
func PlotBifurcation(points []analysis.BifurcationPoint, o PlotOptions) string {
	var upper, lower []float64
	for _, p := range points {
		if len(p.Values) == 0 {
			continue
		}
		lo, hi := sim.Trajectory(p.Values).Bounds()
		upper = append(upper, hi)
		lower = append(lower, lo)
	}
	if len(upper) < 2 {
		return "(not enough aridity samples)\n"
	}
	if o.Caption == "" {
		o.Caption = fmt.Sprintf("attractor  a=%.3g..%.3g", points[0].Aridity, points[len(points)-1].Aridity)
	}
	opts := append(o.graphOptions(),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Yellow),
		asciigraph.SeriesLegends("max", "min"),
	)
	return asciigraph.PlotMany([][]float64{upper, lower}, opts...)
}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
