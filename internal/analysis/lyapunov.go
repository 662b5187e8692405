package analysis

import (
	"math"

	"github.com/san-kum/tipsim/internal/model"
)

// LyapunovExponent estimates the mean log stretching rate of the cover map
// by following two trajectories perturbation apart and renormalising the
// separation after every step. Negative values mean nearby states merge.
func LyapunovExponent(c0, aridity float64, rates model.RateParameters, steps int, perturbation float64) float64 {
	if steps <= 0 || perturbation == 0 {
		return 0
	}

	d0 := math.Abs(perturbation)
	x, xp := c0, c0+d0

	sumLog := 0.0
	count := 0
	for i := 0; i < steps; i++ {
		x = model.NextStep(x, aridity, rates)
		xp = model.NextStep(xp, aridity, rates)

		sep := math.Abs(xp - x)
		if sep > 0 {
			sumLog += math.Log(sep / d0)
			count++
		}

		xp = x + d0
	}

	if count == 0 {
		return 0
	}
	return sumLog / float64(count)
}
