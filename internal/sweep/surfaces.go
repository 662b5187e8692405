package sweep

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/tipsim/internal/analysis"
	"github.com/san-kum/tipsim/internal/model"
	"github.com/san-kum/tipsim/internal/sim"
)

const (
	KindCover       = "cover"
	KindReturnTime  = "return"
	KindCharForest  = "char-forest"
	KindCharSavanna = "char-savanna"
	KindLyapunov    = "lyapunov"
)

const lyapunovPerturbation = 1e-8

// CoverTime builds the cover surface: row i is the k-step trajectory from c0
// at aridities[i], and column j is the trajectory index.
func (e *Engine) CoverTime(ctx context.Context, c0 float64, aridities []float64, k int, rates model.RateParameters) (*Surface, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: trajectory length must be at least 1, got %d", ErrInvalidSweep, k)
	}
	if len(aridities) == 0 {
		return nil, fmt.Errorf("%w: empty aridity axis", ErrInvalidSweep)
	}

	start := time.Now()
	steps := make([]float64, k)
	for i := range steps {
		steps[i] = float64(i)
	}

	s := newSurface(KindCover, steps, aridities)
	s.Title = fmt.Sprintf("Vegetation Cover over Time and Aridity for C_0=%g", c0)
	s.XTitle, s.YTitle, s.ZTitle = "Time", "Aridity", "Vegetation Cover"

	err := e.ParallelFor(ctx, len(aridities), func(i int) error {
		s.Z[i] = sim.KSteps(c0, aridities[i], k, rates)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("surface built", "kind", s.Kind, "cells", s.Cells(), "elapsed", time.Since(start))
	return s, nil
}

// ReturnTime builds the return-time surface: rows are aridities, columns are
// initial covers, and each cell holds analysis.StepsOrSentinel of the
// outcome. Outcomes keeps the tag of every cell.
func (e *Engine) ReturnTime(ctx context.Context, initials, aridities []float64, rates model.RateParameters, opts analysis.ReturnOptions) (*Surface, error) {
	if len(initials) == 0 || len(aridities) == 0 {
		return nil, fmt.Errorf("%w: return-time grid needs non-empty axes, got %dx%d", ErrInvalidSweep, len(aridities), len(initials))
	}

	start := time.Now()
	s := newSurface(KindReturnTime, initials, aridities)
	s.Title = "Global Return Time / Time Steps to Forest State"
	s.XTitle, s.YTitle, s.ZTitle = "Initial Tree Coverage", "Aridity", "Time"
	s.Outcomes = make([][]analysis.Kind, len(aridities))

	err := e.ParallelFor(ctx, len(aridities), func(i int) error {
		kinds := make([]analysis.Kind, len(initials))
		for j, c0 := range initials {
			o := analysis.ReturnTime(c0, aridities[i], rates, opts)
			s.Z[i][j] = analysis.StepsOrSentinel(o)
			kinds[j] = o.Kind()
		}
		s.Outcomes[i] = kinds
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("surface built", "kind", s.Kind, "cells", s.Cells(), "elapsed", time.Since(start))
	return s, nil
}

// CharReturnTime builds the characteristic return-time surface for eq: rows
// are die rates, columns are saturation rates. Undefined cells hold NaN and
// are marked in Undefined.
func (e *Engine) CharReturnTime(ctx context.Context, eq analysis.Equilibrium, saturationRates, dieRates []float64) (*Surface, error) {
	if len(saturationRates) == 0 || len(dieRates) == 0 {
		return nil, fmt.Errorf("%w: rate grid needs non-empty axes, got %dx%d", ErrInvalidSweep, len(dieRates), len(saturationRates))
	}

	kind := KindCharForest
	switch eq {
	case analysis.Forest:
	case analysis.Savanna:
		kind = KindCharSavanna
	default:
		_, err := analysis.ParseEquilibrium(string(eq))
		return nil, err
	}

	start := time.Now()
	s := newSurface(kind, saturationRates, dieRates)
	s.Title = "Characteristic Return Time for " + eq.Name()
	s.XTitle, s.YTitle, s.ZTitle = "Saturation Rate", "Death Rate", "Characteristic Return Time"
	s.Undefined = make([][]bool, len(dieRates))

	err := e.ParallelFor(ctx, len(dieRates), func(i int) error {
		undefined := make([]bool, len(saturationRates))
		for j, r := range saturationRates {
			v, err := analysis.CharReturnTime(eq, model.RateParameters{SaturationRate: r, DieRate: dieRates[i]})
			if err != nil {
				v, undefined[j] = math.NaN(), true
			}
			s.Z[i][j] = v
		}
		s.Undefined[i] = undefined
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("surface built", "kind", s.Kind, "cells", s.Cells(), "elapsed", time.Since(start))
	return s, nil
}

// Lyapunov builds the Lyapunov exponent surface over (aridity, initial
// cover), estimated over steps iterations per cell.
func (e *Engine) Lyapunov(ctx context.Context, initials, aridities []float64, steps int, rates model.RateParameters) (*Surface, error) {
	if steps < 1 {
		return nil, fmt.Errorf("%w: lyapunov estimate needs at least 1 step, got %d", ErrInvalidSweep, steps)
	}

	start := time.Now()
	z, err := e.Grid(ctx, aridities, initials, func(a, c0 float64) float64 {
		return analysis.LyapunovExponent(c0, a, rates, steps, lyapunovPerturbation)
	})
	if err != nil {
		return nil, err
	}

	s := newSurface(KindLyapunov, initials, aridities)
	s.Z = z
	s.Title = "Lyapunov Exponent of the Cover Map"
	s.XTitle, s.YTitle, s.ZTitle = "Initial Tree Coverage", "Aridity", "Exponent"

	e.logger.Debug("surface built", "kind", s.Kind, "cells", s.Cells(), "elapsed", time.Since(start))
	return s, nil
}
