package automation

import (
	"context"
	"math/rand"
	"time"

	"github.com/san-kum/tipsim/internal/analysis"
	"github.com/san-kum/tipsim/internal/model"
)

// MonteCarloConfig perturbs the initial cover uniformly within
// ±Perturbation and records the return-time outcome of each trial.
type MonteCarloConfig struct {
	InitialCover float64
	Aridity      float64
	Perturbation float64
	NumTrials    int
	Seed         int64
	Rates        model.RateParameters
	Return       analysis.ReturnOptions
}

type MonteCarloResult struct {
	TrialID      int
	InitialCover float64
	Outcome      analysis.Outcome
}

func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		c0 := cfg.InitialCover + (rng.Float64()-0.5)*2*cfg.Perturbation
		results = append(results, MonteCarloResult{
			TrialID:      trial,
			InitialCover: c0,
			Outcome:      analysis.ReturnTime(c0, cfg.Aridity, cfg.Rates, cfg.Return),
		})
	}

	return results, nil
}

// MonteCarloStats counts trials per outcome kind.
func MonteCarloStats(results []MonteCarloResult) map[analysis.Kind]int {
	counts := make(map[analysis.Kind]int)
	for _, r := range results {
		counts[r.Outcome.Kind()]++
	}
	return counts
}
