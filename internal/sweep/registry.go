package sweep

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/tipsim/internal/analysis"
	"github.com/san-kum/tipsim/internal/model"
)

// Request carries everything needed to build one surface. Builders read
// only the fields their kind uses.
type Request struct {
	Kind            string                 `yaml:"kind" json:"kind"`
	InitialCover    float64                `yaml:"initial_cover" json:"initial_cover"`
	TimeSteps       int                    `yaml:"time_steps" json:"time_steps"`
	Rates           model.RateParameters   `yaml:"rates" json:"rates"`
	Return          analysis.ReturnOptions `yaml:"return" json:"return"`
	Aridities       AxisSpec               `yaml:"aridities" json:"aridities"`
	InitialCovers   AxisSpec               `yaml:"initial_covers" json:"initial_covers"`
	SaturationRates AxisSpec               `yaml:"saturation_rates" json:"saturation_rates"`
	DieRates        AxisSpec               `yaml:"die_rates" json:"die_rates"`
}

type Builder func(ctx context.Context, e *Engine, req Request) (*Surface, error)

type Registry struct {
	builders map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}

	r.builders[KindCover] = func(ctx context.Context, e *Engine, req Request) (*Surface, error) {
		aridities, err := req.Aridities.Resolve()
		if err != nil {
			return nil, fmt.Errorf("aridities: %w", err)
		}
		return e.CoverTime(ctx, req.InitialCover, aridities, req.TimeSteps, req.Rates)
	}
	r.builders[KindReturnTime] = func(ctx context.Context, e *Engine, req Request) (*Surface, error) {
		aridities, err := req.Aridities.Resolve()
		if err != nil {
			return nil, fmt.Errorf("aridities: %w", err)
		}
		initials, err := req.InitialCovers.Resolve()
		if err != nil {
			return nil, fmt.Errorf("initial covers: %w", err)
		}
		return e.ReturnTime(ctx, initials, aridities, req.Rates, req.Return)
	}
	r.builders[KindLyapunov] = func(ctx context.Context, e *Engine, req Request) (*Surface, error) {
		aridities, err := req.Aridities.Resolve()
		if err != nil {
			return nil, fmt.Errorf("aridities: %w", err)
		}
		initials, err := req.InitialCovers.Resolve()
		if err != nil {
			return nil, fmt.Errorf("initial covers: %w", err)
		}
		return e.Lyapunov(ctx, initials, aridities, req.TimeSteps, req.Rates)
	}
	r.builders[KindCharForest] = charBuilder(analysis.Forest)
	r.builders[KindCharSavanna] = charBuilder(analysis.Savanna)

	return r
}

func charBuilder(eq analysis.Equilibrium) Builder {
	return func(ctx context.Context, e *Engine, req Request) (*Surface, error) {
		rs, err := req.SaturationRates.Resolve()
		if err != nil {
			return nil, fmt.Errorf("saturation rates: %w", err)
		}
		ds, err := req.DieRates.Resolve()
		if err != nil {
			return nil, fmt.Errorf("die rates: %w", err)
		}
		return e.CharReturnTime(ctx, eq, rs, ds)
	}
}

// Register adds or replaces a builder.
func (r *Registry) Register(kind string, b Builder) {
	r.builders[kind] = b
}

func (r *Registry) Build(ctx context.Context, e *Engine, req Request) (*Surface, error) {
	b, ok := r.builders[req.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown surface kind %q (available: %v)", ErrInvalidSweep, req.Kind, r.Kinds())
	}
	return b(ctx, e, req)
}

func (r *Registry) Kinds() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
