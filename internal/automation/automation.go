package automation

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/tipsim/internal/config"
	"github.com/san-kum/tipsim/internal/export"
	"github.com/san-kum/tipsim/internal/sweep"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of surface builds.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Preset      string         `yaml:"preset"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep builds one surface. Params are decoded on top of the request
// derived from the base configuration, so only overrides need listing.
type ScenarioStep struct {
	Name   string    `yaml:"name"`
	Kind   string    `yaml:"kind"`
	Format string    `yaml:"format"`
	SaveAs string    `yaml:"save_as"`
	Params yaml.Node `yaml:"params"`
}

// StepResult pairs a built surface with the file it was written to, if any.
type StepResult struct {
	Name    string
	Surface *sweep.Surface
	Path    string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no steps", sweep.ErrInvalidSweep, scenario.Name)
	}
	return &scenario, nil
}

type Runner struct {
	engine   *sweep.Engine
	registry *sweep.Registry
	logger   *log.Logger
	outDir   string
}

func NewRunner(engine *sweep.Engine, registry *sweep.Registry, logger *log.Logger, outDir string) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{engine: engine, registry: registry, logger: logger, outDir: outDir}
}

// Request resolves the surface request of one step against base.
func (r *Runner) Request(step ScenarioStep, base *config.Config) (sweep.Request, error) {
	req := base.Request(step.Kind)
	if !step.Params.IsZero() {
		if err := step.Params.Decode(&req); err != nil {
			return req, fmt.Errorf("params: %w", err)
		}
	}
	return req, nil
}

// Run executes all steps in order. base may be nil, in which case the
// scenario preset (or the default configuration) is used.
func (r *Runner) Run(ctx context.Context, scenario *Scenario, base *config.Config) ([]StepResult, error) {
	if base == nil {
		base = config.DefaultConfig()
		if scenario.Preset != "" {
			base = config.GetPreset(scenario.Preset)
			if base == nil {
				return nil, fmt.Errorf("unknown preset: %s (available: %v)", scenario.Preset, config.ListPresets())
			}
		}
	}

	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", step.Kind, i+1)
		}
		r.logger.Info("running step", "step", fmt.Sprintf("%d/%d", i+1, len(scenario.Steps)), "name", name, "kind", step.Kind)

		req, err := r.Request(step, base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		start := time.Now()
		s, err := r.registry.Build(ctx, r.engine, req)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		res := StepResult{Name: name, Surface: s}
		if step.SaveAs != "" {
			path, err := r.save(s, step)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			res.Path = path
		}

		r.logger.Info("step done", "name", name, "cells", s.Cells(), "elapsed", time.Since(start), "path", res.Path)
		results = append(results, res)
	}

	return results, nil
}

func (r *Runner) save(s *sweep.Surface, step ScenarioStep) (string, error) {
	path := step.SaveAs
	if r.outDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(r.outDir, path)
	}
	format := step.Format
	if format == "" {
		format = export.FormatFromPath(path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := export.WriteSurface(f, s, format); err != nil {
		return "", err
	}
	return path, f.Close()
}
