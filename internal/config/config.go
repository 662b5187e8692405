package config

import (
	"fmt"
	"os"

	"github.com/san-kum/tipsim/internal/analysis"
	"github.com/san-kum/tipsim/internal/model"
	"github.com/san-kum/tipsim/internal/sweep"
	"gopkg.in/yaml.v3"
)

const (
	DefaultInitialCover = 0.81
	DefaultTimeSteps    = 50
	DefaultMaxSteps     = 1000
	DefaultEps          = 1e-6
	DefaultTheme        = "forest"
)

type Config struct {
	Rates        model.RateParameters   `yaml:"rates"`
	InitialCover float64                `yaml:"initial_cover"`
	TimeSteps    int                    `yaml:"time_steps"`
	Return       analysis.ReturnOptions `yaml:"return"`
	Axes         AxesConfig             `yaml:"axes"`
	Workers      int                    `yaml:"workers"`
	Theme        string                 `yaml:"theme"`
}

type AxesConfig struct {
	Aridity        sweep.AxisSpec `yaml:"aridity"`
	InitialCover   sweep.AxisSpec `yaml:"initial_cover"`
	SaturationRate sweep.AxisSpec `yaml:"saturation_rate"`
	DieRate        sweep.AxisSpec `yaml:"die_rate"`
}

func DefaultConfig() *Config {
	return &Config{
		Rates:        model.DefaultRates(),
		InitialCover: DefaultInitialCover,
		TimeSteps:    DefaultTimeSteps,
		Return:       analysis.ReturnOptions{MaxSteps: DefaultMaxSteps, Eps: DefaultEps},
		Axes: AxesConfig{
			Aridity:        sweep.AxisSpec{Min: 0.14, Max: 1.57, N: 100},
			InitialCover:   sweep.AxisSpec{Min: 1e-6, Max: 1, N: 1000},
			SaturationRate: sweep.AxisSpec{Min: 0.3, Max: 0.7, N: 100},
			DieRate:        sweep.AxisSpec{Min: 0.01, Max: 0.2, N: 100},
		},
		Theme: DefaultTheme,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Request turns the configuration into a surface request of the given kind.
func (c *Config) Request(kind string) sweep.Request {
	return sweep.Request{
		Kind:            kind,
		InitialCover:    c.InitialCover,
		TimeSteps:       c.TimeSteps,
		Rates:           c.Rates,
		Return:          c.Return,
		Aridities:       c.Axes.Aridity,
		InitialCovers:   c.Axes.InitialCover,
		SaturationRates: c.Axes.SaturationRate,
		DieRates:        c.Axes.DieRate,
	}
}
