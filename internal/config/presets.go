package config

import "sort"

// Presets are applied on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"humid": func(c *Config) {
		c.Axes.Aridity.Min, c.Axes.Aridity.Max = 0.14, 0.6
		c.InitialCover = 0.5
	},
	"arid": func(c *Config) {
		c.Axes.Aridity.Min, c.Axes.Aridity.Max = 1.0, 1.57
		c.InitialCover = 0.95
	},
	"fast-growth": func(c *Config) {
		c.Rates.SaturationRate = 0.9
		c.TimeSteps = 30
	},
	"drought": func(c *Config) {
		c.Rates.DieRate = 0.15
		c.TimeSteps = 100
	},
	"coarse": func(c *Config) {
		c.Axes.Aridity.N = 20
		c.Axes.InitialCover.N = 50
		c.Axes.SaturationRate.N = 20
		c.Axes.DieRate.N = 20
	},
}

// GetPreset returns a fresh config for name, or nil if unknown.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
