package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/tipsim/internal/analysis"
)

// Theme defines color scheme for the terminal views
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// Available themes
var (
	ThemeForest = Theme{
		Name:       "forest",
		Primary:    lipgloss.Color("#4caf50"), // Canopy green
		Secondary:  lipgloss.Color("#8bc34a"),
		Accent:     lipgloss.Color("#ffd54f"),
		Background: lipgloss.Color("#0b1a0b"),
		Text:       lipgloss.Color("#e8f5e9"),
		Muted:      lipgloss.Color("#5d7a5d"),
		Success:    lipgloss.Color("#66bb6a"),
		Warning:    lipgloss.Color("#ffb300"),
		Error:      lipgloss.Color("#e53935"),
	}

	ThemeSavanna = Theme{
		Name:       "savanna",
		Primary:    lipgloss.Color("#d4a017"), // Dry grass
		Secondary:  lipgloss.Color("#c68642"),
		Accent:     lipgloss.Color("#6b8e23"),
		Background: lipgloss.Color("#2b1d0e"),
		Text:       lipgloss.Color("#fff8e1"),
		Muted:      lipgloss.Color("#8d7b5f"),
		Success:    lipgloss.Color("#9ccc65"),
		Warning:    lipgloss.Color("#ff8f00"),
		Error:      lipgloss.Color("#d84315"),
	}

	ThemeMono = Theme{
		Name:       "mono",
		Primary:    lipgloss.Color("#ffffff"),
		Secondary:  lipgloss.Color("#cccccc"),
		Accent:     lipgloss.Color("#0088ff"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#888888"),
		Success:    lipgloss.Color("#00ff00"),
		Warning:    lipgloss.Color("#ffaa00"),
		Error:      lipgloss.Color("#ff0000"),
	}

	// Default theme
	CurrentTheme = ThemeForest

	// All available themes
	Themes = []Theme{
		ThemeForest,
		ThemeSavanna,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, falling back to the forest theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeForest
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// OutcomeStyle colors a return-time outcome label.
func (t Theme) OutcomeStyle(kind analysis.Kind) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch kind {
	case analysis.KindConverged:
		return s.Foreground(t.Success)
	case analysis.KindCollapsed:
		return s.Foreground(t.Error)
	case analysis.KindExhausted:
		return s.Foreground(t.Warning)
	}
	return s.Foreground(t.Muted)
}
