package viz

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/tipsim/internal/analysis"
	"github.com/san-kum/tipsim/internal/model"
	"github.com/san-kum/tipsim/internal/sim"
	"github.com/san-kum/tipsim/internal/sweep"
)

const (
	SliderStep    = 0.01
	SliderDefault = 0.81
	sliderWidth   = 40
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// SliderConfig is everything the slider app needs to answer a request.
type SliderConfig struct {
	InitialCover float64
	Aridity      float64
	Aridities    []float64
	TimeSteps    int
	Rates        model.RateParameters
	Return       analysis.ReturnOptions
	Engine       *sweep.Engine

	// Surfaces supplies the heatmap pane; Axes carries the non-aridity
	// axes of those requests.
	Surfaces *sweep.Registry
	Axes     sweep.Request
}

// mapKinds is the heatmap cycle; the empty kind hides the pane.
var mapKinds = []string{sweep.KindCover, sweep.KindReturnTime, sweep.KindCharForest, sweep.KindCharSavanna, ""}

// sliderResult is the response to one slider position.
type sliderResult struct {
	c0, aridity float64
	kind        string
	surface     *sweep.Surface
	traj        sim.Trajectory
	outcome     analysis.Outcome
	err         error
}

// SliderModel is the bubbletea model of the initial-cover slider. Every
// change issues a fresh computation; nothing from earlier positions is kept.
type SliderModel struct {
	cfg      SliderConfig
	c0       float64
	aridity  int
	selected int
	theme    Theme
	result   *sliderResult
	pending  bool
	mapIdx   int
}

func NewSliderModel(cfg SliderConfig) SliderModel {
	if cfg.Engine == nil {
		cfg.Engine = sweep.NewEngine()
	}
	if cfg.TimeSteps < 1 {
		cfg.TimeSteps = 50
	}
	if cfg.Surfaces == nil {
		cfg.Surfaces = sweep.NewRegistry()
	}
	m := SliderModel{cfg: cfg, c0: snap(cfg.InitialCover), theme: CurrentTheme}
	m.aridity = nearest(cfg.Aridities, cfg.Aridity)
	return m
}

// snap clamps v to the slider range and rounds it to the slider step.
func snap(v float64) float64 {
	v = math.Max(0, math.Min(1, v))
	return math.Round(v/SliderStep) * SliderStep
}

func nearest(xs []float64, v float64) int {
	best := 0
	for i, x := range xs {
		if math.Abs(x-v) < math.Abs(xs[best]-v) {
			best = i
		}
	}
	return best
}

func (m SliderModel) Cover() float64 { return m.c0 }

func (m SliderModel) currentAridity() float64 {
	if len(m.cfg.Aridities) == 0 {
		return m.cfg.Aridity
	}
	return m.cfg.Aridities[m.aridity]
}

func (m SliderModel) MapKind() string { return mapKinds[m.mapIdx] }

// compute answers one slider position. kind selects the heatmap surface.
func compute(cfg SliderConfig, c0, aridity float64, kind string) tea.Cmd {
	return func() tea.Msg {
		res := &sliderResult{c0: c0, aridity: aridity, kind: kind}
		res.traj = sim.KSteps(c0, aridity, cfg.TimeSteps, cfg.Rates)
		res.outcome = analysis.ReturnTime(c0, aridity, cfg.Rates, cfg.Return)
		if kind != "" && len(cfg.Aridities) > 0 {
			req := cfg.Axes
			req.Kind = kind
			req.InitialCover = c0
			req.TimeSteps = cfg.TimeSteps
			req.Rates = cfg.Rates
			req.Return = cfg.Return
			req.Aridities = sweep.AxisSpec{Values: cfg.Aridities}
			res.surface, res.err = cfg.Surfaces.Build(context.Background(), cfg.Engine, req)
		}
		return res
	}
}

func (m SliderModel) request() tea.Cmd {
	return compute(m.cfg, m.c0, m.currentAridity(), m.MapKind())
}

func (m SliderModel) Init() tea.Cmd {
	return m.request()
}

func (m SliderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case *sliderResult:
		// drop responses for positions the user already left
		if msg.c0 == m.c0 && msg.aridity == m.currentAridity() && msg.kind == m.MapKind() {
			m.result = msg
			m.pending = false
		}
		return m, nil
	case tea.KeyMsg:
		before, beforeA, beforeM := m.c0, m.aridity, m.mapIdx
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "up", "down":
			m.selected = 1 - m.selected
		case "left", "h":
			m.move(-1)
		case "right", "l":
			m.move(1)
		case "pgdown":
			m.move(-10)
		case "pgup":
			m.move(10)
		case "r":
			m.c0 = snap(m.cfg.InitialCover)
			m.aridity = nearest(m.cfg.Aridities, m.cfg.Aridity)
		case "t":
			m.theme = NextTheme(m.theme)
		case "m":
			m.mapIdx = (m.mapIdx + 1) % len(mapKinds)
		}
		if m.c0 != before || m.aridity != beforeA || m.mapIdx != beforeM {
			m.pending = true
			return m, m.request()
		}
	}
	return m, nil
}

func (m *SliderModel) move(n int) {
	if m.selected == 0 {
		m.c0 = snap(m.c0 + float64(n)*SliderStep)
		return
	}
	if len(m.cfg.Aridities) == 0 {
		return
	}
	m.aridity = max(0, min(len(m.cfg.Aridities)-1, m.aridity+n))
}

func bar(v float64, active bool, t Theme) string {
	filled := int(math.Round(v * sliderWidth))
	filled = max(0, min(sliderWidth, filled))
	style := lipgloss.NewStyle().Foreground(t.Muted)
	if active {
		style = lipgloss.NewStyle().Foreground(t.Accent)
	}
	return style.Render(strings.Repeat("━", filled) + "●" + strings.Repeat("─", sliderWidth-filled))
}

func (m SliderModel) View() string {
	t := m.theme
	var s strings.Builder
	s.WriteString(headerStyle.Foreground(t.Primary).Render("VEGETATION COVER") + "\n")

	a := m.currentAridity()
	aFrac := 0.0
	if n := len(m.cfg.Aridities); n > 1 {
		aFrac = float64(m.aridity) / float64(n-1)
	}
	s.WriteString(labelStyle.Render("C_0") + bar(m.c0, m.selected == 0, t) + valueStyle.Render(fmt.Sprintf(" %.2f", m.c0)) + "\n")
	s.WriteString(labelStyle.Render("Aridity") + bar(aFrac, m.selected == 1, t) + valueStyle.Render(fmt.Sprintf(" %.3f", a)) + "\n\n")

	s.WriteString(labelStyle.Render("c_crit") + valueStyle.Render(fmt.Sprintf("%.4f", model.CCrit(a))) + "\n")
	s.WriteString(labelStyle.Render("Forest state") + valueStyle.Render(fmt.Sprintf("%.4f", model.ForestState(m.cfg.Rates))) + "\n")

	switch {
	case m.result == nil:
		s.WriteString(valueStyle.Render("computing...") + "\n")
	default:
		r := m.result
		o := r.outcome
		s.WriteString(labelStyle.Render("Return time") + t.OutcomeStyle(o.Kind()).Render(o.String()))
		if m.pending {
			s.WriteString(lipgloss.NewStyle().Foreground(t.Muted).Render("  (updating)"))
		}
		s.WriteString("\n\n")
		s.WriteString(PlotTrajectory(r.traj, r.aridity, m.cfg.Rates, PlotOptions{Width: 50, Height: 8}) + "\n")
		if r.err != nil {
			s.WriteString(lipgloss.NewStyle().Foreground(t.Error).Render(r.err.Error()) + "\n")
		} else if r.surface != nil {
			s.WriteString("\n" + Heatmap(r.surface, HeatmapOptions{MaxCols: 50, MaxRows: 16, Theme: t}))
		}
	}

	s.WriteString(helpStyle.Render("←/→ adjust  pgup/pgdn ×10  tab/↑/↓ switch  m next map  t theme  r reset  q quit"))
	return s.String()
}

// RunSlider starts the slider app on the terminal.
func RunSlider(cfg SliderConfig) error {
	_, err := tea.NewProgram(NewSliderModel(cfg), tea.WithAltScreen()).Run()
	return err
}
