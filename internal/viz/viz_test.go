package viz

import (
	"context"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/tipsim/internal/analysis"
	"github.com/san-kum/tipsim/internal/model"
	"github.com/san-kum/tipsim/internal/sim"
	"github.com/san-kum/tipsim/internal/sweep"
)

func TestSample(t *testing.T) {
	tests := []struct {
		total, n int
		want     []int
	}{
		{5, 10, []int{0, 1, 2, 3, 4}},
		{10, 3, []int{0, 4, 9}},
		{7, 1, []int{0}},
		{4, 0, []int{0, 1, 2, 3}},
	}
	for _, tt := range tests {
		got := sample(tt.total, tt.n)
		if len(got) != len(tt.want) {
			t.Fatalf("sample(%d, %d) = %v, want %v", tt.total, tt.n, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("sample(%d, %d) = %v, want %v", tt.total, tt.n, got, tt.want)
				break
			}
		}
	}
}

func TestHeatmap_FlaggedCells(t *testing.T) {
	e := sweep.NewEngine(sweep.WithWorkers(2))
	s, err := e.ReturnTime(context.Background(), []float64{0.05, 0.9}, []float64{0.3, 0.9}, model.DefaultRates(), analysis.DefaultReturnOptions())
	if err != nil {
		t.Fatal(err)
	}

	out := Heatmap(s, DefaultHeatmapOptions())
	if !strings.Contains(out, s.Title) {
		t.Error("heatmap should start with the surface title")
	}
	if !strings.Contains(out, "·") {
		t.Error("collapsed cells should render as flagged")
	}
	if !strings.Contains(out, "█") {
		t.Error("converged cells should render as colored blocks")
	}
	if !strings.Contains(out, "flagged") {
		t.Error("legend should count flagged cells")
	}
}

func TestHeatmap_Empty(t *testing.T) {
	if got := Heatmap(&sweep.Surface{}, DefaultHeatmapOptions()); !strings.Contains(got, "empty") {
		t.Errorf("unexpected output for empty surface: %q", got)
	}
}

func TestPlotTrajectory(t *testing.T) {
	rates := model.DefaultRates()
	traj := sim.KSteps(0.81, 0.5, 30, rates)

	out := PlotTrajectory(traj, 0.5, rates, PlotOptions{Width: 40, Height: 6})
	for _, want := range []string{"cover", "c_crit", "forest state"} {
		if !strings.Contains(out, want) {
			t.Errorf("plot missing legend %q", want)
		}
	}

	if got := PlotTrajectory(nil, 0.5, rates, PlotOptions{}); !strings.Contains(got, "empty") {
		t.Errorf("unexpected output for empty trajectory: %q", got)
	}
	if got := PlotTrajectory(traj[:1], 0.5, rates, PlotOptions{}); got == "" {
		t.Error("single point trajectory should still plot")
	}
}

func TestPlotBifurcation(t *testing.T) {
	aridities, _ := sweep.Linspace(0.2, 1.4, 20)
	points := analysis.BifurcationDiagram(aridities, 0.81, model.DefaultRates(), 200, 10)

	out := PlotBifurcation(points, PlotOptions{Height: 6})
	if !strings.Contains(out, "attractor") {
		t.Errorf("expected caption, got:\n%s", out)
	}
	if got := PlotBifurcation(points[:1], PlotOptions{}); !strings.Contains(got, "not enough") {
		t.Errorf("unexpected output for one sample: %q", got)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("savanna").Name != "savanna" {
		t.Error("expected savanna theme")
	}
	if GetTheme("missing").Name != ThemeForest.Name {
		t.Error("unknown theme should fall back to forest")
	}
	if NextTheme(Themes[len(Themes)-1]).Name != Themes[0].Name {
		t.Error("NextTheme should wrap around")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("ThemeNames length mismatch")
	}
}

func newTestSlider() SliderModel {
	aridities, _ := sweep.Linspace(0.14, 1.57, 10)
	return NewSliderModel(SliderConfig{
		InitialCover: SliderDefault,
		Aridity:      0.5,
		Aridities:    aridities,
		TimeSteps:    20,
		Rates:        model.DefaultRates(),
		Return:       analysis.DefaultReturnOptions(),
		Engine:       sweep.NewEngine(sweep.WithWorkers(1)),
		Axes: sweep.Request{
			InitialCovers:   sweep.AxisSpec{Min: 0.05, Max: 1, N: 8},
			SaturationRates: sweep.AxisSpec{Min: 0.3, Max: 0.7, N: 5},
			DieRates:        sweep.AxisSpec{Min: 0, Max: 0.2, N: 4},
		},
	})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSlider_Step(t *testing.T) {
	m := newTestSlider()
	if math.Abs(m.Cover()-0.81) > 1e-12 {
		t.Fatalf("expected default cover 0.81, got %f", m.Cover())
	}

	next, cmd := m.Update(key("right"))
	m = next.(SliderModel)
	if math.Abs(m.Cover()-0.82) > 1e-12 {
		t.Errorf("expected 0.82 after one step, got %f", m.Cover())
	}
	if cmd == nil {
		t.Fatal("moving the slider should request a recomputation")
	}

	res, ok := cmd().(*sliderResult)
	if !ok {
		t.Fatal("expected a slider result")
	}
	if res.err != nil {
		t.Fatal(res.err)
	}
	if len(res.traj) != 20 || res.traj[0] != m.Cover() {
		t.Errorf("trajectory should start at the slider value, got %v", res.traj)
	}
	if rows, cols := res.surface.Dims(); rows != 10 || cols != 20 {
		t.Errorf("surface dims = %dx%d, want 10x20", rows, cols)
	}

	next, _ = m.Update(res)
	m = next.(SliderModel)
	if m.result != res {
		t.Error("current response should be kept")
	}
	if !strings.Contains(m.View(), "Return time") {
		t.Error("view should show the return time")
	}
}

func TestSlider_Clamp(t *testing.T) {
	m := newTestSlider()
	for i := 0; i < 40; i++ {
		next, _ := m.Update(key("right"))
		m = next.(SliderModel)
	}
	if m.Cover() != 1 {
		t.Errorf("cover should clamp at 1, got %f", m.Cover())
	}
	for i := 0; i < 200; i++ {
		next, _ := m.Update(key("left"))
		m = next.(SliderModel)
	}
	if m.Cover() != 0 {
		t.Errorf("cover should clamp at 0, got %f", m.Cover())
	}
}

func TestSlider_StaleResponse(t *testing.T) {
	m := newTestSlider()
	stale := compute(m.cfg, 0.3, m.currentAridity(), m.MapKind())().(*sliderResult)

	next, _ := m.Update(stale)
	m = next.(SliderModel)
	if m.result != nil {
		t.Error("response for another position should be dropped")
	}
}

func TestSlider_Aridity(t *testing.T) {
	m := newTestSlider()
	before := m.currentAridity()

	next, _ := m.Update(key("tab"))
	m = next.(SliderModel)
	next, cmd := m.Update(key("right"))
	m = next.(SliderModel)

	if m.currentAridity() <= before {
		t.Errorf("aridity should increase, got %f from %f", m.currentAridity(), before)
	}
	if cmd == nil {
		t.Error("aridity change should request a recomputation")
	}
	if math.Abs(m.Cover()-0.81) > 1e-12 {
		t.Error("cover slider should not move while aridity is selected")
	}
}

func TestSlider_Quit(t *testing.T) {
	m := newTestSlider()
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestSlider_MapCycle(t *testing.T) {
	m := newTestSlider()
	want := []struct {
		kind       string
		rows, cols int
	}{
		{sweep.KindReturnTime, 10, 8},
		{sweep.KindCharForest, 4, 5},
		{sweep.KindCharSavanna, 4, 5},
		{"", 0, 0},
		{sweep.KindCover, 10, 20},
	}

	for _, w := range want {
		next, cmd := m.Update(key("m"))
		m = next.(SliderModel)
		if m.MapKind() != w.kind {
			t.Fatalf("expected map %q, got %q", w.kind, m.MapKind())
		}
		if cmd == nil {
			t.Fatalf("%q: switching maps should request a recomputation", w.kind)
		}

		res := cmd().(*sliderResult)
		if res.err != nil {
			t.Fatalf("%q: %v", w.kind, res.err)
		}
		if w.kind == "" {
			if res.surface != nil {
				t.Error("hidden map should not build a surface")
			}
		} else if rows, cols := res.surface.Dims(); rows != w.rows || cols != w.cols {
			t.Errorf("%q: dims = %dx%d, want %dx%d", w.kind, rows, cols, w.rows, w.cols)
		}

		next, _ = m.Update(res)
		m = next.(SliderModel)
		if m.result != res {
			t.Errorf("%q: response should be kept", w.kind)
		}
	}
}

func TestSlider_StaleMap(t *testing.T) {
	m := newTestSlider()
	old := m.request()().(*sliderResult)

	next, _ := m.Update(key("m"))
	m = next.(SliderModel)
	next, _ = m.Update(old)
	m = next.(SliderModel)
	if m.result != nil {
		t.Error("response for the previous map should be dropped")
	}
}

func TestSlider_PageKeys(t *testing.T) {
	m := newTestSlider()

	next, _ := m.Update(key("pgdown"))
	m = next.(SliderModel)
	if math.Abs(m.Cover()-0.71) > 1e-12 {
		t.Errorf("pgdown should move ten steps, got %f", m.Cover())
	}
	next, _ = m.Update(key("pgup"))
	m = next.(SliderModel)
	if math.Abs(m.Cover()-0.81) > 1e-12 {
		t.Errorf("pgup should move ten steps, got %f", m.Cover())
	}

	next, _ = m.Update(key("up"))
	m = next.(SliderModel)
	before := m.currentAridity()
	next, _ = m.Update(key("right"))
	m = next.(SliderModel)
	if m.currentAridity() <= before {
		t.Error("up should select the aridity slider")
	}
}
