package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/tipsim/internal/export"
	"github.com/san-kum/tipsim/internal/sweep"
)

// HeatmapOptions bounds the rendered grid. Surfaces larger than the
// bounds are downsampled by nearest index.
type HeatmapOptions struct {
	MaxCols int
	MaxRows int
	Theme   Theme
}

func DefaultHeatmapOptions() HeatmapOptions {
	return HeatmapOptions{MaxCols: 60, MaxRows: 24, Theme: CurrentTheme}
}

// sample picks n indices spread evenly over [0, total).
func sample(total, n int) []int {
	if n <= 0 || n >= total {
		n = total
	}
	idx := make([]int, n)
	for k := range idx {
		if n == 1 {
			idx[k] = 0
			continue
		}
		idx[k] = k * (total - 1) / (n - 1)
	}
	return idx
}

// Heatmap renders the surface with row 0 at the bottom so the vertical axis
// grows upward. Flagged cells use the theme's muted color and a dot.
func Heatmap(s *sweep.Surface, o HeatmapOptions) string {
	rows, cols := s.Dims()
	if rows == 0 || cols == 0 {
		return "(empty surface)\n"
	}

	t := o.Theme
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	axisStyle := lipgloss.NewStyle().Foreground(t.Secondary)
	flagStyle := lipgloss.NewStyle().Foreground(t.Muted)

	lo, hi, ok := s.Range()
	span := hi - lo
	if span == 0 {
		span = 1
	}

	ri := sample(rows, o.MaxRows)
	ci := sample(cols, o.MaxCols)

	var b strings.Builder
	if s.Title != "" {
		b.WriteString(titleStyle.Render(s.Title))
		b.WriteString("\n")
	}
	labelW := 9
	for k := len(ri) - 1; k >= 0; k-- {
		i := ri[k]
		b.WriteString(axisStyle.Render(fmt.Sprintf("%8.3g ", s.Y[i])))
		for _, j := range ci {
			if !ok || s.Flagged(i, j) {
				b.WriteString(flagStyle.Render("·"))
				continue
			}
			c := export.Viridis((s.Z[i][j] - lo) / span)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("█"))
		}
		b.WriteString("\n")
	}

	first, last := s.X[ci[0]], s.X[ci[len(ci)-1]]
	footer := fmt.Sprintf("%-*s%-.3g", labelW, "", first)
	right := fmt.Sprintf("%.3g", last)
	if pad := labelW + len(ci) - len(footer) - len(right); pad > 0 {
		footer += strings.Repeat(" ", pad)
	} else {
		footer += " "
	}
	b.WriteString(axisStyle.Render(footer + right))
	b.WriteString("\n")
	b.WriteString(axisStyle.Render(fmt.Sprintf("x: %s   y: %s", s.XTitle, s.YTitle)))
	b.WriteString("\n")
	b.WriteString(Legend(s, t))
	return b.String()
}

// Legend shows the color scale for the surface's value range and the
// meaning of flagged cells.
func Legend(s *sweep.Surface, t Theme) string {
	lo, hi, ok := s.Range()
	muted := lipgloss.NewStyle().Foreground(t.Muted)
	if !ok {
		return muted.Render("all cells flagged") + "\n"
	}

	var bar strings.Builder
	const n = 20
	for k := 0; k < n; k++ {
		c := export.Viridis(float64(k) / float64(n-1))
		bar.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("█"))
	}
	line := fmt.Sprintf("%s: %.3g %s %.3g", s.ZTitle, lo, bar.String(), hi)
	if flagged := countFlagged(s); flagged > 0 {
		line += muted.Render(fmt.Sprintf("   · flagged (%d)", flagged))
	}
	return line + "\n"
}

func countFlagged(s *sweep.Surface) int {
	n := 0
	for i, row := range s.Z {
		for j := range row {
			if s.Flagged(i, j) {
				n++
			}
		}
	}
	return n
}
