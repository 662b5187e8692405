package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/tipsim/internal/sweep"
)

// viridis stops, low to high.
var viridis = [][3]float64{
	{0x44, 0x01, 0x54},
	{0x3b, 0x52, 0x8b},
	{0x21, 0x91, 0x8c},
	{0x5e, 0xc9, 0x62},
	{0xfd, 0xe7, 0x25},
}

const flaggedColor = "#666666"

// Viridis maps t in [0,1] to a hex color.
func Viridis(t float64) string {
	if math.IsNaN(t) {
		return flaggedColor
	}
	t = math.Max(0, math.Min(1, t))
	pos := t * float64(len(viridis)-1)
	i := int(pos)
	if i >= len(viridis)-1 {
		i = len(viridis) - 2
	}
	frac := pos - float64(i)
	a, b := viridis[i], viridis[i+1]
	return fmt.Sprintf("#%02x%02x%02x",
		int(a[0]+frac*(b[0]-a[0])),
		int(a[1]+frac*(b[1]-a[1])),
		int(a[2]+frac*(b[2]-a[2])))
}

// SurfaceToSVG draws the surface as a heatmap with row 0 at the bottom.
// Flagged cells are grey.
func SurfaceToSVG(s *sweep.Surface, cell int) string {
	rows, cols := s.Dims()
	if rows == 0 || cols == 0 || cell <= 0 {
		return ""
	}

	lo, hi, ok := s.Range()
	span := hi - lo
	if span == 0 {
		span = 1
	}

	width := cols * cell
	height := rows * cell

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<title>%s</title>
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height, escape(s.Title)))

	for i := 0; i < rows; i++ {
		y := (rows - 1 - i) * cell
		for j := 0; j < cols; j++ {
			color := flaggedColor
			if ok && !s.Flagged(i, j) {
				color = Viridis((s.Z[i][j] - lo) / span)
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>
`, j*cell, y, cell, cell, color))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG draws cover against step index.
func TrajectoryToSVG(traj []float64, width, height int, strokeColor string) string {
	if len(traj) < 2 {
		return ""
	}

	minY, maxY := traj[0], traj[0]
	for _, v := range traj {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	rangeX := float64(len(traj) - 1)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range traj {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
