package analysis

import (
	"strings"

	"github.com/san-kum/tipsim/internal/model"
	"github.com/san-kum/tipsim/internal/sim"
)

// BifurcationPoint holds the distinct long-run covers found at one aridity.
type BifurcationPoint struct {
	Aridity float64
	Values  []float64
}

// BifurcationDiagram runs the map from c0 at each aridity, discards
// transient steps and records the distinct covers seen over the next record
// steps. Values are distinct to three decimals.
func BifurcationDiagram(aridities []float64, c0 float64, rates model.RateParameters, transient, record int) []BifurcationPoint {
	if transient < 0 {
		transient = 0
	}
	if record < 1 {
		record = 1
	}
	results := make([]BifurcationPoint, 0, len(aridities))

	for _, a := range aridities {
		traj := sim.KSteps(c0, a, transient+record+1, rates)

		values := make([]float64, 0, 4)
		seen := make(map[int]bool)
		for _, c := range traj[transient+1:] {
			key := int(c * 1000)
			if !seen[key] {
				seen[key] = true
				values = append(values, c)
			}
		}

		results = append(results, BifurcationPoint{Aridity: a, Values: values})
	}

	return results
}

// BifurcationToASCII plots aridity on the horizontal axis and recorded cover
// on the vertical axis.
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	foundFirst := false
	for _, p := range data {
		for _, v := range p.Values {
			if !foundFirst {
				minVal, maxVal = v, v
				foundFirst = true
				continue
			}
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if !foundFirst {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := i * width / len(data)
		if col >= width {
			col = width - 1
		}
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
