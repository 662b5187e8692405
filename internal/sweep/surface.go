package sweep

import (
	"math"

	"github.com/google/uuid"
	"github.com/san-kum/tipsim/internal/analysis"
)

// Surface is a grid of results. Row i belongs to Y[i] and column j to X[j].
type Surface struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Title  string `json:"title"`
	XTitle string `json:"x_title"`
	YTitle string `json:"y_title"`
	ZTitle string `json:"z_title"`

	X []float64   `json:"x"`
	Y []float64   `json:"y"`
	Z [][]float64 `json:"z"`

	// Outcomes is set for return-time surfaces.
	Outcomes [][]analysis.Kind `json:"outcomes,omitempty"`
	// Undefined marks cells whose closed form has no value.
	Undefined [][]bool `json:"undefined,omitempty"`
}

func newSurface(kind string, xs, ys []float64) *Surface {
	z := make([][]float64, len(ys))
	for i := range z {
		z[i] = make([]float64, len(xs))
	}
	return &Surface{ID: uuid.New().String(), Kind: kind, X: xs, Y: ys, Z: z}
}

func (s *Surface) Dims() (rows, cols int) {
	if len(s.Z) == 0 {
		return 0, 0
	}
	return len(s.Z), len(s.Z[0])
}

func (s *Surface) Cells() int {
	r, c := s.Dims()
	return r * c
}

// Flagged reports whether cell (i, j) holds a sentinel rather than a
// plain value.
func (s *Surface) Flagged(i, j int) bool {
	if s.Undefined != nil && s.Undefined[i][j] {
		return true
	}
	if s.Outcomes != nil && s.Outcomes[i][j] != analysis.KindConverged {
		return true
	}
	return math.IsNaN(s.Z[i][j]) || math.IsInf(s.Z[i][j], 0)
}

// Range returns the bounds of the unflagged cells. ok is false when every
// cell is flagged.
func (s *Surface) Range() (lo, hi float64, ok bool) {
	for i, row := range s.Z {
		for j, v := range row {
			if s.Flagged(i, j) {
				continue
			}
			if !ok {
				lo, hi, ok = v, v, true
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi, ok
}
