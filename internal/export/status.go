package export

import (
	"github.com/san-kum/tipsim/internal/analysis"
	"github.com/san-kum/tipsim/internal/sweep"
)

const (
	StatusOK        = "ok"
	StatusUndefined = "undefined"
	StatusNonFinite = "nonfinite"
)

// CellStatus names why a cell is flagged, or "ok".
func CellStatus(s *sweep.Surface, i, j int) string {
	if s.Undefined != nil && s.Undefined[i][j] {
		return StatusUndefined
	}
	if s.Outcomes != nil && s.Outcomes[i][j] != analysis.KindConverged {
		return s.Outcomes[i][j].String()
	}
	if s.Flagged(i, j) {
		return StatusNonFinite
	}
	return StatusOK
}
