package export

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/tipsim/internal/sweep"
)

type SurfaceData struct {
	ID     string       `json:"id"`
	Kind   string       `json:"kind"`
	Title  string       `json:"title"`
	XTitle string       `json:"x_title"`
	YTitle string       `json:"y_title"`
	ZTitle string       `json:"z_title"`
	X      []float64    `json:"x"`
	Y      []float64    `json:"y"`
	Z      [][]*float64 `json:"z"`
	Status [][]string   `json:"status"`
}

// NewSurfaceData converts a surface into its JSON form. Flagged and
// non-finite cells become null.
func NewSurfaceData(s *sweep.Surface) SurfaceData {
	data := SurfaceData{
		ID:     s.ID,
		Kind:   s.Kind,
		Title:  s.Title,
		XTitle: s.XTitle,
		YTitle: s.YTitle,
		ZTitle: s.ZTitle,
		X:      s.X,
		Y:      s.Y,
		Z:      make([][]*float64, len(s.Z)),
		Status: make([][]string, len(s.Z)),
	}

	for i, row := range s.Z {
		data.Z[i] = make([]*float64, len(row))
		data.Status[i] = make([]string, len(row))
		for j, v := range row {
			status := CellStatus(s, i, j)
			data.Status[i][j] = status
			if status == StatusOK && !math.IsNaN(v) && !math.IsInf(v, 0) {
				val := v
				data.Z[i][j] = &val
			}
		}
	}
	return data
}

func WriteSurfaceJSON(w io.Writer, s *sweep.Surface) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewSurfaceData(s))
}

type TrajectoryData struct {
	InitialCover   float64            `json:"initial_cover"`
	Aridity        float64            `json:"aridity"`
	SaturationRate float64            `json:"saturation_rate"`
	DieRate        float64            `json:"die_rate"`
	Steps          int                `json:"steps"`
	Cover          []float64          `json:"cover"`
	Metrics        map[string]float64 `json:"metrics,omitempty"`
}

func WriteTrajectoryJSON(w io.Writer, data TrajectoryData) error {
	data.Steps = len(data.Cover)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
