package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/tipsim/internal/sweep"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteSurfaceCSV writes one row per cell: y, x, z, status.
func WriteSurfaceCSV(w io.Writer, s *sweep.Surface) error {
	cw := csv.NewWriter(w)

	header := []string{s.YTitle, s.XTitle, s.ZTitle, "status"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, row := range s.Z {
		for j, v := range row {
			rec := []string{formatFloat(s.Y[i]), formatFloat(s.X[j]), formatFloat(v), CellStatus(s, i, j)}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTrajectoryCSV writes step, cover pairs.
func WriteTrajectoryCSV(w io.Writer, traj []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "cover"}); err != nil {
		return err
	}
	for i, c := range traj {
		if err := cw.Write([]string{strconv.Itoa(i), formatFloat(c)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
