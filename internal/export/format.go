package export

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/san-kum/tipsim/internal/sweep"
)

var ErrUnknownFormat = errors.New("export: unknown format")

const svgCellSize = 6

var Formats = []string{"csv", "json", "svg"}

// FormatFromPath infers a format from a file extension.
func FormatFromPath(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

func WriteSurface(w io.Writer, s *sweep.Surface, format string) error {
	switch strings.ToLower(format) {
	case "csv":
		return WriteSurfaceCSV(w, s)
	case "json":
		return WriteSurfaceJSON(w, s)
	case "svg":
		_, err := io.WriteString(w, SurfaceToSVG(s, svgCellSize))
		return err
	}
	return fmt.Errorf("%w: %q (available: %v)", ErrUnknownFormat, format, Formats)
}
