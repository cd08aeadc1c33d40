package tracks

import (
	"fmt"
	"os"
	"strings"

	"trackmix/internal/services"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count with 1024-based units up to TB. Bytes are
// printed as an integer; larger units carry two decimals.
func FormatBytes(n uint64) string {
	size := float64(n)
	idx := 0
	for size >= 1024 && idx < len(sizeUnits)-1 {
		size /= 1024
		idx++
	}
	if idx == 0 {
		return fmt.Sprintf("%d %s", n, sizeUnits[idx])
	}
	return fmt.Sprintf("%.2f %s", size, sizeUnits[idx])
}

// FileSize stats path and returns its human-readable size.
func FileSize(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", services.Wrap(services.ErrValidation, "tracks", "file size", "empty path", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", services.Wrap(services.ErrFilesystem, "tracks", "file size", "stat "+path, err)
	}
	return FormatBytes(uint64(info.Size())), nil
}
