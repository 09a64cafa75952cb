package release

import (
	"fmt"

	"code.cloudfoundry.org/bytefmt"
)

// FormatSize renders a byte count with 1024 based units and one decimal above bytes.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}

	switch {
	case bytes >= bytefmt.GIGABYTE:
		return fmt.Sprintf("%.1f GB", float64(bytes)/bytefmt.GIGABYTE)
	case bytes >= bytefmt.MEGABYTE:
		return fmt.Sprintf("%.1f MB", float64(bytes)/bytefmt.MEGABYTE)
	case bytes >= bytefmt.KILOBYTE:
		return fmt.Sprintf("%.1f KB", float64(bytes)/bytefmt.KILOBYTE)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
