package exporter

import (
	"strconv"
)

// formatFloat formats a value as a plain decimal, the shortest representation
// that round-trips. No padding or scientific notation in the artifact.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatOptional renders a missing value as an empty cell.
func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
