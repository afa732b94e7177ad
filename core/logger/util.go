package logger

import (
	"fmt"
	"strings"
	"time"
)

// RoundMS rounds d to whole milliseconds; negative values become zero.
func RoundMS(d time.Duration) time.Duration {
	return max(d, 0).Round(time.Millisecond)
}

// Took is RoundMS(time.Since(start)).
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// SummarizeStrings joins at most limit values. The second result reports
// whether values were cut; cut lists end with a "+N" marker.
func SummarizeStrings(values []string, limit int) (string, bool) {
	if len(values) <= limit {
		return strings.Join(values, ", "), false
	}
	if limit <= 0 {
		return fmt.Sprintf("+%d", len(values)), true
	}
	return fmt.Sprintf("%s, +%d", strings.Join(values[:limit], ", "), len(values)-limit), true
}
