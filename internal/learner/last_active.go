package learner

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	LastActiveToday     = "Today"
	LastActiveYesterday = "Yesterday"
)

// ParseLastActive returns the number of whole days since the learner was
// last active. "Today" is 0 and "Yesterday" is 1. For "<N> days ago" the
// leading integer is used; ok is false when the label has no leading
// integer, in which case days is 1.
func ParseLastActive(label string) (days int, ok bool) {
	switch label {
	case LastActiveToday:
		return 0, true
	case LastActiveYesterday:
		return 1, true
	}

	fields := strings.Fields(label)
	if len(fields) == 0 {
		return 1, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 || strings.HasPrefix(fields[0], "+") {
		return 1, false
	}
	return n, true
}

// LastActiveLabel buckets the hours since the last login into the label
// format understood by ParseLastActive.
func LastActiveLabel(hoursSinceLogin float64) string {
	switch {
	case hoursSinceLogin < 24:
		return LastActiveToday
	case hoursSinceLogin < 48:
		return LastActiveYesterday
	default:
		return fmt.Sprintf("%d days ago", int(hoursSinceLogin/24))
	}
}
