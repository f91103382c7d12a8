package review

import (
	"fmt"
	"strings"
	"time"
)

// PeriodID returns the canonical label for a reporting period.
// Single-day periods collapse to the date itself (e.g. "2026-02-06"),
// ranges use "start..end" (e.g. "2026-01-01..2026-03-31").
func PeriodID(start, end time.Time) string {
	s := start.Format(DateLayout)
	e := end.Format(DateLayout)
	if s == e {
		return s
	}
	return s + ".." + e
}

// FormatPeriodDisplay formats a period ID for human-readable display.
// Single day: "Feb 06, 2026"
// Range: "Jan 01 - Mar 31, 2026"
func FormatPeriodDisplay(periodID string) string {
	if strings.Contains(periodID, "..") {
		parts := strings.SplitN(periodID, "..", 2)
		if len(parts) != 2 {
			return periodID
		}
		start, err := time.Parse(DateLayout, parts[0])
		if err != nil {
			return periodID
		}
		end, err := time.Parse(DateLayout, parts[1])
		if err != nil {
			return periodID
		}
		return fmt.Sprintf("%s - %s", start.Format("Jan 02"), end.Format("Jan 02, 2006"))
	}

	d, err := time.Parse(DateLayout, periodID)
	if err != nil {
		return periodID
	}
	return d.Format("Jan 02, 2006")
}
