package portal

import (
	"strings"
	"time"

	"attendanceportal/internal/model"
)

// dateLayout matches the original portal's en-US short form, e.g.
// "May 10, 2024". The format is fixed; no localization.
const dateLayout = "Jan 2, 2006"

// Visual treatments for the status badge.
const (
	TonePresent = "present"
	ToneAbsent  = "absent"
)

// FormatDate renders an attendance date for display.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// StatusLabel upper-cases the raw status for the badge text.
func StatusLabel(status string) string {
	return strings.ToUpper(status)
}

// StatusTone picks the badge treatment. Only "present" gets the present
// treatment; every other value, including unknown ones, renders as absent.
func StatusTone(status string) string {
	if status == model.StatusPresent {
		return TonePresent
	}
	return ToneAbsent
}
