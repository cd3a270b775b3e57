package presentation

import (
	"time"

	"ClimbCoach/internal/domain"
)

const longDateLayout = "January 2, 2006"

// FormattedDate renders a provider timestamp as "January 5, 2025" without zone
// conversion. Unparseable input yields "".
func FormattedDate(iso string) string {
	t, ok := domain.ParseTimestamp(iso)
	if !ok {
		return ""
	}
	return FormatDate(t)
}

// FormatDate renders an already decoded timestamp; the zero time yields "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(longDateLayout)
}

// MachineDate renders the value for a <time datetime> attribute.
func MachineDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
