package tui

import (
	"strings"
	"time"

	"cadence-cli/internal/views"
)

const dateLayout = "2006-01-02"

// formatDateLabel renders an ISO date as "Jan 5". Unparseable input falls
// back to the raw string rather than disappearing.
func formatDateLabel(iso string) string {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return ""
	}
	parsed, err := time.Parse(dateLayout, iso)
	if err != nil {
		return iso
	}
	return parsed.Format("Jan 2")
}

// formatDeadlineLabel renders an action deadline with an overdue marker
// relative to today.
func formatDeadlineLabel(iso string, today time.Time) string {
	label := formatDateLabel(iso)
	if label == "" {
		return ""
	}
	parsed, err := time.ParseInLocation(dateLayout, strings.TrimSpace(iso), today.Location())
	if err != nil {
		return "due " + label
	}
	if parsed.Before(views.Midnight(today)) {
		return "overdue " + label
	}
	return "due " + label
}
