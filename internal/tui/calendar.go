package tui

import (
	"fmt"
	"strings"
	"time"

	"cadence-cli/internal/recur"

	"github.com/charmbracelet/lipgloss"
)

var (
	calTitleStyle     = lipgloss.NewStyle().Bold(true)
	calTodayStyle     = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Underline(true)
	calMarkedStyle    = lipgloss.NewStyle().Foreground(colorStrategic).Bold(true)
	calCriticalStyle  = lipgloss.NewStyle().Foreground(colorCritical).Bold(true)
	calHighlightStyle = lipgloss.NewStyle().Foreground(colorHigh).Bold(true)
)

// viewCalendar renders the month grid on the left and the expanded
// occurrence list on the right. Occurrences are recomputed from the key date
// templates on every navigation, never stored.
func (m dashModel) viewCalendar() string {
	grid := m.renderMonthGrid()
	agenda := m.renderOccurrenceList()
	return lipgloss.JoinHorizontal(lipgloss.Top, grid, "   ", agenda)
}

func (m dashModel) renderMonthGrid() string {
	first := time.Date(m.calYear, m.calMonth, 1, 0, 0, 0, 0, time.Local)
	daysIn := first.AddDate(0, 1, -1).Day()
	today := m.now()

	// Occurrence markers by day-of-month.
	type mark struct{ critical, highlight bool }
	marks := map[int]mark{}
	for _, o := range m.occurrences {
		d, err := time.Parse(dateLayout, o.Date)
		if err != nil {
			continue
		}
		mk := marks[d.Day()]
		mk.critical = mk.critical || o.KeyDate.Critical
		mk.highlight = mk.highlight || o.KeyDate.Highlight
		marks[d.Day()] = mk
	}

	var b strings.Builder
	b.WriteString(calTitleStyle.Render(first.Format("January 2006")))
	b.WriteString("\n")
	b.WriteString(styleMuted().Render("Mo Tu We Th Fr Sa Su"))
	b.WriteString("\n")

	// Monday-first column offset.
	offset := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("   ", offset))

	col := offset
	for day := 1; day <= daysIn; day++ {
		cell := fmt.Sprintf("%2d", day)
		mk, marked := marks[day]
		switch {
		case today.Year() == m.calYear && today.Month() == m.calMonth && today.Day() == day:
			cell = calTodayStyle.Render(cell)
		case mk.critical:
			cell = calCriticalStyle.Render(cell)
		case mk.highlight:
			cell = calHighlightStyle.Render(cell)
		case marked:
			cell = calMarkedStyle.Render(cell)
		}
		b.WriteString(cell)
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func (m dashModel) renderOccurrenceList() string {
	if len(m.occurrences) == 0 {
		return styleMuted().Render("no key dates this month")
	}

	var b strings.Builder
	for _, o := range m.occurrences {
		b.WriteString(renderOccurrenceLine(o))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderOccurrenceLine(o recur.Occurrence) string {
	date := formatDateLabel(o.Date)
	title := strings.TrimSpace(o.KeyDate.Title)
	if e := strings.TrimSpace(o.KeyDate.Emoji); e != "" {
		title = e + " " + title
	}
	switch {
	case o.KeyDate.Critical:
		title = calCriticalStyle.Render(title)
	case o.KeyDate.Highlight:
		title = calHighlightStyle.Render(title)
	}
	suffix := ""
	if o.KeyDate.Recurrence != nil {
		suffix = "  " + styleMuted().Render(string(o.KeyDate.Recurrence.Freq))
	}
	return fmt.Sprintf("%-7s %s%s", date, title, suffix)
}
