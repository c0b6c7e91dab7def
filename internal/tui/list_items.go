package tui

import (
	"fmt"
	"strings"
	"time"

	"cadence-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

func newList(items []list.Item) list.Model {
	l := list.New(items, newCompactItemDelegate(), 0, 0)
	// We render our own header and footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("item", "items")
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("q")
	// Emacs-style navigation aliases.
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

var (
	metaPriorityCritical  = lipgloss.NewStyle().Foreground(colorCritical).Bold(true)
	metaPriorityHigh      = lipgloss.NewStyle().Foreground(colorHigh)
	metaPriorityStrategic = lipgloss.NewStyle().Foreground(colorStrategic)
	metaResolved          = lipgloss.NewStyle().Foreground(colorResolved)
	metaOverdue           = lipgloss.NewStyle().Foreground(colorOverdue).Bold(true)
	metaDiverged          = lipgloss.NewStyle().Foreground(colorHigh)
)

func renderPriority(p model.Priority) string {
	switch p {
	case model.PriorityCritical:
		return metaPriorityCritical.Render("critical")
	case model.PriorityHigh:
		return metaPriorityHigh.Render("high")
	case model.PriorityStrategic:
		return metaPriorityStrategic.Render("strategic")
	case model.PriorityResolved:
		return metaResolved.Render("resolved")
	default:
		return string(p)
	}
}

// initiativeItem is one row of the dashboard list.
type initiativeItem struct {
	initiative model.Initiative
	// section label rendered inline ("attention", "in progress", "resolved").
	section string
	// overdue marks an initiative owning at least one overdue undone action.
	overdue bool
	// diverged marks disagreeing completion flags (resolved vs archived).
	diverged bool
	openN    int
}

func (i initiativeItem) FilterValue() string {
	return strings.TrimSpace(i.initiative.Title)
}

func (i initiativeItem) Title() string {
	title := strings.TrimSpace(i.initiative.Title)
	if title == "" {
		title = "(untitled)"
	}

	metaParts := make([]string, 0, 5)
	metaParts = append(metaParts, renderPriority(i.initiative.Priority))
	if i.overdue {
		metaParts = append(metaParts, metaOverdue.Render("overdue"))
	}
	if i.diverged {
		metaParts = append(metaParts, metaDiverged.Render("flags disagree"))
	}
	if i.openN > 0 {
		metaParts = append(metaParts, styleMuted().Render(fmt.Sprintf("%d open", i.openN)))
	}
	if o := strings.TrimSpace(i.initiative.Owner); o != "" {
		metaParts = append(metaParts, styleMuted().Render(o))
	}

	return fmt.Sprintf("  %s  %s", title, strings.Join(metaParts, " "))
}

// actionRowItem is one row of the planning list, tagged with its deadline
// bucket.
type actionRowItem struct {
	item   model.ActionItem
	bucket string // "overdue" | "this week" | "next week"
	parent string // owning initiative title
	today  time.Time
}

func (i actionRowItem) FilterValue() string {
	return strings.TrimSpace(i.item.Title)
}

func (i actionRowItem) Title() string {
	check := "[ ]"
	if i.item.Done() {
		check = "[x]"
	}
	title := strings.TrimSpace(i.item.Title)
	if title == "" {
		title = "(untitled)"
	}

	metaParts := make([]string, 0, 3)
	if d := formatDeadlineLabel(i.item.Deadline, i.today); d != "" {
		if i.bucket == "overdue" {
			metaParts = append(metaParts, metaOverdue.Render(d))
		} else {
			metaParts = append(metaParts, styleMuted().Render(d))
		}
	}
	if p := strings.TrimSpace(i.parent); p != "" {
		metaParts = append(metaParts, styleMuted().Render(p))
	}

	return fmt.Sprintf("  %s %s  %s", check, title, strings.Join(metaParts, " "))
}

type decisionItem struct {
	decision model.Decision
}

func (i decisionItem) FilterValue() string {
	return strings.TrimSpace(i.decision.Question)
}

func (i decisionItem) Title() string {
	q := strings.TrimSpace(i.decision.Question)
	if q == "" {
		q = "(no question)"
	}
	age := styleMuted().Render("asked " + i.decision.CreatedAt.Format("Jan 2"))
	return fmt.Sprintf("  ? %s  %s", q, age)
}
