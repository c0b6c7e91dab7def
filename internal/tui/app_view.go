package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 2
	footerHeight = 2
)

func (m *dashModel) resizeLists() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	listW := m.width
	if m.view == viewDashboard && m.showDetail {
		listW = m.width / 2
	}
	listH := m.height - headerHeight - footerHeight
	if listH < 1 {
		listH = 1
	}
	m.dashboardList.SetSize(listW, listH)
	m.planList.SetSize(m.width, listH)
	m.decisionsList.SetSize(m.width, listH)
}

func (m dashModel) View() string {
	if !m.seenWindowSize {
		return ""
	}

	var body string
	switch m.view {
	case viewDashboard:
		body = m.viewDashboard()
	case viewPlanning:
		body = m.planList.View()
	case viewCalendar:
		body = m.viewCalendar()
	case viewDecisions:
		body = m.decisionsList.View()
	}

	if m.modal != modalNone {
		body = m.viewModal()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.viewHeader(), body, m.viewFooter())
}

var (
	tabActiveStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	headerStyle    = lipgloss.NewStyle().Foreground(colorHeaderFg)
	noticeStyle    = lipgloss.NewStyle().Foreground(colorNoticeFg).Background(colorNoticeBg).Padding(0, 1)
)

func (m dashModel) viewHeader() string {
	tabs := []string{"1 dashboard", "2 plan", "3 calendar", "4 decisions"}
	for i := range tabs {
		if view(i) == m.view {
			tabs[i] = tabActiveStyle.Render(tabs[i])
		} else {
			tabs[i] = styleMuted().Render(tabs[i])
		}
	}
	line := strings.Join(tabs, "   ")
	if m.refreshing {
		line += "   " + styleMuted().Render("refreshing…")
	}
	return headerStyle.Render(line) + "\n" + m.viewSummaryLine()
}

// viewSummaryLine renders the server-computed summary strip. The client never
// derives these numbers; a missing summary renders as a placeholder.
func (m dashModel) viewSummaryLine() string {
	s := m.db.Summary
	if s == nil {
		return styleMuted().Render("no summary yet")
	}
	parts := []string{
		fmt.Sprintf("%d active", s.ActiveCount),
		fmt.Sprintf("%d%% on track", s.OnTrackPct),
	}
	if s.NextSyncDate != "" {
		next := fmt.Sprintf("next sync %s", formatDateLabel(s.NextSyncDate))
		if s.NextSyncFocus != "" {
			next += " · " + s.NextSyncFocus
		}
		if s.DaysUntilSync >= 0 {
			next += fmt.Sprintf(" (in %dd)", s.DaysUntilSync)
		}
		parts = append(parts, next)
	}
	return styleMuted().Render(strings.Join(parts, "  ·  "))
}

func (m dashModel) viewFooter() string {
	if m.notice != "" {
		return noticeStyle.Render(m.notice)
	}
	var help string
	switch m.view {
	case viewDashboard:
		help = "a add action · R resolve · u restore · z resolved · enter detail · r refresh · q quit"
	case viewPlanning:
		help = "space toggle · D delete · r refresh · q quit"
	case viewCalendar:
		help = "[ prev month · ] next · t today · r refresh · q quit"
	case viewDecisions:
		help = "enter decide · f defer · r refresh · q quit"
	}
	return styleMuted().Render(help)
}

func (m dashModel) viewDashboard() string {
	if !m.showDetail {
		return m.dashboardList.View()
	}

	detailW := m.width - m.width/2 - 1
	if detailW < 20 {
		return m.dashboardList.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.dashboardList.View(),
		" ",
		m.viewDetail(detailW),
	)
}

func (m dashModel) viewDetail(width int) string {
	in, ok := m.selectedInitiative()
	if !ok {
		return styleMuted().Render("nothing selected")
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(in.Title))
	b.WriteString("\n")
	meta := []string{renderPriority(in.Priority)}
	if in.Function != "" {
		meta = append(meta, in.Function)
	}
	if in.Owner != "" {
		meta = append(meta, in.Owner)
	}
	if in.StatusLabel != "" {
		meta = append(meta, in.StatusLabel)
	}
	if in.Deadline != "" {
		meta = append(meta, "due "+formatDateLabel(in.Deadline))
	}
	b.WriteString(styleMuted().Render(strings.Join(meta, " · ")))
	b.WriteString("\n\n")
	if d := renderMarkdown(in.Description, width); d != "" {
		b.WriteString(d)
		b.WriteString("\n\n")
	}

	actions := m.db.ActionsFor(in.ID)
	if len(actions) > 0 {
		b.WriteString(styleMuted().Render("action items"))
		b.WriteString("\n")
		today := m.now()
		for _, a := range actions {
			check := "[ ]"
			if a.Done() {
				check = "[x]"
			}
			line := fmt.Sprintf("%s %s", check, a.Title)
			if d := formatDeadlineLabel(a.Deadline, today); d != "" {
				line += "  " + styleMuted().Render(d)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().Width(width).Render(b.String())
}

var modalStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorAccent).
	Padding(1, 2)

func (m dashModel) viewModal() string {
	var title string
	switch m.modal {
	case modalAddAction:
		title = "Add action item"
	case modalDecide:
		title = "Record decision"
	case modalNextSync:
		title = "Next sync date"
	}

	box := modalStyle.Render(title + "\n\n" + m.input.View() + "\n\n" + styleMuted().Render("enter save · esc cancel"))
	return lipgloss.Place(m.width, m.height-headerHeight-footerHeight, lipgloss.Center, lipgloss.Center, box)
}
