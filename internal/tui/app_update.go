package tui

import (
	"context"
	"strings"
	"time"

	"cadence-cli/internal/model"
	"cadence-cli/internal/mutate"
	"cadence-cli/internal/refresh"
	"cadence-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

const writeTimeout = 10 * time.Second

func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), writeTimeout)
}

func (m dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenWindowSize = true
		m.resizeLists()
		return m, nil

	case refreshDoneMsg:
		m.refreshing = false
		if !refresh.Apply(m.db, msg.batch) {
			// Stale batch (an older fetch resolving late); drop it.
			return m, nil
		}
		m.rebuildAll()
		var cmd tea.Cmd
		if err := msg.batch.Err(); err != nil {
			m, cmd = m.setNotice(err.Error())
		} else if m.cache != nil {
			db := m.db.Clone()
			cache := m.cache
			cmd = func() tea.Msg {
				ctx, cancel := contextWithTimeout()
				defer cancel()
				_ = cache.Save(ctx, db)
				return nil
			}
		}
		return m, cmd

	case writeDoneMsg:
		if msg.err != nil {
			// The write failed: undo the optimistic apply, unless a newer
			// mutation or refresh got there first.
			msg.pending.Rollback(m.db)
			m.rebuildAll()
			return m.setNotice(mutate.UserNotice(&mutate.NoticeError{Notice: msg.notice, Err: msg.err}))
		}
		if msg.adopt != nil {
			msg.adopt(m.db)
			m.rebuildAll()
		}
		return m, nil

	case noticeExpireMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		return m.updateKey(msg)
	}

	return m.updateLists(msg)
}

func (m dashModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "1":
		m.view = viewDashboard
		return m, nil
	case "2":
		m.view = viewPlanning
		return m, nil
	case "3":
		m.view = viewCalendar
		return m, nil
	case "4":
		m.view = viewDecisions
		return m, nil
	case "tab":
		m.view = (m.view + 1) % 4
		return m, nil

	case "r":
		m.refreshing = true
		seq := m.ctrl.NextSeq()
		return m, m.fetchCmd(seq, m.calYear, m.calMonth)
	}

	switch m.view {
	case viewDashboard:
		return m.updateDashboardKey(msg)
	case viewPlanning:
		return m.updatePlanningKey(msg)
	case viewCalendar:
		return m.updateCalendarKey(msg)
	case viewDecisions:
		return m.updateDecisionsKey(msg)
	}
	return m, nil
}

func (m dashModel) updateDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "z":
		m.showResolved = !m.showResolved
		m.rebuildDashboard()
		return m, nil

	case "enter":
		m.showDetail = !m.showDetail
		m.resizeLists()
		return m, nil

	case "R":
		in, ok := m.selectedInitiative()
		if !ok {
			return m, nil
		}
		p, err := mutate.ResolveInitiative(m.db, in.ID)
		if err != nil {
			return m.setNotice(err.Error())
		}
		if !p.Applied() {
			return m, nil
		}
		m.rebuildDashboard()
		return m, m.resolveCmd(p, in.ID, true)

	case "u":
		in, ok := m.selectedInitiative()
		if !ok {
			return m, nil
		}
		p, err := mutate.RestoreInitiative(m.db, in.ID)
		if err != nil {
			return m.setNotice(err.Error())
		}
		if !p.Applied() {
			return m, nil
		}
		m.rebuildDashboard()
		return m, m.resolveCmd(p, in.ID, false)

	case "a":
		in, ok := m.selectedInitiative()
		if !ok {
			return m, nil
		}
		m.modal = modalAddAction
		m.modalForID = in.ID
		m.input.Placeholder = "New action item title"
		m.input.SetValue("")
		m.input.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	m.dashboardList, cmd = m.dashboardList.Update(msg)
	return m, cmd
}

func (m dashModel) updatePlanningKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ", "x":
		a, ok := m.selectedAction()
		if !ok {
			return m, nil
		}
		p, _, err := mutate.ToggleAction(m.db, a.ID, m.now())
		if err != nil {
			return m.setNotice(err.Error())
		}
		m.rebuildPlan()
		m.rebuildDashboard()
		return m, m.writeCmd(p, "Failed to toggle action item", func(ctx context.Context) error {
			return m.client.ToggleActionItem(ctx, a.ID)
		})

	case "D":
		a, ok := m.selectedAction()
		if !ok {
			return m, nil
		}
		p, _, err := mutate.DeleteAction(m.db, a.ID)
		if err != nil {
			return m.setNotice(err.Error())
		}
		m.rebuildPlan()
		m.rebuildDashboard()
		return m, m.writeCmd(p, "Failed to delete action item", func(ctx context.Context) error {
			return m.client.DeleteActionItem(ctx, a.ID)
		})
	}

	var cmd tea.Cmd
	m.planList, cmd = m.planList.Update(msg)
	return m, cmd
}

func (m dashModel) updateCalendarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "[", "h":
		return m.navigateMonth(-1)
	case "]", "l":
		return m.navigateMonth(1)
	case "t":
		now := m.now()
		if now.Year() == m.calYear && now.Month() == m.calMonth {
			return m, nil
		}
		m.calYear, m.calMonth = now.Year(), now.Month()
		return m.issueMonthFetch()
	}
	return m, nil
}

func (m dashModel) navigateMonth(delta int) (tea.Model, tea.Cmd) {
	t := time.Date(m.calYear, m.calMonth, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	m.calYear, m.calMonth = t.Year(), t.Month()
	return m.issueMonthFetch()
}

// issueMonthFetch rebuilds the calendar from whatever key dates are already
// local, then fetches the newly visible month in the background. Rapid month
// navigation issues several fetches; sequence numbering makes sure only the
// newest one sticks.
func (m dashModel) issueMonthFetch() (tea.Model, tea.Cmd) {
	m.rebuildCalendar()
	m.refreshing = true
	seq := m.ctrl.NextSeq()
	return m, m.fetchCmd(seq, m.calYear, m.calMonth)
}

func (m dashModel) updateDecisionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		d, ok := m.selectedDecision()
		if !ok {
			return m, nil
		}
		m.modal = modalDecide
		m.modalForID = d.ID
		m.input.Placeholder = "Decision"
		m.input.SetValue("")
		m.input.Focus()
		return m, nil

	case "f":
		d, ok := m.selectedDecision()
		if !ok {
			return m, nil
		}
		p, err := mutate.Defer(m.db, d.ID)
		if err != nil {
			return m.setNotice(err.Error())
		}
		m.rebuildDecisions()
		return m, m.writeCmd(p, "Failed to defer decision", func(ctx context.Context) error {
			return m.client.DeferDecision(ctx, d.ID)
		})
	}

	var cmd tea.Cmd
	m.decisionsList, cmd = m.decisionsList.Update(msg)
	return m, cmd
}

func (m dashModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.modal = modalNone
		m.input.Blur()
		return m, nil

	case "enter":
		text := strings.TrimSpace(m.input.Value())
		kind, forID := m.modal, m.modalForID
		m.modal = modalNone
		m.input.Blur()

		switch kind {
		case modalAddAction:
			p, tmp, err := mutate.CreateAction(m.db, forID, text, "", m.now())
			if err != nil {
				return m.setNotice(err.Error())
			}
			m.rebuildDashboard()
			m.rebuildPlan()
			client := m.client
			tempID := tmp.ID
			return m, func() tea.Msg {
				ctx, cancel := contextWithTimeout()
				defer cancel()
				created, err := client.CreateActionItem(ctx, forID, text, "")
				return writeDoneMsg{
					notice:  "Failed to create action item",
					pending: p,
					err:     err,
					adopt: func(db *store.DB) {
						mutate.AdoptCreated(db, tempID, created)
					},
				}
			}

		case modalDecide:
			p, err := mutate.Decide(m.db, forID, text, m.now())
			if err != nil {
				return m.setNotice(err.Error())
			}
			m.rebuildDecisions()
			return m, m.writeCmd(p, "Failed to record decision", func(ctx context.Context) error {
				return m.client.DecideDecision(ctx, forID, text)
			})

		case modalNextSync:
			p, err := mutate.SetNextSync(m.db, text, "")
			if err != nil {
				return m.setNotice(err.Error())
			}
			syncID := ""
			if m.db.LatestSync != nil {
				syncID = m.db.LatestSync.ID
			}
			return m, m.writeCmd(p, "Failed to update next sync", func(ctx context.Context) error {
				return m.client.UpdateNextSync(ctx, syncID, text, "")
			})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// writeCmd issues a remote write in the background. The optimistic apply has
// already happened on the event loop; the returned message carries the
// rollback token so a failure can undo it.
func (m dashModel) writeCmd(p mutate.Pending, notice string, call func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := contextWithTimeout()
		defer cancel()
		return writeDoneMsg{notice: notice, pending: p, err: call(ctx)}
	}
}

func (m dashModel) resolveCmd(p mutate.Pending, id string, resolve bool) tea.Cmd {
	client := m.client
	return m.writeCmd(p, noticeFor(resolve), func(ctx context.Context) error {
		if resolve {
			return client.SetInitiativePriority(ctx, id, model.PriorityResolved)
		}
		return client.SetInitiativePriority(ctx, id, model.PriorityStrategic)
	})
}

func noticeFor(resolve bool) string {
	if resolve {
		return "Failed to resolve initiative"
	}
	return "Failed to restore initiative"
}

// setNotice shows a transient footer notice. The sequence guard keeps an
// earlier notice's expiry tick from clearing a later notice.
func (m dashModel) setNotice(text string) (dashModel, tea.Cmd) {
	m.notice = text
	m.noticeSeq++
	seq := m.noticeSeq
	return m, tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return noticeExpireMsg{seq: seq}
	})
}

func (m dashModel) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case viewDashboard:
		m.dashboardList, cmd = m.dashboardList.Update(msg)
	case viewPlanning:
		m.planList, cmd = m.planList.Update(msg)
	case viewDecisions:
		m.decisionsList, cmd = m.decisionsList.Update(msg)
	}
	return m, cmd
}
