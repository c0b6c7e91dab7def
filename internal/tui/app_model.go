package tui

import (
	"time"

	"cadence-cli/internal/api"
	"cadence-cli/internal/model"
	"cadence-cli/internal/recur"
	"cadence-cli/internal/refresh"
	"cadence-cli/internal/store"
	"cadence-cli/internal/views"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type dashModel struct {
	client *api.Client
	cache  *store.Cache
	db     *store.DB
	ctrl   *refresh.Controller

	width  int
	height int
	// We treat the very first WindowSizeMsg as initial sizing rather than a
	// user-driven resize.
	seenWindowSize bool

	view view

	dashboardList list.Model
	planList      list.Model
	decisionsList list.Model

	// showResolved toggles the resolved section of the dashboard list.
	showResolved bool
	// showDetail toggles the initiative description panel.
	showDetail bool

	// Calendar month cursor. Navigating months issues a background fetch
	// stamped with a pre-reserved refresh sequence number.
	calYear     int
	calMonth    time.Month
	occurrences []recur.Occurrence

	modal      modalKind
	modalForID string
	input      textinput.Model

	notice    string
	noticeSeq int

	refreshing bool

	now func() time.Time
}

func newDashModel(client *api.Client, cache *store.Cache, db *store.DB) dashModel {
	now := time.Now()

	input := textinput.New()
	input.CharLimit = 200

	m := dashModel{
		client:   client,
		cache:    cache,
		db:       db,
		ctrl:     &refresh.Controller{Source: client},
		view:     viewDashboard,
		calYear:  now.Year(),
		calMonth: now.Month(),
		input:    input,
		now:      time.Now,
	}

	m.dashboardList = newList(nil)
	m.planList = newList(nil)
	m.decisionsList = newList(nil)
	m.rebuildAll()
	return m
}

func (m dashModel) Init() tea.Cmd {
	return m.fetchCmd(m.ctrl.NextSeq(), m.calYear, m.calMonth)
}

// fetchCmd runs a full refresh off the event loop. The sequence number is
// reserved on the loop before the command starts so numbering follows issue
// order even when responses arrive out of order.
func (m dashModel) fetchCmd(seq uint64, year int, month time.Month) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := contextWithTimeout()
		defer cancel()
		return refreshDoneMsg{batch: ctrl.FetchSeq(ctx, seq, year, month)}
	}
}

// rebuildAll recomputes every derived projection from the store. Projections
// are never cached across events; the store is small and recompute is cheap
// relative to a terminal repaint.
func (m *dashModel) rebuildAll() {
	m.rebuildDashboard()
	m.rebuildPlan()
	m.rebuildDecisions()
	m.rebuildCalendar()
}

func (m *dashModel) rebuildDashboard() {
	today := m.now()
	active, resolved := views.SplitActiveResolved(m.db.Initiatives)
	attention, inProgress := views.PartitionAttention(active, m.db.ActionsByInitiative, today)

	diverged := map[string]bool{}
	for _, in := range views.CompletionDivergence(m.db.Initiatives) {
		diverged[in.ID] = true
	}

	mk := func(in model.Initiative, section string) initiativeItem {
		open := 0
		for _, a := range m.db.ActionsFor(in.ID) {
			if !a.Done() {
				open++
			}
		}
		return initiativeItem{
			initiative: in,
			section:    section,
			overdue:    views.HasOverdueUndone(m.db.ActionsFor(in.ID), today),
			diverged:   diverged[in.ID],
			openN:      open,
		}
	}

	items := make([]list.Item, 0, len(m.db.Initiatives))
	for _, in := range attention {
		items = append(items, mk(in, "attention"))
	}
	for _, in := range inProgress {
		items = append(items, mk(in, "in progress"))
	}
	if m.showResolved {
		for _, in := range resolved {
			items = append(items, mk(in, "resolved"))
		}
	}
	m.dashboardList.SetItems(items)
}

func (m *dashModel) rebuildPlan() {
	today := m.now()
	b := views.BucketDeadlines(m.db.ActionsByInitiative, today)

	titleOf := func(initID string) string {
		if in, ok := m.db.FindInitiative(initID); ok {
			return in.Title
		}
		return ""
	}

	items := make([]list.Item, 0, len(b.Overdue)+len(b.ThisWeek)+len(b.NextWeek))
	for _, a := range b.Overdue {
		items = append(items, actionRowItem{item: a, bucket: "overdue", parent: titleOf(a.InitiativeID), today: today})
	}
	for _, a := range b.ThisWeek {
		items = append(items, actionRowItem{item: a, bucket: "this week", parent: titleOf(a.InitiativeID), today: today})
	}
	for _, a := range b.NextWeek {
		items = append(items, actionRowItem{item: a, bucket: "next week", parent: titleOf(a.InitiativeID), today: today})
	}
	m.planList.SetItems(items)
}

func (m *dashModel) rebuildDecisions() {
	items := make([]list.Item, 0, len(m.db.Decisions))
	for _, d := range m.db.Decisions {
		items = append(items, decisionItem{decision: d})
	}
	m.decisionsList.SetItems(items)
}

func (m *dashModel) rebuildCalendar() {
	from, to := refresh.MonthWindow(m.calYear, m.calMonth)
	m.occurrences = recur.Expand(m.db.KeyDates, from, to)
}

func (m dashModel) selectedInitiative() (model.Initiative, bool) {
	it, ok := m.dashboardList.SelectedItem().(initiativeItem)
	if !ok {
		return model.Initiative{}, false
	}
	return it.initiative, true
}

func (m dashModel) selectedAction() (model.ActionItem, bool) {
	it, ok := m.planList.SelectedItem().(actionRowItem)
	if !ok {
		return model.ActionItem{}, false
	}
	return it.item, true
}

func (m dashModel) selectedDecision() (model.Decision, bool) {
	it, ok := m.decisionsList.SelectedItem().(decisionItem)
	if !ok {
		return model.Decision{}, false
	}
	return it.decision, true
}
