package tui

import (
	"context"

	"cadence-cli/internal/api"
	"cadence-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive dashboard. The store starts from the offline
// snapshot (when one exists) so the first paint has content; Init then kicks
// off a full refresh.
func Run(client *api.Client, cache *store.Cache) error {
	applyColorProfilePreference()
	applyThemePreference()

	db := store.NewDB()
	if cache != nil {
		if cached, err := cache.Load(context.Background()); err == nil && cached != nil {
			db = cached
		}
	}

	m := newDashModel(client, cache, db)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
