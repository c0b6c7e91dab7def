package cli

import (
	"time"

	"cadence-cli/internal/model"
	"cadence-cli/internal/views"

	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if db.Summary == nil {
				return writeOut(cmd, app, map[string]any{})
			}
			return writeOut(cmd, app, db.Summary)
		},
	}
}

type triageOut struct {
	NeedsAttention []model.Initiative `json:"needsAttention"`
	InProgress     []model.Initiative `json:"inProgress"`
	Resolved       []model.Initiative `json:"resolved"`
	Diverged       []model.Initiative `json:"diverged,omitempty"`
}

func newTriageCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "triage",
		Short: "Partition initiatives into attention / in-progress / resolved",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			today := time.Now()
			active, resolved := views.SplitActiveResolved(db.Initiatives)
			attention, inProgress := views.PartitionAttention(active, db.ActionsByInitiative, today)
			return writeOut(cmd, app, triageOut{
				NeedsAttention: attention,
				InProgress:     inProgress,
				Resolved:       resolved,
				Diverged:       views.CompletionDivergence(db.Initiatives),
			})
		},
	}
}

type planOut struct {
	Overdue  []model.ActionItem `json:"overdue"`
	ThisWeek []model.ActionItem `json:"thisWeek"`
	NextWeek []model.ActionItem `json:"nextWeek"`
}

func newPlanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Bucket open action items by deadline (overdue / this week / next week)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			b := views.BucketDeadlines(db.ActionsByInitiative, time.Now())
			return writeOut(cmd, app, planOut{
				Overdue:  b.Overdue,
				ThisWeek: b.ThisWeek,
				NextWeek: b.NextWeek,
			})
		},
	}
}
