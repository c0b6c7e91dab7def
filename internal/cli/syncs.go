package cli

import (
	"cadence-cli/internal/model"

	"github.com/spf13/cobra"
)

func newSyncsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "syncs",
		Short: "Sync session log",
	}

	latest := &cobra.Command{
		Use:   "latest",
		Short: "Show the most recent sync session",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if db.LatestSync == nil {
				return writeOut(cmd, app, map[string]any{})
			}
			return writeOut(cmd, app, db.LatestSync)
		},
	}

	var draft model.SyncSessionDraft
	record := &cobra.Command{
		Use:   "record",
		Short: "Record a completed sync session",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, client, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			created, err := coordinator(db, client).RecordSync(cmd.Context(), draft)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, created)
		},
	}
	record.Flags().StringVar(&draft.Date, "date", "", "Session date (YYYY-MM-DD)")
	record.Flags().IntVar(&draft.DurationMinutes, "duration", 0, "Duration in minutes")
	record.Flags().IntVar(&draft.DecisionCount, "decisions", 0, "Decisions made")
	record.Flags().IntVar(&draft.ActionCount, "actions", 0, "Action items created")
	record.Flags().StringVar(&draft.NextSyncDate, "next-date", "", "Next sync date (YYYY-MM-DD)")
	record.Flags().StringVar(&draft.NextSyncFocus, "next-focus", "", "Next sync focus")

	var nextDate, nextFocus string
	next := &cobra.Command{
		Use:   "next",
		Short: "Update the next sync date and focus on the latest session",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, client, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := coordinator(db, client).SetNextSync(cmd.Context(), nextDate, nextFocus); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, db.LatestSync)
		},
	}
	next.Flags().StringVar(&nextDate, "date", "", "Next sync date (YYYY-MM-DD)")
	next.Flags().StringVar(&nextFocus, "focus", "", "Next sync focus")

	cmd.AddCommand(latest)
	cmd.AddCommand(record)
	cmd.AddCommand(next)
	return cmd
}
