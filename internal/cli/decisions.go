package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newDecisionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "decisions",
		Aliases: []string{"dec"},
		Short:   "List and resolve open decisions",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List open decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, db.Decisions)
		},
	}

	decide := &cobra.Command{
		Use:   "decide <id> <text...>",
		Short: "Record a decision",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, client, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			text := strings.Join(args[1:], " ")
			if err := coordinator(db, client).Decide(cmd.Context(), args[0], text); err != nil {
				return writeErr(cmd, err)
			}
			dec, _ := db.FindDecision(args[0])
			return writeOut(cmd, app, dec)
		},
	}

	deferCmd := &cobra.Command{
		Use:   "defer <id>",
		Short: "Defer a decision (removes it from the open list)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, client, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := coordinator(db, client).Defer(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"ok": true, "id": args[0]})
		},
	}

	cmd.AddCommand(list)
	cmd.AddCommand(decide)
	cmd.AddCommand(deferCmd)
	return cmd
}
