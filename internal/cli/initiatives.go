package cli

import (
	"cadence-cli/internal/views"

	"github.com/spf13/cobra"
)

func newInitiativesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "initiatives",
		Aliases: []string{"init"},
		Short:   "List and update initiatives",
	}

	var includeResolved bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List initiatives",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if includeResolved {
				return writeOut(cmd, app, db.Initiatives)
			}
			active, _ := views.SplitActiveResolved(db.Initiatives)
			return writeOut(cmd, app, active)
		},
	}
	list.Flags().BoolVar(&includeResolved, "all", false, "Include resolved initiatives")

	resolve := &cobra.Command{
		Use:   "resolve <id>",
		Short: "Mark an initiative resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, client, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := coordinator(db, client).Resolve(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			in, _ := db.FindInitiative(args[0])
			return writeOut(cmd, app, in)
		},
	}

	restore := &cobra.Command{
		Use:   "restore <id>",
		Short: "Reopen a resolved initiative",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, client, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := coordinator(db, client).Restore(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			in, _ := db.FindInitiative(args[0])
			return writeOut(cmd, app, in)
		},
	}

	cmd.AddCommand(list)
	cmd.AddCommand(resolve)
	cmd.AddCommand(restore)
	return cmd
}
