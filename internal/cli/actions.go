package cli

import (
	"cadence-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newActionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "actions",
		Aliases: []string{"act"},
		Short:   "List and update action items",
	}

	var forInitiative string
	list := &cobra.Command{
		Use:   "list",
		Short: "List action items",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if forInitiative != "" {
				return writeOut(cmd, app, db.ActionsFor(forInitiative))
			}
			return writeOut(cmd, app, db.AllActions())
		},
	}
	list.Flags().StringVar(&forInitiative, "initiative", "", "Only items for this initiative id")

	var deadline string
	add := &cobra.Command{
		Use:   "add <initiative-id> <title>",
		Short: "Add an action item to an initiative",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, client, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			created, err := coordinator(db, client).CreateAction(cmd.Context(), args[0], args[1], deadline)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, created)
		},
	}
	add.Flags().StringVar(&deadline, "deadline", "", "Deadline (YYYY-MM-DD)")

	toggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle an action item between done and not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, client, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			item, err := coordinator(db, client).ToggleAction(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, item)
		},
	}

	var newTitle, newDeadline string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an action item's title or deadline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, client, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var edit mutate.ActionEdit
			if cmd.Flags().Changed("title") {
				edit.Title = &newTitle
			}
			if cmd.Flags().Changed("deadline") {
				edit.Deadline = &newDeadline
			}
			if err := coordinator(db, client).EditAction(cmd.Context(), args[0], edit); err != nil {
				return writeErr(cmd, err)
			}
			item, _, _ := db.FindAction(args[0])
			return writeOut(cmd, app, item)
		},
	}
	edit.Flags().StringVar(&newTitle, "title", "", "New title")
	edit.Flags().StringVar(&newDeadline, "deadline", "", "New deadline (YYYY-MM-DD, empty clears)")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an action item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, client, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := coordinator(db, client).DeleteAction(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"ok": true, "id": args[0]})
		},
	}

	cmd.AddCommand(list)
	cmd.AddCommand(add)
	cmd.AddCommand(toggle)
	cmd.AddCommand(edit)
	cmd.AddCommand(rm)
	return cmd
}
