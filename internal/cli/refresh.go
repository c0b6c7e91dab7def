package cli

import (
	"github.com/spf13/cobra"
)

func newRefreshCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch a fresh snapshot and update the offline cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := map[string]any{
				"initiatives": len(db.Initiatives),
				"decisions":   len(db.Decisions),
				"keyDates":    len(db.KeyDates),
				"actionItems": len(db.AllActions()),
			}
			return writeOut(cmd, app, out)
		},
	}
}
