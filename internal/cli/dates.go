package cli

import (
	"fmt"
	"time"

	"cadence-cli/internal/recur"
	"cadence-cli/internal/refresh"

	"github.com/spf13/cobra"
)

func newDatesCmd(app *App) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "dates",
		Short: "List key date occurrences for a month (recurrences expanded)",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			year, mon := now.Year(), now.Month()
			if month != "" {
				t, err := time.Parse("2006-01", month)
				if err != nil {
					return writeErr(cmd, fmt.Errorf("bad --month %q, want YYYY-MM", month))
				}
				year, mon = t.Year(), t.Month()
			}

			client, _, err := app.collaborator()
			if err != nil {
				return writeErr(cmd, err)
			}
			from, to := refresh.MonthWindow(year, mon)
			keyDates, err := client.KeyDates(cmd.Context(), from, to)
			if err != nil {
				return writeErr(cmd, err)
			}

			occ := recur.Expand(keyDates, from, to)
			return writeOut(cmd, app, occ)
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month to expand (YYYY-MM, default current)")
	return cmd
}
