package commands

import (
	"fmt"
	"time"

	"rentpos-backend/internal/calendar"
	"rentpos-backend/internal/stats"

	"github.com/spf13/cobra"
)

func StatsCmd(env *Env) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the activity summary for a date range",
		Long:  "Both dates are inclusive. Without flags the current month is used.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			rng := stats.Range{
				From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
			}
			rng.To = rng.From.AddDate(0, 1, 0)

			if from != "" {
				d, err := calendar.ParseKey(from)
				if err != nil {
					return fmt.Errorf("--from: %w", err)
				}
				rng.From = d
			}
			if to != "" {
				d, err := calendar.ParseKey(to)
				if err != nil {
					return fmt.Errorf("--to: %w", err)
				}
				rng.To = d.AddDate(0, 0, 1)
			}
			if !rng.To.After(rng.From) {
				return fmt.Errorf("--to must not be before --from")
			}

			db, err := env.Open()
			if err != nil {
				return err
			}
			summary, err := stats.NewService(db, env.Log).Summary(cmd.Context(), rng, now)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	return cmd
}
