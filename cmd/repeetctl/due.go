package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	dueUser string
	dueAt   string
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "Show a user's problems due for review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(dueUser) == "" {
			return errors.New("--user is required")
		}
		at := time.Now()
		if dueAt != "" {
			t, err := time.Parse(time.RFC3339, dueAt)
			if err != nil {
				return fmt.Errorf("--at must be RFC 3339: %w", err)
			}
			at = t
		}

		ctx, a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.QueryService.ReviewsDue(ctx, dueUser, at)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		loc := a.Config.Location()
		if len(res.ReviewsDue) == 0 {
			fmt.Fprintln(out, "No problems due.")
		} else {
			fmt.Fprintf(out, "%d problems due:\n\n", len(res.ReviewsDue))
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Slug\tTitle\tDifficulty\tInterval\tEase\tNext Review")
			for _, e := range res.ReviewsDue {
				fmt.Fprintf(w, "%s\t%s\t%s\t%dd\t%.2f\t%s\n",
					e.ProblemSlug, e.Title, e.OfficialDifficulty, e.IntervalDays, e.EaseFactor,
					e.NextReviewDate.In(loc).Format("2006-01-02"))
			}
			_ = w.Flush()
		}
		if res.NextUp != nil {
			fmt.Fprintf(out, "\nNext up: %s on %s\n", res.NextUp.Title, res.NextUp.NextReviewDate.In(loc).Format("2006-01-02"))
		}
		return nil
	},
}

func init() {
	dueCmd.Flags().StringVar(&dueUser, "user", "", "user id")
	dueCmd.Flags().StringVar(&dueAt, "at", "", "evaluate at this RFC 3339 time instead of now")
	rootCmd.AddCommand(dueCmd)
}
