package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Apply attempts whose review state update never committed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.ReconcileJob().Reconcile(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Found %d, applied %d, rejected %d, failed %d\n",
			stats.Found, stats.Applied, stats.Rejected, stats.Failed)
		if stats.Failed > 0 {
			return fmt.Errorf("%d attempts could not be applied", stats.Failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}
