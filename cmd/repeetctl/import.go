package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vytor/repeetcode/internal/importer"
)

var importSheet string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load problems from a LeetCode JSON dump, CSV or XLSX file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.CatalogService.Import(ctx, args[0], importer.Options{Sheet: importSheet})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d problems\n", report.Imported)
		for _, s := range report.Skipped {
			fmt.Fprintf(out, "  skipped %s\n", s)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importSheet, "sheet", importer.DefaultSheet, "worksheet to read from an XLSX file")
	rootCmd.AddCommand(importCmd)
}
