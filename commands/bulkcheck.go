// Package commands holds the console commands added to the PocketBase CLI.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sheetquote/services"
)

// NewBulkCheckCommand returns `bulkcheck <file>`, which reads a bulk pricing
// file the way the builder does and prints what it found.
func NewBulkCheckCommand(currency string) *cobra.Command {
	var issuesOut string

	cmd := &cobra.Command{
		Use:   "bulkcheck <file>",
		Short: "Check a bulk pricing file (.csv, .txt or .xlsx) before uploading it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("bulkcheck: %w", err)
			}
			defer f.Close()

			res, err := services.ParseBulkPricingFile(f, filepath.Base(path))
			if err != nil {
				return fmt.Errorf("bulkcheck: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d priced row(s), %d issue(s)\n", len(res.Entries), len(res.Issues))
			for _, e := range res.Entries {
				fmt.Fprintf(out, "  %-20s %-20s %s\n", e.PartRef, e.Material, services.FormatMoney(currency, e.UnitPrice))
			}
			for _, is := range res.Issues {
				fmt.Fprintf(out, "  ! %s\n", is.Error())
			}

			if issuesOut != "" && len(res.Issues) > 0 {
				report, err := services.GenerateIssueReport(res.Issues)
				if err != nil {
					return fmt.Errorf("bulkcheck: issue report: %w", err)
				}
				if err := os.WriteFile(issuesOut, report, 0o644); err != nil {
					return fmt.Errorf("bulkcheck: %w", err)
				}
				fmt.Fprintf(out, "issue report written to %s\n", issuesOut)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&issuesOut, "issues-out", "", "write skipped and zero-priced rows to this .xlsx file")
	return cmd
}
