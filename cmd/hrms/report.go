package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <name>",
	Short: "Run a server-side report",
	Long: `Fetch GET reports/<name> and print it as a table.

Columns are the union of the keys of every returned row. Use --filter to
pass report parameters, e.g. --filter from=2024-01-01.`,
	GroupID: "views",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := listFilters(cmd, nil)
		if err != nil {
			return err
		}
		rep, err := hrClient.Report(cmd.Context(), args[0], f)
		if err != nil {
			return fmt.Errorf("running report %s: %w", args[0], err)
		}
		return printList(cmd.OutOrStdout(), currentOutput(), reportView(rep.Name, rep.Columns, rep.Rows, rep.Pagination))
	},
}

func init() {
	addListFlags(reportCmd, nil)
}
