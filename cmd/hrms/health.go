package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check the health of the HRMS service",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := hrClient.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}

		if currentOutput() == outputJSON {
			if err := printJSON(cmd.OutOrStdout(), map[string]string{"status": status, "server": hrClient.BaseURL()}); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Health: %s\n", status)
		}

		if !isHealthy(status) {
			return fmt.Errorf("unhealthy: %s", status)
		}
		return nil
	},
}

func isHealthy(status string) bool {
	return strings.EqualFold(status, "ok") || strings.EqualFold(status, "healthy")
}
