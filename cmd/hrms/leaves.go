package main

import (
	"fmt"

	"github.com/alfredjeanlab/hrms/internal/client"
	"github.com/alfredjeanlab/hrms/internal/events"
	"github.com/alfredjeanlab/hrms/internal/model"
	"github.com/spf13/cobra"
)

func leaveCommands() []*cobra.Command {
	return []*cobra.Command{
		leaveDecisionCmd("approve", model.LeaveApproved),
		leaveDecisionCmd("reject", model.LeaveRejected),
	}
}

func leaveDecisionCmd(verb string, status model.LeaveStatus) *cobra.Command {
	cmd := &cobra.Command{
		Use:   verb + " <id>",
		Short: fmt.Sprintf("Mark a leave request %s", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remarks, _ := cmd.Flags().GetString("remarks")
			leave, err := hrClient.UpdateLeaveStatus(cmd.Context(), args[0], status, remarks)
			if err != nil {
				return fmt.Errorf("%s leave %s: %w", verb, args[0], err)
			}
			notifyChange(cmd.Context(), client.PathLeaves, events.ActionUpdated, args[0])
			return printDetail(cmd.OutOrStdout(), currentOutput(), leave, leaveDetail(*leave))
		},
	}
	cmd.Flags().String("remarks", "", "note shown to the employee")
	return cmd
}
