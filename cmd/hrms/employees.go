package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/alfredjeanlab/hrms/internal/authz"
	"github.com/alfredjeanlab/hrms/internal/client"
	"github.com/alfredjeanlab/hrms/internal/events"
	"github.com/alfredjeanlab/hrms/internal/model"
	"github.com/spf13/cobra"
)

// viewer identifies the signed-in user for section authorization.
type viewer struct {
	ID   string
	Role model.Role
}

// currentViewer returns the identity saved by login, asking the server
// when the profile predates role tracking.
func currentViewer(ctx context.Context) (viewer, error) {
	if activeProfile.UserID != "" && activeProfile.Role != "" {
		return viewer{ID: activeProfile.UserID, Role: activeProfile.Role}, nil
	}
	u, err := hrClient.Me(ctx)
	if err != nil {
		return viewer{}, fmt.Errorf("resolving current user: %w", err)
	}
	return viewer{ID: u.ID, Role: u.Role}, nil
}

// authorizeSection turns a denied section edit into a validation error so
// it is reported like any other bad input and no request is sent.
func authorizeSection(section model.Section, v viewer, subjectID string) error {
	var ve model.ValidationError
	if !section.IsValid() {
		ve.Add("section", fmt.Sprintf("unknown section %q", section))
		return ve.Err()
	}
	if err := authz.Check(section, v.Role, v.ID, subjectID); err != nil {
		var denied *authz.DeniedError
		if errors.As(err, &denied) {
			ve.Add("section", denied.Error())
			return ve.Err()
		}
		return err
	}
	return nil
}

func employeeCommands() []*cobra.Command {
	patchCmd := &cobra.Command{
		Use:               "patch <id> <section>",
		Short:             "Update one profile section of an employee",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: sectionCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, section := args[0], model.Section(args[1])
			ctx := cmd.Context()

			v, err := currentViewer(ctx)
			if err != nil {
				return err
			}
			if err := authorizeSection(section, v, id); err != nil {
				return err
			}
			body, err := bodyFromFlags(cmd)
			if err != nil {
				return err
			}
			if section == model.SectionBasicInfo {
				if err := model.ValidateEmployeeBody(body, true); err != nil {
					return err
				}
			}

			emp, err := hrClient.Employees().Patch(ctx, id, string(section), body)
			if err != nil {
				return fmt.Errorf("updating %s of employee %s: %w", section, id, err)
			}
			notifyChange(ctx, client.PathEmployees, events.ActionUpdated, id)
			return printDetail(cmd.OutOrStdout(), currentOutput(), emp, employeeDetail(*emp))
		},
	}
	addBodyFlags(patchCmd)

	sectionsCmd := &cobra.Command{
		Use:   "sections <id>",
		Short: "Show which profile sections you may edit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := currentViewer(cmd.Context())
			if err != nil {
				return err
			}
			editable := authz.EditableSections(v.Role, v.ID, args[0])
			if currentOutput() == outputJSON {
				if editable == nil {
					editable = []model.Section{}
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"employee": args[0],
					"role":     v.Role,
					"editable": editable,
				})
			}
			allowed := make(map[model.Section]bool, len(editable))
			for _, s := range editable {
				allowed[s] = true
			}
			rows := make([][]string, len(model.AllSections))
			for i, s := range model.AllSections {
				mark := "no"
				if allowed[s] {
					mark = "yes"
				}
				rows[i] = []string{string(s), mark}
			}
			cols := []string{"SECTION", "EDITABLE"}
			if currentOutput() == outputCSV {
				return writeCSV(cmd.OutOrStdout(), cols, rows)
			}
			renderTable(cmd.OutOrStdout(), cols, rows)
			return nil
		},
	}

	return []*cobra.Command{patchCmd, sectionsCmd}
}

func sectionCompletion(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	out := make([]string, len(model.AllSections))
	for i, s := range model.AllSections {
		out[i] = string(s)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
