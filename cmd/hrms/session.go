package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alfredjeanlab/hrms/internal/client"
	"github.com/alfredjeanlab/hrms/internal/credentials"
	"github.com/alfredjeanlab/hrms/internal/ui"
	"github.com/spf13/cobra"
)

// sessionProfile is the profile that login and logout write to.
func sessionProfile() string {
	switch {
	case profileName != "":
		return profileName
	case activeName != "":
		return activeName
	}
	return credentials.DefaultProfile
}

var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Sign in and save the session to a profile",
	GroupID: "session",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			email = activeProfile.Email
		}
		if email == "" {
			line, err := ui.ReadLine("Email: ", os.Stdin, os.Stderr)
			if err != nil {
				return err
			}
			email = strings.TrimSpace(line)
		}
		password, err := ui.ReadPassword("Password: ", os.Stdin, os.Stderr)
		if err != nil {
			return err
		}

		resp, err := hrClient.Login(cmd.Context(), &client.LoginRequest{Email: email, Password: password})
		if err != nil {
			return fmt.Errorf("logging in: %w", err)
		}

		name := sessionProfile()
		prof := credentials.Profile{
			URL:    cfg.APIURL,
			Prefix: cfg.APIPrefix,
			Token:  resp.Token,
			UserID: resp.User.ID,
			Role:   resp.User.Role,
			Name:   resp.User.Name,
			Email:  resp.User.Email,
		}
		if prof.Email == "" {
			prof.Email = email
		}
		if err := credStore.PutSession(name, prof); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		logger.Debug("session saved", "profile", name, "path", credStore.Path())

		who := prof.Name
		if who == "" {
			who = prof.Email
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Logged in as %s (%s) on profile %s\n",
			ui.RenderOK("✓"), who, prof.Role, ui.RenderAccent(name))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Forget the saved token of a profile",
	GroupID: "session",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := sessionProfile()
		if err := credStore.ClearToken(name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged out of profile %s\n", name)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the signed-in user",
	GroupID: "session",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := hrClient.Me(cmd.Context())
		if err != nil {
			if client.IsUnauthorized(err) {
				return fmt.Errorf("not logged in (run %s)", ui.RenderCommand("hrms login"))
			}
			return err
		}
		return printDetail(cmd.OutOrStdout(), currentOutput(), u, []detailField{
			{"ID", u.ID},
			{"Employee ID", u.EmployeeID},
			{"Name", u.Name},
			{"Email", u.Email},
			{"Role", string(u.Role)},
			{"Profile", activeName},
			{"Server", hrClient.BaseURL()},
		})
	},
}

var passwdCmd = &cobra.Command{
	Use:     "passwd",
	Short:   "Change your password",
	GroupID: "session",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var req client.ChangePasswordRequest
		for _, p := range []struct {
			prompt string
			dst    *string
		}{
			{"Current password: ", &req.CurrentPassword},
			{"New password: ", &req.NewPassword},
			{"Confirm new password: ", &req.ConfirmPassword},
		} {
			v, err := ui.ReadPassword(p.prompt, os.Stdin, os.Stderr)
			if err != nil {
				return err
			}
			*p.dst = v
		}
		if err := hrClient.ChangePassword(cmd.Context(), &req); err != nil {
			return fmt.Errorf("changing password: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderOK("✓"), "Password changed")
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:     "profile",
	Short:   "Manage saved profiles",
	GroupID: "session",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := credStore.Load()
		if err != nil {
			return err
		}
		if currentOutput() == outputJSON {
			// Tokens stay on disk.
			out := make([]map[string]any, 0, len(f.Profiles))
			for _, name := range f.Names() {
				p := f.Profiles[name]
				out = append(out, map[string]any{
					"name":      name,
					"url":       p.URL,
					"prefix":    p.Prefix,
					"email":     p.Email,
					"role":      p.Role,
					"active":    name == f.Active,
					"logged_in": p.Token != "",
				})
			}
			return printJSON(cmd.OutOrStdout(), out)
		}
		cols := []string{"", "NAME", "URL", "EMAIL", "ROLE", "SESSION"}
		rows := make([][]string, 0, len(f.Profiles))
		for _, name := range f.Names() {
			p := f.Profiles[name]
			mark, session := "", "logged out"
			if name == f.Active {
				mark = "*"
			}
			if p.Token != "" {
				session = "active"
			}
			rows = append(rows, []string{mark, name, p.URL, p.Email, string(p.Role), session})
		}
		if currentOutput() == outputCSV {
			return writeCSV(cmd.OutOrStdout(), cols, rows)
		}
		renderTable(cmd.OutOrStdout(), cols, rows)
		return nil
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Make a profile the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := credStore.Use(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Active profile: %s\n", args[0])
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a saved profile",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := credStore.Remove(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed profile %s\n", args[0])
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "account email (prompted when omitted)")
	profileCmd.AddCommand(profileListCmd, profileUseCmd, profileRemoveCmd)
}
