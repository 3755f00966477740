package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alfredjeanlab/hrms/internal/client"
	"github.com/alfredjeanlab/hrms/internal/config"
	"github.com/alfredjeanlab/hrms/internal/credentials"
	"github.com/alfredjeanlab/hrms/internal/ui"
	"github.com/spf13/cobra"
)

var (
	apiURL       string
	apiPrefix    string
	profileName  string
	jsonOutput   bool
	outputFormat string
	verbose      bool
	timeout      time.Duration

	cfg       *config.Config
	credStore *credentials.Store
	hrClient  *client.HTTPClient
	logger    *slog.Logger

	// Resolved by setup from --profile or the file's active marker.
	activeName    string
	activeProfile credentials.Profile
)

var rootCmd = &cobra.Command{
	Use:           "hrms <command>",
	Short:         "CLI client for the HRMS service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if hrClient != nil {
			hrClient.Close()
		}
		closeNotifier()
	},
}

// setup resolves configuration in order flag > environment > active
// profile > default, then builds the logger, credential store and client.
func setup(cmd *cobra.Command) error {
	var err error
	if cfg, err = config.Load(); err != nil {
		return err
	}

	level := cfg.LogLevel
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if !ui.ShouldUseColor() {
		ui.ForceNoColor()
	}

	path := cfg.CredentialsFile
	if path == "" {
		if path, err = credentials.DefaultPath(); err != nil {
			return err
		}
	}
	credStore = credentials.NewStore(path)

	name, prof, err := credStore.Active(profileName)
	if err != nil && !errors.Is(err, credentials.ErrNoProfile) {
		return fmt.Errorf("reading credentials: %w", err)
	}
	activeName, activeProfile = name, prof
	flags := cmd.Flags()
	switch {
	case flags.Changed("api-url"):
		cfg.APIURL = apiURL
	case !cfg.APIURLFromEnv && prof.URL != "":
		cfg.APIURL = prof.URL
	}
	switch {
	case flags.Changed("prefix"):
		cfg.APIPrefix = apiPrefix
	case !cfg.APIPrefixFromEnv && prof.Prefix != "":
		cfg.APIPrefix = prof.Prefix
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}

	if _, err := parseOutput(); err != nil {
		return err
	}

	hrClient = client.NewHTTPClient(cfg.BaseURL(),
		client.WithTokenSource(credStore.TokenFor(profileName)),
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(logger),
	)
	logger.Debug("client configured", "base_url", cfg.BaseURL(), "profile", profileName)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API server URL (default $HRMS_API_URL or the profile's URL)")
	rootCmd.PersistentFlags().StringVar(&apiPrefix, "prefix", "", "API path prefix (default $HRMS_API_PREFIX or \"api\")")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "credential profile to use (default: active profile)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON (same as --output json)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json or csv")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every request to stderr")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-request timeout (default $HRMS_TIMEOUT or 30s)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "records", Title: "Records:"},
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "session", Title: "Session:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Records
	for _, r := range registry {
		rootCmd.AddCommand(r.command())
	}

	// Views
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)

	// Session
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(passwdCmd)
	rootCmd.AddCommand(profileCmd)

	// System
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderError("Error:"), err)
		os.Exit(1)
	}
}
