package main

import (
	"bufio"
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gorewood/gy/internal/auth"
	"github.com/gorewood/gy/internal/config"
	"github.com/gorewood/gy/internal/output"
)

// authStatus is the --json output of 'gy auth status'.
type authStatus struct {
	Configured bool   `json:"configured"`
	Source     string `json:"source"`
	Key        string `json:"key,omitempty"`
	Path       string `json:"path"`
	Model      string `json:"model,omitempty"`
}

// newAuthCmd creates the auth command group.
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored Anthropic API key",
		Long: `Manage the Anthropic API key gy uses.

ANTHROPIC_API_KEY always takes precedence over the stored key.

Examples:
  gy auth login    # Enter, validate and save a key
  gy auth status   # Show where the active key comes from
  gy auth logout   # Delete the stored key`,
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Enter, validate and save an API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
				WithStderr(cmd.ErrOrStderr())

			stdin := cmd.InOrStdin()
			prompter := auth.NewPrompter(bufio.NewReader(stdin), printer, auth.ValidateWithAPI)
			prompter.TTY = auth.Terminal(stdin)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if _, err := prompter.Login(ctx); err != nil {
				printer.Error(err)
				return err
			}

			if os.Getenv(config.APIKeyEnvVar) != "" {
				printer.Warn("%s is set and takes precedence over the saved key", config.APIKeyEnvVar)
			}
			return printer.Success(map[string]any{"message": "Logged in", "saved": true})
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active API key source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
				WithStderr(cmd.ErrOrStderr())

			status, err := readAuthStatus()
			if err != nil {
				printer.Error(err)
				return err
			}

			if printer.IsJSON() {
				return printer.WriteJSON(status)
			}

			if !status.Configured {
				printer.KeyValue("Key", "not configured")
				printer.Hint("Run 'gy auth login' or set %s.", config.APIKeyEnvVar)
				return nil
			}
			printer.KeyValue("Key", status.Key)
			printer.KeyValue("Source", status.Source)
			printer.KeyValue("Config", status.Path)
			if status.Model != "" {
				printer.KeyValue("Model", status.Model)
			}
			return nil
		},
	}
}

// readAuthStatus gathers key, source and config details. The key is masked.
func readAuthStatus() (*authStatus, error) {
	key, source, err := config.ResolveAPIKey()
	if err != nil {
		return nil, err
	}
	path, err := config.Path()
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to determine home directory", err)
	}

	status := &authStatus{
		Configured: source != config.SourceNone,
		Source:     string(source),
		Path:       path,
	}
	if status.Configured {
		status.Key = config.MaskKey(key)
	}
	if creds, err := config.Load(); err == nil && creds != nil {
		status.Model = creds.Model
	}
	return status, nil
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
				WithStderr(cmd.ErrOrStderr())

			if err := config.Remove(); err != nil {
				printer.Error(err)
				return err
			}

			if os.Getenv(config.APIKeyEnvVar) != "" {
				printer.Warn("%s is still set in the environment", config.APIKeyEnvVar)
			}
			return printer.Success(map[string]any{"message": "Removed stored API key", "removed": true})
		},
	}
}
