// Package main provides the entry point for the gy CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gorewood/gy/internal/config"
	"github.com/gorewood/gy/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("json")
	}
	return flag != nil && flag.Value.String() == "true"
}

// useColor resolves the --color flag against TTY detection on stdout.
func useColor(cmd *cobra.Command) bool {
	mode := "auto"
	if flag := cmd.Root().PersistentFlags().Lookup("color"); flag != nil {
		mode = flag.Value.String()
	}
	return output.ResolveColorMode(mode, output.IsTTY(cmd.OutOrStdout()))
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd,
		fang.WithVersion(buildVersion()),
		fang.WithErrorHandler(handleError),
	)
	return output.GetExitCode(err)
}

// handleError prints errors cobra or fang raised themselves. Command errors
// are exit-coded and were already printed by the command's Printer.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *output.ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// newRootCmd creates the root command for the gy CLI.
func newRootCmd() *cobra.Command {
	var flags commitFlags

	cmd := &cobra.Command{
		Use:   "gy",
		Short: "Commit staged changes with an AI-drafted conventional commit message",
		Long: `gy reads your staged diff, asks Claude for a conventional commit message,
and lets you accept, edit or reject it before committing.

At the prompt:
  y  commit with the proposed message
  e  edit the message first ($VISUAL, $EDITOR, or inline)
  n  abort without committing

The API key is read from ANTHROPIC_API_KEY, then ~/.gy_config.json.
When neither is set you are asked for a key, which is validated and saved.

Examples:
  gy                  # Propose, review and commit
  gy -m sonnet        # Use a different model
  gy --dry-run        # Only show the proposal
  gy --show-diff      # Preview the staged diff first
  gy --yes            # Commit without asking`,
		Version:       buildVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommit(cmd, flags)
		},
	}

	// Env files and logging apply to every subcommand.
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		loadEnvFiles()
		configureLogging(cmd)
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always, never")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug details to stderr")

	cmd.Flags().StringVarP(&flags.model, "model", "m", "", "Model name or alias (haiku, sonnet, opus)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show the proposed message without committing")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Commit the proposed message without asking")
	cmd.Flags().BoolVar(&flags.showDiff, "show-diff", false, "Print the staged diff before generating")

	lipgloss.SetHasDarkBackground(true)

	cmd.AddCommand(newAuthCmd())
	cmd.AddCommand(newModelsCmd())

	return cmd
}

// configureLogging routes the default logger to stderr at warn level, or
// debug with --verbose.
func configureLogging(cmd *cobra.Command) {
	log.SetOutput(cmd.ErrOrStderr())
	log.SetReportTimestamp(false)
	log.SetLevel(log.WarnLevel)
	if verbose, err := cmd.Root().PersistentFlags().GetBool("verbose"); err == nil && verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// loadEnvFiles loads env files in priority order. First match for each
// variable wins; environment variables already set always take precedence.
//
// Resolution order:
//  1. $CWD/.env.local   (per-repo override, gitignored)
//  2. $CWD/.env         (per-repo)
//  3. ~/.config/gy/env  (global fallback)
func loadEnvFiles() {
	files := []string{".env.local", ".env"}
	if dir := config.Dir(); dir != "" {
		files = append(files, filepath.Join(dir, "env"))
	}

	for _, file := range files {
		if err := godotenv.Load(file); err == nil {
			log.Debug("loaded env file", "path", file)
		}
	}
}
