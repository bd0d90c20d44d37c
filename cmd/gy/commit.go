package main

import (
	"bufio"
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gorewood/gy/internal/auth"
	"github.com/gorewood/gy/internal/config"
	"github.com/gorewood/gy/internal/editor"
	"github.com/gorewood/gy/internal/flow"
	"github.com/gorewood/gy/internal/git"
	"github.com/gorewood/gy/internal/llm"
	"github.com/gorewood/gy/internal/output"
	"github.com/gorewood/gy/internal/prompt"
)

// commitFlags holds the root command's flag values.
type commitFlags struct {
	model    string
	dryRun   bool
	yes      bool
	showDiff bool
}

// commitResult is the --json output of a run.
type commitResult struct {
	*flow.Result
	Model  string `json:"model"`
	Branch string `json:"branch"`
	DryRun bool   `json:"dry_run,omitempty"`
}

// gitDiffs reads diffs from the repository in the working directory.
type gitDiffs struct{}

func (gitDiffs) StagedDiff(ctx context.Context) (string, error)   { return git.StagedDiff(ctx) }
func (gitDiffs) UnstagedDiff(ctx context.Context) (string, error) { return git.UnstagedDiff(ctx) }

// gitCommitter commits with git, passing its output through.
type gitCommitter struct {
	stdout io.Writer
	stderr io.Writer
}

func (c gitCommitter) Commit(ctx context.Context, message string) error {
	return git.Commit(ctx, message, c.stdout, c.stderr)
}

// runCommit drafts, reviews and commits the staged changes.
func runCommit(cmd *cobra.Command, flags commitFlags) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
		WithStderr(cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	repo, err := git.OpenRepo(".")
	if err != nil {
		printer.Error(err)
		return err
	}
	log.Debug("opened repository", "root", repo.Root, "branch", repo.Branch)

	// One buffered reader serves both the key prompt and the y/e/n prompt.
	stdin := cmd.InOrStdin()
	in := bufio.NewReader(stdin)
	tty := auth.Terminal(stdin)

	prompter := auth.NewPrompter(in, printer, auth.ValidateWithAPI)
	prompter.TTY = tty
	key, err := prompter.Resolve(ctx)
	if err != nil {
		printer.Error(err)
		return err
	}

	client, err := llm.New(key, config.ResolveModel(flags.model, llm.DefaultModel))
	if err != nil {
		printer.Error(err)
		return err
	}

	tmpl, err := prompt.Load()
	if err != nil {
		printer.Error(err)
		return err
	}
	log.Debug("loaded prompt", "source", tmpl.Source, "path", tmpl.Path)

	if err := previewStaged(ctx, printer, flags.showDiff, repo.Branch, client.Model()); err != nil {
		printer.Error(err)
		return err
	}

	// git's own output would break the JSON document on stdout.
	commitOut := cmd.OutOrStdout()
	if printer.IsJSON() {
		commitOut = cmd.ErrOrStderr()
	}

	pipeline := &flow.Pipeline{
		Diffs:     gitDiffs{},
		Generator: flow.NewGenerator(client, tmpl),
		Editor:    editor.Resolve(tty != nil),
		Committer: gitCommitter{stdout: commitOut, stderr: cmd.ErrOrStderr()},
		In:        in,
		Printer:   printer,
		DryRun:    flags.dryRun,
		AssumeYes: flags.yes,
	}

	result, err := pipeline.Run(ctx)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(commitResult{
			Result: result,
			Model:  client.Model(),
			Branch: repo.Branch,
			DryRun: flags.dryRun,
		})
	}
	return nil
}

// previewStaged prints the status line and, when asked, the staged diff.
// An empty index is left for the pipeline to report.
func previewStaged(ctx context.Context, printer *output.Printer, showDiff bool, branch, model string) error {
	stat, err := git.StagedStat(ctx)
	if err != nil {
		return err
	}
	if stat.Files == 0 {
		return nil
	}

	printer.Hint("Drafting a message for %d file(s), +%d -%d on %s with %s",
		stat.Files, stat.Insertions, stat.Deletions, branch, model)

	if !showDiff {
		return nil
	}
	diff, err := git.StagedDiff(ctx)
	if err != nil {
		return err
	}
	printer.Diff(diff)
	return nil
}
