// Package flow runs the generate, review and commit pipeline.
package flow

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gorewood/gy/internal/commitmsg"
	"github.com/gorewood/gy/internal/editor"
	"github.com/gorewood/gy/internal/output"
)

// ErrAborted is returned when the user rejects the proposal or closes input.
var ErrAborted = editor.ErrAborted

// ErrNothingStaged is returned when the index has no changes.
var ErrNothingStaged = output.NewUserError("nothing staged; use 'git add' first")

// DiffSource provides the diffs the pipeline works from.
type DiffSource interface {
	StagedDiff(ctx context.Context) (string, error)
	UnstagedDiff(ctx context.Context) (string, error)
}

// Generator drafts a commit message for a diff.
type Generator interface {
	Generate(ctx context.Context, diff string) (string, error)
}

// Editor revises a proposed message.
type Editor interface {
	Edit(ctx context.Context, message string) (string, error)
}

// Committer records a commit with exactly the given message.
type Committer interface {
	Commit(ctx context.Context, message string) error
}

// Pipeline wires the stages together. In supplies the user's y/e/n answers;
// Printer renders the proposal and prompts.
type Pipeline struct {
	Diffs     DiffSource
	Generator Generator
	Editor    Editor
	Committer Committer
	In        io.Reader
	Printer   *output.Printer

	// DryRun shows the proposal without prompting or committing.
	DryRun bool
	// AssumeYes commits the proposal without prompting.
	AssumeYes bool
}

// Result describes what the pipeline did.
type Result struct {
	Message   string `json:"message"`
	Edited    bool   `json:"edited"`
	Committed bool   `json:"committed"`
}

// choice is a parsed answer to the commit prompt.
type choice int

const (
	choiceUnknown choice = iota
	choiceYes
	choiceEdit
	choiceNo
)

// Run executes the pipeline once. The commit runs at most once and only
// after the user accepts or edits the proposal.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	diff, err := p.Diffs.StagedDiff(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(diff) == "" {
		p.describeUnstaged(ctx)
		return nil, ErrNothingStaged
	}

	message, err := p.Generator.Generate(ctx, diff)
	if err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, output.NewSystemError("failed to generate commit message")
	}

	p.showProposal(message)

	if p.DryRun {
		return &Result{Message: message}, nil
	}
	if p.AssumeYes {
		return p.commit(ctx, message, false)
	}

	reader := bufio.NewReader(p.In)
	for {
		answer, err := p.ask(reader)
		if err != nil {
			return nil, err
		}

		switch answer {
		case choiceYes:
			return p.commit(ctx, message, false)
		case choiceEdit:
			edited, err := p.Editor.Edit(ctx, message)
			if err != nil {
				return nil, err
			}
			return p.commit(ctx, edited, true)
		case choiceNo:
			return nil, ErrAborted
		default:
			p.Printer.Hint("Please answer y (commit), e (edit) or n (abort).")
		}
	}
}

// describeUnstaged summarizes unstaged changes so the user sees what they
// forgot to add. Any failure just skips the summary.
func (p *Pipeline) describeUnstaged(ctx context.Context) {
	unstaged, err := p.Diffs.UnstagedDiff(ctx)
	if err != nil || strings.TrimSpace(unstaged) == "" {
		return
	}

	p.Printer.Stderr("No changes are staged. Here's what's unstaged:\n\n")
	summary, err := p.Generator.Generate(ctx, unstaged)
	if err != nil {
		log.Debug("unstaged summary failed", "err", err)
		return
	}
	if summary = strings.TrimSpace(summary); summary != "" {
		p.Printer.Stderr("%s\n\n", summary)
	}
}

func (p *Pipeline) showProposal(message string) {
	if p.Printer.IsJSON() {
		return
	}
	p.Printer.Box("Proposed commit message", message)
	if !commitmsg.IsConventional(message) {
		p.Printer.Warn("proposal does not follow the conventional commit format")
	}
}

// ask prompts once and parses the answer. EOF aborts.
func (p *Pipeline) ask(reader *bufio.Reader) (choice, error) {
	p.Printer.Prompt("Commit with this message? [y/e/n]")

	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return choiceUnknown, output.NewSystemErrorWithCause("failed to read answer", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		p.Printer.Stderr("\n")
		return choiceUnknown, ErrAborted
	}
	return parseChoice(line), nil
}

func parseChoice(answer string) choice {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return choiceYes
	case "e", "edit":
		return choiceEdit
	case "n", "no":
		return choiceNo
	default:
		return choiceUnknown
	}
}

func (p *Pipeline) commit(ctx context.Context, message string, edited bool) (*Result, error) {
	if err := p.Committer.Commit(ctx, message); err != nil {
		return nil, err
	}
	return &Result{Message: message, Edited: edited, Committed: true}, nil
}
