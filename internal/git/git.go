package git

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gorewood/gy/internal/output"
)

// Run executes a git command with the given arguments.
// It captures stdout and returns it as a trimmed string.
// Returns an *output.ExitError on failure with appropriate exit code.
func Run(args ...string) (string, error) {
	return RunContext(context.Background(), args...)
}

// RunContext executes a git command with the given context and arguments.
// It captures stdout and returns it with trailing whitespace removed.
// Returns an *output.ExitError on failure with appropriate exit code.
func RunContext(ctx context.Context, args ...string) (string, error) {
	var stdout bytes.Buffer
	if err := run(ctx, nil, &stdout, nil, args...); err != nil {
		return "", err
	}
	return strings.TrimRight(stdout.String(), " \t\r\n"), nil
}

// run executes git with optional stdin. When passthrough is non-nil, stderr
// is copied there as well as captured for the error message.
func run(ctx context.Context, stdin io.Reader, stdout io.Writer, passthrough io.Writer, args ...string) error {
	log.Debug("running git", "args", args)

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout

	var stderr bytes.Buffer
	if passthrough != nil {
		cmd.Stderr = io.MultiWriter(&stderr, passthrough)
	} else {
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return output.NewSystemError("git not found: ensure git is installed and in PATH")
	}

	errMsg := strings.TrimSpace(stderr.String())
	if errMsg == "" {
		errMsg = err.Error()
	}
	return output.NewSystemErrorWithCause("git command failed: "+errMsg, err)
}

// IsRepo checks if dir is inside a git work tree.
func IsRepo(dir string) bool {
	out, err := Run("-C", dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}
