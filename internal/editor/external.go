package editor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gorewood/gy/internal/output"
)

// External edits a message in an external program such as vim or
// "code --wait". The message is written to a temporary file which the
// program is expected to modify in place.
type External struct {
	// Command is the editor command line; arguments are split on whitespace
	// and the file path is appended.
	Command string

	// Stdio for the editor process; nil uses the process's own.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Edit opens message in the editor and returns the saved text with
// surrounding whitespace trimmed.
func (e *External) Edit(ctx context.Context, message string) (string, error) {
	args := strings.Fields(e.Command)
	if len(args) == 0 {
		return "", ErrNoEditor
	}

	file, err := os.CreateTemp("", "GY_COMMIT_EDITMSG*")
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to create temp file", err)
	}
	path := file.Name()
	defer func() { _ = os.Remove(path) }()

	if _, err := file.WriteString(message + "\n"); err != nil {
		_ = file.Close()
		return "", output.NewSystemErrorWithCause("failed to write temp file", err)
	}
	if err := file.Close(); err != nil {
		return "", output.NewSystemErrorWithCause("failed to write temp file", err)
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = orReader(e.Stdin, os.Stdin)
	cmd.Stdout = orWriter(e.Stdout, os.Stdout)
	cmd.Stderr = orWriter(e.Stderr, os.Stderr)

	log.Debug("launching editor", "command", args[0], "file", path)
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", output.NewUserErrorWithCause("editor "+args[0]+" not found; set $EDITOR", err)
		}
		return "", output.NewUserErrorWithCause("editor exited with an error", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to read edited message", err)
	}

	edited := strings.TrimSpace(string(data))
	if edited == "" {
		return "", ErrEmptyMessage
	}
	return edited, nil
}

func orReader(r, fallback io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return fallback
}

func orWriter(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
