package git

import (
	"context"
	"io"
	"strings"

	"github.com/gorewood/gy/internal/output"
)

// Commit records the staged changes with message as the commit message.
// The message is fed on stdin (git commit --file=-) so multi-line text is
// kept as given. Git's own output, including hook output, is copied to
// stdout and stderr.
func Commit(ctx context.Context, message string, stdout, stderr io.Writer) error {
	if strings.TrimSpace(message) == "" {
		return output.NewUserError("commit message cannot be empty")
	}

	if stdout == nil {
		stdout = io.Discard
	}

	err := run(ctx, strings.NewReader(message), stdout, stderr, "commit", "--file=-")
	if err != nil {
		return output.NewSystemErrorWithCause("git commit failed", err)
	}
	return nil
}
