// Package editor lets the user revise a proposed commit message, either in
// their configured external editor or inline in the terminal.
package editor

import (
	"context"
	"os"

	"github.com/gorewood/gy/internal/output"
)

var (
	// ErrAborted is returned when the user cancels editing.
	ErrAborted = output.NewUserError("aborted")
	// ErrEmptyMessage is returned when the edited message is blank.
	ErrEmptyMessage = output.NewUserError("empty commit message")
	// ErrNoEditor is returned when there is no terminal for the inline
	// editor and no external editor is configured.
	ErrNoEditor = output.NewUserError("no editor available: set $EDITOR or $VISUAL to edit without a terminal")
)

// Editor revises a message and returns the result.
type Editor interface {
	Edit(ctx context.Context, message string) (string, error)
}

// Command returns the editor command configured in $VISUAL or $EDITOR,
// or "" when neither is set.
func Command() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if cmd := os.Getenv(env); cmd != "" {
			return cmd
		}
	}
	return ""
}

// Resolve picks an editor. A configured editor always wins; otherwise the
// inline editor is used on an interactive terminal. Without either, editing
// fails with ErrNoEditor.
func Resolve(interactive bool) Editor {
	if cmd := Command(); cmd != "" {
		return &External{Command: cmd}
	}
	if interactive {
		return &Inline{}
	}
	return unavailable{}
}

// unavailable is the editor used when nothing can be launched.
type unavailable struct{}

func (unavailable) Edit(context.Context, string) (string, error) {
	return "", ErrNoEditor
}
