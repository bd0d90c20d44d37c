package editor

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gorewood/gy/internal/output"
)

// Inline edits the subject line of a message in the terminal. Any body
// below the subject is kept as is.
type Inline struct {
	// Input and Output default to the terminal when nil.
	Input  io.Reader
	Output io.Writer
}

// Edit runs the inline editor. Enter accepts, Esc or Ctrl-C aborts.
func (e *Inline) Edit(ctx context.Context, message string) (string, error) {
	subject, body := splitSubject(message)

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if e.Input != nil {
		opts = append(opts, tea.WithInput(e.Input))
	}
	if e.Output != nil {
		opts = append(opts, tea.WithOutput(e.Output))
	}

	final, err := tea.NewProgram(newInlineModel(subject), opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", output.NewSystemErrorWithCause("inline editor failed", err)
	}

	m, ok := final.(inlineModel)
	if !ok || m.aborted {
		return "", ErrAborted
	}
	return m.result(body)
}

// splitSubject separates the first line from the rest of the message.
func splitSubject(message string) (subject, body string) {
	subject, body, _ = strings.Cut(strings.TrimSpace(message), "\n")
	return strings.TrimSpace(subject), strings.TrimSpace(body)
}

var hintStyle = lipgloss.NewStyle().Faint(true)

type inlineModel struct {
	input   textinput.Model
	done    bool
	aborted bool
}

func newInlineModel(value string) inlineModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	return inlineModel{input: ti}
}

func (m inlineModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inlineModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	return m.input.View() + "\n" + hintStyle.Render("enter to accept, esc to cancel") + "\n"
}

// result joins the edited subject with the untouched body.
func (m inlineModel) result(body string) (string, error) {
	subject := strings.TrimSpace(m.input.Value())
	if subject == "" {
		return "", ErrEmptyMessage
	}
	if body == "" {
		return subject, nil
	}
	return subject + "\n\n" + body, nil
}
