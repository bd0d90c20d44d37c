// Package auth obtains the Anthropic API key, prompting for and validating
// a new one when none is configured.
package auth

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/gorewood/gy/internal/config"
	"github.com/gorewood/gy/internal/llm"
	"github.com/gorewood/gy/internal/output"
)

// ErrAborted is returned when input ends before a valid key was entered.
var ErrAborted = output.NewUserError("no API key entered")

// ValidateFunc checks that key is accepted by the API.
type ValidateFunc func(ctx context.Context, key string) error

// ValidateWithAPI validates key with a minimal Messages API request.
func ValidateWithAPI(ctx context.Context, key string) error {
	client, err := llm.New(key, "")
	if err != nil {
		return err
	}
	return client.Validate(ctx)
}

// Prompter asks the user for a key until a valid one is entered.
type Prompter struct {
	In       io.Reader
	Printer  *output.Printer
	Validate ValidateFunc

	// TTY, when set, is the terminal to read the key from with echo off.
	TTY *os.File

	reader *bufio.Reader
}

// NewPrompter creates a prompter reading from in. Input is hidden when in
// is a terminal.
func NewPrompter(in io.Reader, printer *output.Printer, validate ValidateFunc) *Prompter {
	if validate == nil {
		validate = ValidateWithAPI
	}
	return &Prompter{In: in, Printer: printer, Validate: validate, TTY: Terminal(in)}
}

// Resolve returns the configured key, prompting for one when neither the
// environment nor the credential file has it.
func (p *Prompter) Resolve(ctx context.Context) (string, error) {
	key, source, err := config.ResolveAPIKey()
	if err != nil {
		return "", err
	}
	if source != config.SourceNone {
		log.Debug("using API key", "source", source)
		return key, nil
	}
	return p.Login(ctx)
}

// Login prompts until a key validates, then saves it. A failure to save
// is reported but does not discard the key.
func (p *Prompter) Login(ctx context.Context) (string, error) {
	for {
		p.Printer.Prompt("Enter your Anthropic API key:")
		key, err := p.readKey()
		if err != nil {
			return "", err
		}
		if key == "" {
			p.Printer.Stderr("API key cannot be empty. Please try again.\n")
			continue
		}

		p.Printer.Stderr("Validating API key...")
		if err := p.Validate(ctx, key); err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			p.Printer.Stderr(" invalid\n")
			p.Printer.Error(err)
			p.Printer.Stderr("Please try again with a valid API key.\n")
			continue
		}
		p.Printer.Stderr(" valid\n")

		p.save(key)
		return key, nil
	}
}

func (p *Prompter) save(key string) {
	creds, err := config.Load()
	if err != nil || creds == nil {
		creds = &config.Credentials{}
	}
	creds.AnthropicAPIKey = key

	path, err := config.Save(creds)
	if err != nil {
		p.Printer.Warn("failed to save config: %v", err)
		return
	}
	p.Printer.Hint("API key saved to %s", path)
}

// Terminal returns r as an *os.File when it is an interactive terminal,
// otherwise nil.
func Terminal(r io.Reader) *os.File {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return f
	}
	return nil
}

// readKey reads one key. Terminal input is hidden.
func (p *Prompter) readKey() (string, error) {
	if p.TTY != nil {
		raw, err := term.ReadPassword(int(p.TTY.Fd()))
		p.Printer.Stderr("\n")
		if err != nil {
			return "", output.NewSystemErrorWithCause("failed to read API key", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", output.NewSystemErrorWithCause("failed to read API key", err)
	}
	if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
		p.Printer.Stderr("\n")
		return "", ErrAborted
	}
	return strings.TrimSpace(line), nil
}
