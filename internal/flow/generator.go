package flow

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/gorewood/gy/internal/commitmsg"
	"github.com/gorewood/gy/internal/llm"
	"github.com/gorewood/gy/internal/prompt"
)

// Completer sends a single completion request.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// LLMGenerator drafts commit messages by sending the diff to a model with
// the loaded prompt template.
type LLMGenerator struct {
	client   Completer
	template *prompt.Template
}

// NewGenerator creates a generator using client and tmpl.
func NewGenerator(client Completer, tmpl *prompt.Template) *LLMGenerator {
	return &LLMGenerator{client: client, template: tmpl}
}

// Generate returns a sanitized message for diff. The result may be empty
// when the model produced nothing usable.
func (g *LLMGenerator) Generate(ctx context.Context, diff string) (string, error) {
	log.Debug("generating commit message", "diff_bytes", len(diff), "template", g.template.Source)

	resp, err := g.client.Complete(ctx, prompt.Build(g.template, diff))
	if err != nil {
		return "", err
	}

	log.Debug("generated commit message", "model", resp.Model, "bytes", len(resp.Content))
	return commitmsg.Sanitize(resp.Content), nil
}
