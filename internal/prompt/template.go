package prompt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/gy/internal/config"
	"github.com/gorewood/gy/internal/llm"
	"github.com/gorewood/gy/internal/output"
)

// DefaultMaxTokens bounds the generated message when a template sets no limit.
const DefaultMaxTokens = 256

// fileName is the template file looked up in the project and global dirs.
const fileName = "prompt.md"

// Template sources.
const (
	SourceProject = "project"
	SourceGlobal  = "global"
	SourceBuiltin = "built-in"
)

// Template represents a prompt template with metadata and content.
type Template struct {
	// Metadata from frontmatter
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     int    `yaml:"version,omitempty"`
	MaxTokens   int    `yaml:"max_tokens,omitempty"`

	// Template content (after frontmatter)
	Content string `yaml:"-"`

	// Source is "project", "global" or "built-in"
	Source string `yaml:"-"`
	// Path is the file the template was read from; empty for the built-in.
	Path string `yaml:"-"`
}

// Load finds and loads the commit prompt.
// Resolution order: project-local → user global → built-in.
// A missing file falls through; a file that exists but cannot be parsed is
// an error so a broken override is never silently ignored.
func Load() (*Template, error) {
	candidates := []struct {
		source string
		path   string
	}{
		{SourceProject, projectPath()},
		{SourceGlobal, globalPath()},
	}

	for _, c := range candidates {
		tmpl, err := loadFromPath(c.path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, output.NewUserErrorWithCause("invalid prompt template "+c.path, err)
		}
		tmpl.Source = c.source
		tmpl.Path = c.path
		return tmpl, nil
	}

	tmpl, err := loadBuiltin("commit")
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to load built-in prompt", err)
	}
	tmpl.Source = SourceBuiltin
	return tmpl, nil
}

// Build turns a template and a staged diff into a completion request.
// The diff is sent unmodified as the user message.
func Build(tmpl *Template, diff string) llm.Request {
	maxTokens := tmpl.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return llm.Request{
		System:    tmpl.Content,
		Prompt:    diff,
		MaxTokens: maxTokens,
	}
}

// projectPath returns the project-local template path.
func projectPath() string {
	return filepath.Join(".gy", fileName)
}

// globalPath returns the user's global template path.
func globalPath() string {
	dir := config.Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, fileName)
}

// loadFromPath loads a template file. A blank path reports fs.ErrNotExist.
func loadFromPath(path string) (*Template, error) {
	if path == "" {
		return nil, fs.ErrNotExist
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}

	return parseTemplate(string(data))
}

// parseTemplate parses a template from raw content with YAML frontmatter.
func parseTemplate(raw string) (*Template, error) {
	frontmatter, content := splitFrontmatter(raw)

	var tmpl Template
	if frontmatter != "" {
		if err := yaml.Unmarshal([]byte(frontmatter), &tmpl); err != nil {
			return nil, fmt.Errorf("invalid frontmatter: %w", err)
		}
	}

	tmpl.Content = strings.TrimSpace(content)
	if tmpl.Content == "" {
		return nil, errors.New("template has no content")
	}
	return &tmpl, nil
}

// splitFrontmatter separates YAML frontmatter from content.
// Frontmatter is delimited by --- at the start and end.
func splitFrontmatter(raw string) (frontmatter, content string) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "---") {
		return "", raw
	}

	rest := raw[3:]
	before, after, ok := strings.Cut(rest, "\n---")
	if !ok {
		return "", raw
	}

	return strings.TrimSpace(before), strings.TrimSpace(after)
}
