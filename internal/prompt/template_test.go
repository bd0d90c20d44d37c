package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/gy/internal/output"
)

// isolate runs the test in an empty working directory with an empty global
// config directory, returning both.
func isolate(t *testing.T) (project, global string) {
	t.Helper()
	project = t.TempDir()
	global = t.TempDir()
	t.Setenv("GY_CONFIG_HOME", global)

	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current dir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	if err := os.Chdir(project); err != nil {
		t.Fatalf("failed to change to %s: %v", project, err)
	}
	return project, global
}

func writeTemplate(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		wantFrontmatter string
		wantContent     string
	}{
		{
			name:            "no frontmatter",
			input:           "Just some content",
			wantFrontmatter: "",
			wantContent:     "Just some content",
		},
		{
			name: "with frontmatter",
			input: `---
name: commit
max_tokens: 128
---
Write a commit message.`,
			wantFrontmatter: "name: commit\nmax_tokens: 128",
			wantContent:     "Write a commit message.",
		},
		{
			name: "frontmatter only opening",
			input: `---
name: test
No closing delimiter`,
			wantFrontmatter: "",
			wantContent:     "---\nname: test\nNo closing delimiter",
		},
		{
			name: "empty frontmatter",
			input: `---
---
Content after empty frontmatter`,
			wantFrontmatter: "",
			wantContent:     "Content after empty frontmatter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFrontmatter, gotContent := splitFrontmatter(tt.input)
			if gotFrontmatter != tt.wantFrontmatter {
				t.Errorf("splitFrontmatter() frontmatter = %q, want %q", gotFrontmatter, tt.wantFrontmatter)
			}
			if gotContent != tt.wantContent {
				t.Errorf("splitFrontmatter() content = %q, want %q", gotContent, tt.wantContent)
			}
		})
	}
}

func TestParseTemplate(t *testing.T) {
	tmpl, err := parseTemplate("---\nname: terse\ndescription: short\nversion: 2\nmax_tokens: 64\n---\nBe terse.\n")
	if err != nil {
		t.Fatalf("parseTemplate() error = %v", err)
	}
	if tmpl.Name != "terse" || tmpl.Description != "short" || tmpl.Version != 2 || tmpl.MaxTokens != 64 {
		t.Errorf("parseTemplate() metadata = %+v", tmpl)
	}
	if tmpl.Content != "Be terse." {
		t.Errorf("Content = %q, want %q", tmpl.Content, "Be terse.")
	}
}

func TestParseTemplate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "invalid yaml", input: "---\nname: [unclosed\n---\nbody"},
		{name: "no content", input: "---\nname: empty\n---\n"},
		{name: "blank file", input: "   \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseTemplate(tt.input); err == nil {
				t.Error("parseTemplate() expected error")
			}
		})
	}
}

func TestLoad_Builtin(t *testing.T) {
	isolate(t)

	tmpl, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tmpl.Source != SourceBuiltin {
		t.Errorf("Source = %q, want %q", tmpl.Source, SourceBuiltin)
	}
	if tmpl.Name != "commit" {
		t.Errorf("Name = %q, want commit", tmpl.Name)
	}
	if tmpl.MaxTokens != 256 {
		t.Errorf("MaxTokens = %d, want 256", tmpl.MaxTokens)
	}
	for _, want := range []string{
		"conventional commit message",
		"Use lowercase",
		"Output ONLY the commit message",
		"feat, fix, refactor, docs, style, test, chore, perf, ci, build",
	} {
		if !strings.Contains(tmpl.Content, want) {
			t.Errorf("built-in prompt missing %q", want)
		}
	}
}

func TestLoad_GlobalOverridesBuiltin(t *testing.T) {
	_, global := isolate(t)
	writeTemplate(t, filepath.Join(global, "prompt.md"), "---\nname: team\n---\nTeam prompt.")

	tmpl, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tmpl.Source != SourceGlobal {
		t.Errorf("Source = %q, want %q", tmpl.Source, SourceGlobal)
	}
	if tmpl.Content != "Team prompt." {
		t.Errorf("Content = %q", tmpl.Content)
	}
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	project, global := isolate(t)
	writeTemplate(t, filepath.Join(global, "prompt.md"), "Global prompt.")
	writeTemplate(t, filepath.Join(project, ".gy", "prompt.md"), "Project prompt.")

	tmpl, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tmpl.Source != SourceProject {
		t.Errorf("Source = %q, want %q", tmpl.Source, SourceProject)
	}
	if tmpl.Content != "Project prompt." {
		t.Errorf("Content = %q", tmpl.Content)
	}
	if tmpl.Path != filepath.Join(".gy", "prompt.md") {
		t.Errorf("Path = %q", tmpl.Path)
	}
}

func TestLoad_BrokenOverrideIsUserError(t *testing.T) {
	project, _ := isolate(t)
	writeTemplate(t, filepath.Join(project, ".gy", "prompt.md"), "---\nmax_tokens: lots\n---\nbody")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for broken project template")
	}
	if output.GetExitCode(err) != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", output.GetExitCode(err), output.ExitUserError)
	}
}

func TestBuild(t *testing.T) {
	diff := "diff --git a/x b/x\n+added\n"

	tests := []struct {
		name          string
		tmpl          *Template
		wantMaxTokens int
	}{
		{name: "template limit", tmpl: &Template{Content: "sys", MaxTokens: 64}, wantMaxTokens: 64},
		{name: "default limit", tmpl: &Template{Content: "sys"}, wantMaxTokens: DefaultMaxTokens},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Build(tt.tmpl, diff)
			if req.System != "sys" {
				t.Errorf("System = %q, want %q", req.System, "sys")
			}
			if req.Prompt != diff {
				t.Errorf("Prompt = %q, want the unmodified diff", req.Prompt)
			}
			if req.MaxTokens != tt.wantMaxTokens {
				t.Errorf("MaxTokens = %d, want %d", req.MaxTokens, tt.wantMaxTokens)
			}
		})
	}
}
