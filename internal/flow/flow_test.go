package flow

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorewood/gy/internal/editor"
	"github.com/gorewood/gy/internal/llm"
	"github.com/gorewood/gy/internal/output"
	"github.com/gorewood/gy/internal/prompt"
)

const testDiff = "diff --git a/main.go b/main.go\n+func main() {}\n"

type fakeDiffs struct {
	staged      string
	unstaged    string
	stagedErr   error
	unstagedErr error
}

func (f *fakeDiffs) StagedDiff(context.Context) (string, error)   { return f.staged, f.stagedErr }
func (f *fakeDiffs) UnstagedDiff(context.Context) (string, error) { return f.unstaged, f.unstagedErr }

type fakeGenerator struct {
	message string
	err     error
	diffs   []string
}

func (f *fakeGenerator) Generate(_ context.Context, diff string) (string, error) {
	f.diffs = append(f.diffs, diff)
	return f.message, f.err
}

type fakeEditor struct {
	result string
	err    error
	got    string
	calls  int
}

func (f *fakeEditor) Edit(_ context.Context, message string) (string, error) {
	f.calls++
	f.got = message
	return f.result, f.err
}

type fakeCommitter struct {
	messages []string
	err      error
}

func (f *fakeCommitter) Commit(_ context.Context, message string) error {
	f.messages = append(f.messages, message)
	return f.err
}

type harness struct {
	pipeline  *Pipeline
	diffs     *fakeDiffs
	generator *fakeGenerator
	editor    *fakeEditor
	committer *fakeCommitter
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
}

func newHarness(input string) *harness {
	h := &harness{
		diffs:     &fakeDiffs{staged: testDiff},
		generator: &fakeGenerator{message: "feat: add main"},
		editor:    &fakeEditor{result: "fix: edited"},
		committer: &fakeCommitter{},
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
	}
	h.pipeline = &Pipeline{
		Diffs:     h.diffs,
		Generator: h.generator,
		Editor:    h.editor,
		Committer: h.committer,
		In:        strings.NewReader(input),
		Printer:   output.NewPrinter(h.stdout, false, false).WithStderr(h.stderr),
	}
	return h
}

func TestRun_AcceptCommitsExactProposal(t *testing.T) {
	h := newHarness("y\n")

	result, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"feat: add main"}, h.committer.messages)
	assert.Equal(t, []string{testDiff}, h.generator.diffs, "diff is passed unmodified")
	assert.Equal(t, &Result{Message: "feat: add main", Committed: true}, result)
	assert.Contains(t, h.stdout.String(), "feat: add main")
	assert.Contains(t, h.stderr.String(), "Commit with this message? [y/e/n]")
	assert.Zero(t, h.editor.calls)
}

func TestRun_RejectNeverCommits(t *testing.T) {
	for _, answer := range []string{"n\n", "N\n", "no\n"} {
		h := newHarness(answer)

		_, err := h.pipeline.Run(context.Background())
		require.ErrorIs(t, err, ErrAborted)
		assert.Equal(t, output.ExitUserError, output.GetExitCode(err))
		assert.Empty(t, h.committer.messages)
	}
}

func TestRun_EditCommitsEditedTextVerbatim(t *testing.T) {
	h := newHarness("e\n")
	h.editor.result = "fix(auth): handle expired tokens\n\nbody kept"

	result, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "feat: add main", h.editor.got, "editor starts from the proposal")
	assert.Equal(t, []string{"fix(auth): handle expired tokens\n\nbody kept"}, h.committer.messages)
	assert.True(t, result.Edited)
}

func TestRun_EditAbortedNeverCommits(t *testing.T) {
	h := newHarness("e\n")
	h.editor.err = editor.ErrAborted

	_, err := h.pipeline.Run(context.Background())
	require.ErrorIs(t, err, ErrAborted)
	assert.Empty(t, h.committer.messages)
}

func TestRun_UnknownAnswerReprompts(t *testing.T) {
	h := newHarness("maybe\n\ny\n")

	_, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(h.stderr.String(), "[y/e/n]"))
	assert.Contains(t, h.stderr.String(), "Please answer")
	assert.Len(t, h.committer.messages, 1)
}

func TestRun_EOFAborts(t *testing.T) {
	for _, input := range []string{"", "what\n"} {
		h := newHarness(input)

		_, err := h.pipeline.Run(context.Background())
		require.ErrorIs(t, err, ErrAborted)
		assert.Empty(t, h.committer.messages)
	}
}

func TestRun_AnswerWithoutNewline(t *testing.T) {
	h := newHarness("y")

	_, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, h.committer.messages, 1)
}

func TestRun_NothingStaged(t *testing.T) {
	h := newHarness("y\n")
	h.diffs.staged = "  \n"

	_, err := h.pipeline.Run(context.Background())
	require.ErrorIs(t, err, ErrNothingStaged)
	assert.Equal(t, output.ExitUserError, output.GetExitCode(err))
	assert.Empty(t, h.generator.diffs)
	assert.Empty(t, h.committer.messages)
}

func TestRun_NothingStagedSummarizesUnstaged(t *testing.T) {
	h := newHarness("y\n")
	h.diffs.staged = ""
	h.diffs.unstaged = "diff --git a/x b/x\n+wip\n"
	h.generator.message = "chore: work in progress"

	_, err := h.pipeline.Run(context.Background())
	require.ErrorIs(t, err, ErrNothingStaged)

	assert.Equal(t, []string{"diff --git a/x b/x\n+wip\n"}, h.generator.diffs)
	assert.Contains(t, h.stderr.String(), "unstaged")
	assert.Contains(t, h.stderr.String(), "chore: work in progress")
	assert.Empty(t, h.committer.messages)
}

func TestRun_UnstagedSummaryFailureIgnored(t *testing.T) {
	h := newHarness("y\n")
	h.diffs.staged = ""
	h.diffs.unstaged = "+wip\n"
	h.generator.err = errors.New("boom")

	_, err := h.pipeline.Run(context.Background())
	require.ErrorIs(t, err, ErrNothingStaged)
}

func TestRun_EmptyGeneratedMessage(t *testing.T) {
	h := newHarness("y\n")
	h.generator.message = " \n "

	_, err := h.pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, output.ExitSystemError, output.GetExitCode(err))
	assert.Empty(t, h.committer.messages)
}

func TestRun_ErrorsPropagate(t *testing.T) {
	diffErr := output.NewSystemError("git command failed")
	h := newHarness("y\n")
	h.diffs.stagedErr = diffErr
	_, err := h.pipeline.Run(context.Background())
	require.ErrorIs(t, err, diffErr)

	genErr := output.NewSystemError("API request failed")
	h = newHarness("y\n")
	h.generator.err = genErr
	_, err = h.pipeline.Run(context.Background())
	require.ErrorIs(t, err, genErr)
	assert.Empty(t, h.committer.messages)

	commitErr := output.NewSystemError("git commit failed")
	h = newHarness("y\n")
	h.committer.err = commitErr
	_, err = h.pipeline.Run(context.Background())
	require.ErrorIs(t, err, commitErr)
}

func TestRun_DryRun(t *testing.T) {
	h := newHarness("")
	h.pipeline.DryRun = true

	result, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "feat: add main", result.Message)
	assert.False(t, result.Committed)
	assert.Empty(t, h.committer.messages)
	assert.NotContains(t, h.stderr.String(), "[y/e/n]")
}

func TestRun_AssumeYes(t *testing.T) {
	h := newHarness("")
	h.pipeline.AssumeYes = true

	_, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"feat: add main"}, h.committer.messages)
}

func TestRun_WarnsOnNonConventional(t *testing.T) {
	h := newHarness("n\n")
	h.generator.message = "Updated some files"

	_, err := h.pipeline.Run(context.Background())
	require.ErrorIs(t, err, ErrAborted)
	assert.Contains(t, h.stderr.String(), "conventional commit")
}

func TestParseChoice(t *testing.T) {
	tests := map[string]choice{
		"y":       choiceYes,
		" YES \n": choiceYes,
		"e":       choiceEdit,
		"Edit":    choiceEdit,
		"n":       choiceNo,
		"no\r\n":  choiceNo,
		"":        choiceUnknown,
		"q":       choiceUnknown,
	}
	for input, want := range tests {
		assert.Equal(t, want, parseChoice(input), "parseChoice(%q)", input)
	}
}

type fakeCompleter struct {
	req  llm.Request
	resp *llm.Response
	err  error
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	f.req = req
	return f.resp, f.err
}

func TestLLMGenerator(t *testing.T) {
	completer := &fakeCompleter{resp: &llm.Response{Content: "```\nfeat: add main\n```", Model: "m"}}
	tmpl := &prompt.Template{Content: "system prompt", MaxTokens: 128, Source: prompt.SourceBuiltin}

	msg, err := NewGenerator(completer, tmpl).Generate(context.Background(), testDiff)
	require.NoError(t, err)

	assert.Equal(t, "feat: add main", msg)
	assert.Equal(t, llm.Request{System: "system prompt", Prompt: testDiff, MaxTokens: 128}, completer.req)
}

func TestLLMGenerator_Error(t *testing.T) {
	apiErr := output.NewSystemError("API error: overloaded")
	completer := &fakeCompleter{err: apiErr}

	_, err := NewGenerator(completer, &prompt.Template{Content: "s"}).Generate(context.Background(), testDiff)
	require.ErrorIs(t, err, apiErr)
}

// End to end through the real client with a mocked HTTP transport.
type staticDoer struct{ body string }

func (d staticDoer) Do(*http.Request) (*http.Response, error) {
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(d.body))}, nil
}

func TestRun_WithMockedAPI(t *testing.T) {
	client, err := llm.New("sk-ant-test", "haiku")
	require.NoError(t, err)
	client.WithHTTPClient(staticDoer{body: `{"content":[{"type":"text","text":"fix: handle empty diff"}],"model":"claude-haiku-4-5-20251001"}`})

	h := newHarness("y\n")
	h.pipeline.Generator = NewGenerator(client, &prompt.Template{Content: "sys"})

	result, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fix: handle empty diff", result.Message)
	assert.Equal(t, []string{"fix: handle empty diff"}, h.committer.messages)
}
