package git

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/gorewood/gy/internal/output"
)

// Diffstat represents the change statistics of a diff.
type Diffstat struct {
	Files      int // Number of files changed
	Insertions int // Number of lines inserted
	Deletions  int // Number of lines deleted
}

// StagedDiff returns the diff of the index against HEAD (git diff --staged).
// An empty string means nothing is staged.
func StagedDiff(ctx context.Context) (string, error) {
	out, err := RunContext(ctx, "diff", "--staged")
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to get staged diff", err)
	}
	return out, nil
}

// UnstagedDiff returns the diff of the work tree against the index (git diff).
func UnstagedDiff(ctx context.Context) (string, error) {
	out, err := RunContext(ctx, "diff")
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to get unstaged diff", err)
	}
	return out, nil
}

// StagedStat returns the change statistics of the staged diff.
func StagedStat(ctx context.Context) (Diffstat, error) {
	out, err := RunContext(ctx, "diff", "--staged", "--stat")
	if err != nil {
		return Diffstat{}, output.NewSystemErrorWithCause("failed to get staged diffstat", err)
	}
	return parseDiffstat(out), nil
}

// diffstatLineRegex matches the summary line of git diff --stat.
// Example: " 3 files changed, 45 insertions(+), 12 deletions(-)"
var diffstatLineRegex = regexp.MustCompile(`(\d+)\s+files?\s+changed(?:,\s+(\d+)\s+insertions?\(\+\))?(?:,\s+(\d+)\s+deletions?\(-\))?`)

// parseDiffstat extracts file, insertion, and deletion counts from git diff --stat output.
func parseDiffstat(out string) Diffstat {
	summary := lastNonEmptyLine(out)
	if summary == "" {
		return Diffstat{}
	}

	matches := diffstatLineRegex.FindStringSubmatch(summary)
	if matches == nil {
		return Diffstat{}
	}

	return Diffstat{
		Files:      matchInt(matches, 1),
		Insertions: matchInt(matches, 2),
		Deletions:  matchInt(matches, 3),
	}
}

func lastNonEmptyLine(out string) string {
	lines := strings.Split(out, "\n")
	for idx := len(lines) - 1; idx >= 0; idx-- {
		if line := strings.TrimSpace(lines[idx]); line != "" {
			return line
		}
	}
	return ""
}

// matchInt extracts an int from a regex match group, returning 0 when absent.
func matchInt(matches []string, idx int) int {
	if idx >= len(matches) || matches[idx] == "" {
		return 0
	}
	val, err := strconv.Atoi(matches[idx])
	if err != nil {
		return 0
	}
	return val
}
