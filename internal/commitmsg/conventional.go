package commitmsg

import (
	"regexp"
	"strings"
)

// Types are the commit types the generator is asked to choose from.
var Types = []string{"feat", "fix", "refactor", "docs", "style", "test", "chore", "perf", "ci", "build"}

// conventionalPattern matches "type(scope)!: description" subjects.
// revert is accepted in addition to the generator's types.
var conventionalPattern = regexp.MustCompile(
	`^(?:` + strings.Join(Types, "|") + `|revert)(?:\([\w./,\- ]+\))?!?: \S`,
)

// IsConventional reports whether the first line of msg is a Conventional
// Commits subject.
func IsConventional(msg string) bool {
	return conventionalPattern.MatchString(Subject(msg))
}

// Subject returns the first non-empty line of msg, trimmed.
func Subject(msg string) string {
	for line := range strings.SplitSeq(msg, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
