// Package commitmsg cleans up generated commit messages and checks them
// against the Conventional Commits subject format.
package commitmsg

import (
	"strings"
)

// preamblePatterns are common LLM thought-process prefixes that leak into output.
// Each pattern is checked as a case-insensitive prefix of the first non-empty line.
var preamblePatterns = []string{
	"here is",
	"here's",
	"i'll ",
	"i will ",
	"i've ",
	"i have ",
	"let me ",
	"sure,",
	"sure!",
	"okay,",
	"okay!",
	"certainly",
	"absolutely",
	"of course",
	"based on",
	"looking at",
	"after reviewing",
	"after analyzing",
	"commit message:",
	"suggested commit message",
}

// signoffPatterns are common LLM sign-offs appended after the actual content.
var signoffPatterns = []string{
	"let me know",
	"feel free to",
	"hope this helps",
	"is there anything",
	"would you like",
	"shall i ",
	"do you want",
	"i can also",
	"if you need",
	"if you'd like",
}

// Sanitize strips wrapping code fences, quotes, and LLM preamble and
// sign-off lines from a generated message. Anything else passes through.
func Sanitize(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return content
	}

	content = stripPreamble(content)
	content = stripSignoff(content)
	content = stripFence(strings.TrimSpace(content))
	content = stripQuotes(content)

	return strings.TrimSpace(content)
}

// stripFence removes a Markdown code fence wrapping the whole message,
// including an optional info string such as ```text.
func stripFence(content string) string {
	if len(content) < 6 || !strings.HasPrefix(content, "```") || !strings.HasSuffix(content, "```") {
		return content
	}

	inner := strings.TrimSuffix(strings.TrimPrefix(content, "```"), "```")
	firstLine, rest, ok := strings.Cut(inner, "\n")
	if !ok {
		return inner
	}
	// An info string is a single word; anything else on the opening line is
	// part of the message.
	if info := strings.TrimSpace(firstLine); strings.ContainsAny(info, ": ") {
		return inner
	}
	return rest
}

// stripQuotes removes one pair of matching quotes or backticks around the
// whole message.
func stripQuotes(content string) string {
	if len(content) < 2 {
		return content
	}
	for _, q := range []string{`"`, "'", "`"} {
		if strings.HasPrefix(content, q) && strings.HasSuffix(content, q) {
			inner := content[1 : len(content)-1]
			if !strings.Contains(inner, q) {
				return inner
			}
		}
	}
	return content
}

// stripPreamble removes leading lines that match preamble patterns.
// Strips at most 3 lines to avoid eating actual content.
func stripPreamble(content string) string {
	lines := strings.SplitN(content, "\n", 5)
	stripped := 0

	for stripped < len(lines) && stripped < 3 {
		line := strings.TrimSpace(lines[stripped])
		if line == "" {
			stripped++
			continue
		}
		if matchesAnyPrefix(line, preamblePatterns) {
			stripped++
			continue
		}
		break
	}

	if stripped == 0 || stripped == len(lines) {
		return content
	}

	return strings.Join(lines[stripped:], "\n")
}

// stripSignoff removes trailing paragraphs made up entirely of sign-off
// lines. The first paragraph is never touched, and a sign-off phrase inside
// a body paragraph is kept.
func stripSignoff(content string) string {
	lines := strings.Split(content, "\n")

	end := len(lines)
	for {
		for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
			end--
		}
		start := end
		for start > 0 && strings.TrimSpace(lines[start-1]) != "" {
			start--
		}
		if start == 0 || !allMatchPrefix(lines[start:end], signoffPatterns) {
			break
		}
		end = start
	}

	if end == len(lines) {
		return content
	}

	return strings.Join(lines[:end], "\n")
}

func allMatchPrefix(lines []string, patterns []string) bool {
	for _, line := range lines {
		if !matchesAnyPrefix(strings.TrimSpace(line), patterns) {
			return false
		}
	}
	return len(lines) > 0
}

// matchesAnyPrefix checks if the line starts with any of the given patterns (case-insensitive).
func matchesAnyPrefix(line string, patterns []string) bool {
	lower := strings.ToLower(line)
	for _, p := range patterns {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
