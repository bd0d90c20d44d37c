// Package prompt loads the system prompt used to draft commit messages.
//
// The template is resolved in order:
//  1. .gy/prompt.md (project-local)
//  2. <config dir>/prompt.md (user global)
//  3. Built-in template (embedded in binary)
//
// Templates are Markdown with optional YAML frontmatter; the body is sent
// verbatim as the system prompt and the staged diff is the user message.
package prompt
