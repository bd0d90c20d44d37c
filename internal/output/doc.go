// Package output provides terminal output and exit-coded errors for the gy CLI.
//
// # Printer
//
// Printer writes human-readable text (lipgloss styles, disabled when the
// writer is not a terminal or --color never is given) or JSON when --json is
// set. Interactive text such as prompts, hints and warnings goes to the
// stderr writer so that stdout carries only results:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonMode, isTTY).
//		WithStderr(cmd.ErrOrStderr())
//	printer.Box("Proposed commit message", msg)
//	printer.Prompt("Commit with this message? [y/e/n]")
//
// Diff renders a staged diff, syntax highlighted with chroma on a TTY.
//
// # Exit Codes
//
//	output.ExitSuccess     // 0
//	output.ExitUserError   // 1: nothing staged, invalid key, aborted
//	output.ExitSystemError // 2: git, network or I/O failure
//
// Errors built with NewUserError / NewSystemError carry their exit code to
// main, which passes it to os.Exit. Nothing is retried.
package output
