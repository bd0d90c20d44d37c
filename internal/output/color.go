package output

import (
	"io"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
)

// ResolveColorMode determines the effective isTTY value based on the --color
// flag and actual TTY detection. colorMode accepts "never", "always", or "auto".
func ResolveColorMode(colorMode string, isTTY bool) bool {
	switch colorMode {
	case "never":
		return false
	case "always":
		return true
	default:
		return isTTY
	}
}

// IsTTY checks if a writer is a terminal.
// Returns true only for an *os.File that is a character device.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// Diff writes a unified diff to the output. On a TTY it is syntax highlighted;
// otherwise, or if highlighting fails, the raw text is written.
func (p *Printer) Diff(diff string) {
	if p.json {
		return
	}
	if p.isTTY {
		if err := quick.Highlight(p.w, diff, "diff", "terminal256", "monokai"); err == nil {
			mustWrite(io.WriteString(p.w, "\n"))
			return
		}
	}
	mustWrite(io.WriteString(p.w, diff+"\n"))
}
