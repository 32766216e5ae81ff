package output

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether stderr, where the logger writes, is attached to
// an interactive terminal. SetupLogging uses this to decide whether the
// logger's color profile should be auto-detected (charmbracelet/log's
// default) or forced off, so piping synthctl's output to a file or another
// process never embeds ANSI escapes in the captured log.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
