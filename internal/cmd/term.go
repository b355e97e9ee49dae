package cmd

import (
	"io"
	"os"

	"github.com/charmbracelet/x/term"
)

const defaultWidth = 80

// isTerminal reports whether w is a terminal, enabling styled output.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// terminalWidth returns the width of w if it is a terminal, else defaultWidth.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}
	width, _, err := term.GetSize(f.Fd())
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
