package display

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Package-level function variables for testing
var (
	isTerminalFunc = term.IsTerminal
	getenvFunc     = os.Getenv
)

// ColorEnabled reports whether output written to w should be colored.
// Color is used only for terminals, never when NO_COLOR is set or
// TERM is dumb, and FORCE_COLOR overrides the terminal check.
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor || getenvFunc("NO_COLOR") != "" {
		return false
	}
	if getenvFunc("FORCE_COLOR") != "" {
		return true
	}
	f, ok := w.(*os.File)
	if !ok || !isTerminalFunc(int(f.Fd())) {
		return false
	}
	termEnv := getenvFunc("TERM")
	return termEnv != "dumb"
}
