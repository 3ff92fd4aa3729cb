// Package display writes hey's console output in a single foreground color.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Foreground is the Dracula cyan used for all program output
var Foreground = lipgloss.Color("#8be9fd")

// Printer writes colored text to an underlying writer. Newlines are passed
// through untouched so streamed text keeps its exact shape.
type Printer struct {
	w     io.Writer
	style lipgloss.Style
	color bool
}

// NewPrinter returns a Printer for w. When color is false, text is written
// verbatim.
func NewPrinter(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if color && r.ColorProfile() == termenv.Ascii {
		r.SetColorProfile(termenv.ANSI256)
	}
	return &Printer{
		w:     w,
		style: r.NewStyle().Foreground(Foreground).TabWidth(lipgloss.NoTabConversion),
		color: color,
	}
}

// Write implements io.Writer
func (p *Printer) Write(b []byte) (int, error) {
	if _, err := io.WriteString(p.w, p.colorize(string(b))); err != nil {
		return 0, err
	}
	return len(b), nil
}

// Print writes s with no separator
func (p *Printer) Print(s string) error {
	_, err := io.WriteString(p.w, p.colorize(s))
	return err
}

// Println writes s followed by a newline
func (p *Printer) Println(s string) error {
	return p.Print(s + "\n")
}

// Printf formats and writes
func (p *Printer) Printf(format string, args ...any) error {
	return p.Print(fmt.Sprintf(format, args...))
}

// colorize styles every line of s separately, so the renderer never pads
// lines to a common width.
func (p *Printer) colorize(s string) string {
	if !p.color || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = p.style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
