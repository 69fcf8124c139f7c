package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the RISE banner to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Blue to purple, the classroom-to-deputy palette.
	lines := []struct {
		text  string
		color string
	}{
		{"  ____  ___ ____  _____ ", "#60a5fa"},
		{" |  _ \\|_ _/ ___|| ____|", "#34d399"},
		{" | |_) || |\\___ \\|  _|  ", "#2dd4bf"},
		{" |  _ < | | ___) | |___ ", "#a78bfa"},
		{" |_| \\_\\___|____/|_____|", "#c084fc"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String(" Whole School Behaviour Flow "+version).Faint())
	fmt.Fprintln(w)
}
