package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the findsimulator banner shown when a server starts.
// Without color the banner is plain text.
func PrintBanner(w io.Writer, version string, color bool) {
	p := termenv.Ascii
	if color {
		p = termenv.TrueColor
	}
	title := p.String(" findsimulator ").Bold().Foreground(p.Color("#0f172a")).Background(p.Color("#38bdf8"))
	sub := p.String(" v" + version + " · xcodebuild destinations from simctl").Foreground(p.Color("#94a3b8"))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s%s\n", title, sub)
	fmt.Fprintln(w)
}
