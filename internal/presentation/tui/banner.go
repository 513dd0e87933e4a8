package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the stance ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`     _`, "#34d399"},
		{` ___| |_ __ _ _ __   ___ ___`, "#2dd4bf"},
		{`/ __| __/ _' | '_ \ / __/ _ \`, "#22d3ee"},
		{`\__ \ || (_| | | | | (_|  __/`, "#38bdf8"},
		{`|___/\__\__,_|_| |_|\___\___|`, "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
