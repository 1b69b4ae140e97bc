package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the marquee banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).EnvColorProfile()
	lines := []struct {
		text, color string
	}{
		{"  _ __ ___   __ _ _ __ __ _ _   _  ___  ___ ", "#38bdf8"},
		{" | '_ ` _ \\ / _` | '__/ _` | | | |/ _ \\/ _ \\", "#22d3ee"},
		{" | | | | | | (_| | | | (_| | |_| |  __/  __/", "#2dd4bf"},
		{" |_| |_| |_|\\__,_|_|  \\__, |\\__,_|\\___|\\___|", "#34d399"},
		{"                         |_|                ", "#4ade80"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
