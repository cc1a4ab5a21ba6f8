package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`   ___ ___  _ __ ___  _   _| |_(_)_ __   ___  ___`, "#818cf8"},
	{`  / __/ _ \| '__/ _ \| | | | __| | '_ \ / _ \/ __|`, "#a78bfa"},
	{` | (_| (_) | | | (_) | |_| | |_| | | | |  __/\__ \`, "#c084fc"},
	{`  \___\___/|_|  \___/ \__,_|\__|_|_| |_|\___||___/`, "#f472b6"},
}

// PrintBanner writes the coroutines banner to w using the colours the
// terminal supports.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
