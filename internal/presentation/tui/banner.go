package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the minibmg banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	// Using a subtle gradient-like color scheme (Indigo/Violet)
	lines := []struct{ text, color string }{
		{"            _       _ _                    ", "#818cf8"},
		{"  _ __ ___ (_)_ __ (_) |__  _ __ ___   __ _ ", "#a78bfa"},
		{" | '_ ` _ \\| | '_ \\| | '_ \\| '_ ` _ \\ / _` |", "#c084fc"},
		{" | | | | | | | | | | | |_) | | | | | | (_| |", "#e879f9"},
		{" |_| |_| |_|_|_| |_|_|_.__/|_| |_| |_|\\__, |", "#f472b6"},
		{"                                      |___/ ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  "+version).Faint())
	fmt.Fprintln(w)
}

// Success formats a status line in green.
func Success(w io.Writer, format string, args ...any) {
	status(w, "#22c55e", "✓ ", format, args...)
}

// Failure formats a status line in red.
func Failure(w io.Writer, format string, args ...any) {
	status(w, "#ef4444", "✗ ", format, args...)
}

func status(w io.Writer, color, mark, format string, args ...any) {
	out := termenv.NewOutput(w)
	msg := mark + fmt.Sprintf(format, args...)
	fmt.Fprintln(w, out.String(msg).Foreground(out.ColorProfile().Color(color)))
}
