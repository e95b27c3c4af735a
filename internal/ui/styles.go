// Package ui styles terminal output for the marketpro CLI.
package ui

import (
	"fmt"
	"strings"
)

// ANSI256 color codes.
const (
	colorAccent  = 74  // blue
	colorCmd     = 250 // light gray
	colorMuted   = 245 // medium gray
	colorError   = 167 // red
	colorSuccess = 114 // green
)

var noColor bool

func paint(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return paint(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return paint(colorMuted, s) }

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string { return paint(colorCmd, s) }

// RenderError returns s in red, for validation messages.
func RenderError(s string) string { return paint(colorError, s) }

// RenderSuccess returns s in green.
func RenderSuccess(s string) string { return paint(colorSuccess, s) }

// Dots renders a carousel position indicator such as "○ ● ○".
func Dots(index, n int) string {
	dots := make([]string, n)
	for i := range dots {
		if i == index {
			dots[i] = RenderAccent("●")
		} else {
			dots[i] = RenderMuted("○")
		}
	}
	return strings.Join(dots, " ")
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
