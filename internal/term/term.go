// Package term prints user-facing status lines with the same color scheme
// across every command: yellow for progress, green for success, red for
// errors on stderr.
package term

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	xterm "golang.org/x/term"
)

var (
	infoColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed)
)

// Configure applies the --color mode: auto colorizes only when stdout is a
// tty, always and never force the respective behavior.
func Configure(mode string) error {
	switch mode {
	case "", "auto":
		color.NoColor = !xterm.IsTerminal(int(os.Stdout.Fd()))
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (allowed: auto, always, never)", mode)
	}
	return nil
}

// Info prints a progress line.
func Info(format string, args ...any) {
	infoColor.Fprintf(os.Stdout, format+"\n", args...)
}

// Success prints a completion line.
func Success(format string, args ...any) {
	successColor.Fprintf(os.Stdout, format+"\n", args...)
}

// Warn prints a warning line.
func Warn(format string, args ...any) {
	warnColor.Fprintf(os.Stdout, "Warning: "+format+"\n", args...)
}

// Error prints an error line to stderr.
func Error(format string, args ...any) {
	errorColor.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
