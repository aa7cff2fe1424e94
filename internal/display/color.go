// Package display provides terminal styling on top of fatih/color and an
// aligned table renderer.
//
// It respects the NO_COLOR environment variable (https://no-color.org/) and
// detects whether stdout is a terminal. Colors are automatically disabled when
// output is piped or redirected, or when NO_COLOR is set. FORCE_COLOR turns
// them back on.
package display

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	bold   = color.New(color.Bold)
	dim    = color.New(color.Faint)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	gray   = color.New(color.FgHiBlack)
	accent = color.New(color.Bold, color.FgCyan)

	styles = []*color.Color{bold, dim, green, yellow, cyan, gray, accent}
)

func init() {
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		if _, off := os.LookupEnv("NO_COLOR"); !off {
			color.NoColor = false
		}
	}
}

// SetEnabled overrides the auto-detected color state.
// Useful for testing or when --json forces plain output.
func SetEnabled(b bool) {
	color.NoColor = !b
	for _, s := range styles {
		if b {
			s.EnableColor()
		} else {
			s.DisableColor()
		}
	}
}

// Enabled reports whether color output is currently active.
func Enabled() bool {
	return !color.NoColor
}

// Bold returns text rendered in bold.
func Bold(text string) string {
	return bold.Sprint(text)
}

// Dim returns text rendered in dim/faint.
func Dim(text string) string {
	return dim.Sprint(text)
}

// Green returns text rendered in green.
func Green(text string) string {
	return green.Sprint(text)
}

// Yellow returns text rendered in yellow.
func Yellow(text string) string {
	return yellow.Sprint(text)
}

// Cyan returns text rendered in cyan.
func Cyan(text string) string {
	return cyan.Sprint(text)
}

// Gray returns text rendered in gray (bright black).
func Gray(text string) string {
	return gray.Sprint(text)
}

// Accent returns text rendered in the accent color (cyan + bold).
// Used for the "next prayer" highlight.
func Accent(text string) string {
	return accent.Sprint(text)
}

// Boldf formats and bolds a string.
func Boldf(format string, a ...any) string {
	return Bold(fmt.Sprintf(format, a...))
}
