// Package ui centralizes terminal styling: named themes built on
// fatih/color, a process-wide active theme, and a color provider for
// packages that only need bare escape codes. Keeping presentation here
// lets the CLI, config usage text and error handler stay consistent
// without importing each other.
package ui

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Styler renders a formatted string in one of a theme's roles.
type Styler func(format string, a ...interface{}) string

// Theme is a named set of stylers, one per output role.
type Theme struct {
	Name string

	Primary   Styler // main accents: values the user asked for
	Secondary Styler // environment details, de-emphasized
	Success   Styler
	Warning   Styler
	Error     Styler
	Info      Styler
	Bold      Styler
	Underline Styler
}

func styled(attrs ...color.Attribute) Styler {
	c := color.New(attrs...)
	return c.SprintfFunc()
}

var plain Styler = func(format string, a ...interface{}) string {
	return fmt.Sprintf(format, a...)
}

var (
	// DarkTheme suits dark terminal backgrounds: bright, high-contrast
	// accents.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   styled(color.FgHiBlue),
		Secondary: styled(color.FgHiBlack),
		Success:   styled(color.FgHiGreen),
		Warning:   styled(color.FgHiYellow),
		Error:     styled(color.FgHiRed),
		Info:      styled(color.FgHiMagenta),
		Bold:      styled(color.Bold),
		Underline: styled(color.Underline),
	}

	// LightTheme uses the darker variants for light backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   styled(color.FgBlue),
		Secondary: styled(color.FgBlack),
		Success:   styled(color.FgGreen),
		Warning:   styled(color.FgYellow),
		Error:     styled(color.FgRed),
		Info:      styled(color.FgMagenta),
		Bold:      styled(color.Bold),
		Underline: styled(color.Underline),
	}

	// PlainTheme passes text through unstyled; active when colors are
	// disabled.
	PlainTheme = Theme{
		Name:      "none",
		Primary:   plain,
		Secondary: plain,
		Success:   plain,
		Warning:   plain,
		Error:     plain,
		Info:      plain,
		Bold:      plain,
		Underline: plain,
	}

	themeMu      sync.RWMutex
	currentTheme = DarkTheme
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// SetCurrentTheme installs t as the active theme; used by tests to
// restore state.
func SetCurrentTheme(t Theme) {
	themeMu.Lock()
	defer themeMu.Unlock()
	currentTheme = t
}

// SetTheme activates a theme by name ("dark", "light", "none"); unknown
// names fall back to dark.
func SetTheme(name string) {
	themeMu.Lock()
	defer themeMu.Unlock()
	switch name {
	case "light":
		currentTheme = LightTheme
	case "none":
		currentTheme = PlainTheme
	default:
		currentTheme = DarkTheme
	}
}

// InitTheme picks the startup theme. Colors are disabled by the
// noColor flag, by a set NO_COLOR variable (no-color.org), or when
// stdout is not a terminal; fatih/color is told too so its own
// detection agrees.
func InitTheme(noColor bool) {
	_, noColorEnv := os.LookupEnv("NO_COLOR")
	disabled := noColor || noColorEnv || !term.IsTerminal(int(os.Stdout.Fd()))

	themeMu.Lock()
	defer themeMu.Unlock()
	if disabled {
		color.NoColor = true
		currentTheme = PlainTheme
		return
	}
	currentTheme = DarkTheme
}

// ColorsEnabled reports whether styled output is currently active.
func ColorsEnabled() bool {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme.Name != "none" && !color.NoColor
}
