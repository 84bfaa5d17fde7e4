package ui

import "github.com/fatih/color"

// Escape codes for callers that build strings incrementally (the error
// handler wraps hints without going through a Styler).
const (
	ansiYellow = "\033[33m"
	ansiReset  = "\033[0m"
)

// Palette hands out raw escape codes, returning empty strings when
// colors are disabled. It satisfies the error handler's color provider.
type Palette struct{}

func (Palette) Yellow() string {
	if color.NoColor {
		return ""
	}
	return ansiYellow
}

func (Palette) Reset() string {
	if color.NoColor {
		return ""
	}
	return ansiReset
}

// Convenience wrappers over the active theme, so call sites read
// ui.Success(...) instead of threading the theme around.

func Primary(format string, a ...interface{}) string {
	return GetCurrentTheme().Primary(format, a...)
}

func Secondary(format string, a ...interface{}) string {
	return GetCurrentTheme().Secondary(format, a...)
}

func Success(format string, a ...interface{}) string {
	return GetCurrentTheme().Success(format, a...)
}

func Warning(format string, a ...interface{}) string {
	return GetCurrentTheme().Warning(format, a...)
}

func Error(format string, a ...interface{}) string {
	return GetCurrentTheme().Error(format, a...)
}

func Info(format string, a ...interface{}) string {
	return GetCurrentTheme().Info(format, a...)
}

func Bold(format string, a ...interface{}) string {
	return GetCurrentTheme().Bold(format, a...)
}
