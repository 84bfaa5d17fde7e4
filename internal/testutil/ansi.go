// Package testutil holds small helpers shared by tests across packages.
package testutil

import "regexp"

// CSI sequences: ESC [ parameters final-byte.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes removes ANSI escape sequences so assertions can match
// terminal output regardless of the active color theme.
func StripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
