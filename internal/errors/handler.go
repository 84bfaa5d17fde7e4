package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider yields terminal color codes without importing the CLI
// layer, which would create an import cycle.
type ColorProvider interface {
	Yellow() string
	Reset() string
}

// NoColor is the ColorProvider used when output is not a terminal.
type NoColor struct{}

func (NoColor) Yellow() string { return "" }
func (NoColor) Reset() string  { return "" }

// HandleCalculationError writes a user-facing status line for a failed
// computation and returns the matching exit code. It separates the three
// outcomes a user can hit interactively: deadline, interrupt, and
// everything else.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = NoColor{}
	}

	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s%s%s", colors.Yellow(), duration, colors.Reset())
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "Status: Failure (Timeout). The execution limit was reached%s.\n", suffix)
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Yellow(), suffix, colors.Reset())
		return ExitErrorCanceled
	default:
		fmt.Fprintf(out, "Status: Failure. An unexpected error occurred: %v\n", err)
		return ExitCodeFromError(err)
	}
}
