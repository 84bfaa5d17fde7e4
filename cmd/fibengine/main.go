// Command fibengine computes exact Fibonacci numbers at arbitrary
// indices. It runs one algorithm or races them all with cross-checking,
// serves the same computation over HTTP, and calibrates its thresholds
// to the host machine.
package main

import (
	"context"
	"os"

	"github.com/agbru/fibengine/internal/app"
	apperrors "github.com/agbru/fibengine/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
