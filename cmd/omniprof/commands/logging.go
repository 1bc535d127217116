package commands

import (
	"log/slog"
	"os"
)

// SetupLogging installs the default logger for the selected verbosity.
// Verbose wins over quiet when both are set.
func SetupLogging(verbose, quiet bool) {
	level := slog.LevelInfo

	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
