package logger

import (
	"log/slog"
	"os"
)

// Logger is the process-wide logger. Init replaces it at startup.
var Logger *slog.Logger

// init sets up a fallback logger so packages and tests that log before Init
// do not hit a nil pointer.
func init() {
	if Logger == nil {
		Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{}))
	}
}
