package logging

import (
	"log/slog"
	"os"
)

// SetupJSON sets slog's default logger to JSON output at the given level,
// tagging every record with the component name.
func SetupJSON(level slog.Level, component string) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler).With("component", component)
	slog.SetDefault(logger)
}
