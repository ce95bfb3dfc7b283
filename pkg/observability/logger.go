package observability

import (
	"log/slog"
	"os"
)

// NewLogger returns a JSON slog.Logger tagged with the service name.
func NewLogger(serviceName string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler).With("service", serviceName)
}
